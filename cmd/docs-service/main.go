package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nurpe/travel-docs/internal/config"
	"github.com/nurpe/travel-docs/internal/db"
	"github.com/nurpe/travel-docs/internal/excel"
	"github.com/nurpe/travel-docs/internal/gateway"
	httphandler "github.com/nurpe/travel-docs/internal/http"
	"github.com/nurpe/travel-docs/internal/logger"
	"github.com/nurpe/travel-docs/internal/mail"
	"github.com/nurpe/travel-docs/internal/mapper"
	"github.com/nurpe/travel-docs/internal/metrics"
	"github.com/nurpe/travel-docs/internal/pdf"
	"github.com/nurpe/travel-docs/internal/raster"
	"github.com/nurpe/travel-docs/internal/render"
	"github.com/nurpe/travel-docs/internal/repository"
	"github.com/nurpe/travel-docs/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	gw := gateway.NewClient(cfg.Gateway.URL, cfg.Gateway.Timeout)
	rasterizer := raster.NewChromedpRasterizer(raster.Config{
		RemoteURL: cfg.Raster.ChromeRemoteURL,
		NoSandbox: cfg.Raster.ChromeNoSandbox,
		Scale:     cfg.Raster.Scale,
		Quality:   cfg.Raster.Quality,
		Timeout:   cfg.Raster.Timeout,
	}, log)
	defer rasterizer.Close()

	pdfGenerator := pdf.NewGenerator(cfg.Generation.PDFMaxBytes, log)
	collectors := metrics.New(prometheus.DefaultRegisterer)
	mailer := mail.NewSender(gw, cfg.Mail.DefaultSubject)

	deps := service.Dependencies{
		Loader:     mapper.NewService(gw),
		Renderer:   render.NewRenderer(),
		Rasterizer: rasterizer,
		PDF:        pdfGenerator,
		Excel:      excel.NewGenerator(),
		Mailer:     mailer,
		Metrics:    collectors,
	}
	if database != nil {
		deps.Log = repository.NewGenerationLogRepository(database)
	}

	documents := service.NewDocumentService(deps, cfg.Generation, log)
	bulk := service.NewBulkEmailer(documents, mailer, collectors, log)

	handler := httphandler.NewHandler(documents, bulk, log)
	router := httphandler.NewRouter(handler, httphandler.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
	}, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", addr).Int64("pdf_max_bytes", pdfGenerator.MaxBytes()).Msg("starting docs service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("docs service stopped")
}
