package raster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

const (
	A4ViewportWidth  = 794
	A4ViewportHeight = 1123

	defaultTimeout = 60 * time.Second
	defaultScale   = 2.0
	defaultQuality = 92
)

var ErrRasterFailed = errors.New("rasterization failed")

const (
	FormatJPEG = "JPG"
	FormatPNG  = "PNG"
)

type Image struct {
	Data   []byte
	Format string
}

type Config struct {
	RemoteURL string
	NoSandbox bool
	Scale     float64
	// Quality below 100 produces JPEG, 100 produces PNG.
	Quality int
	Timeout time.Duration
}

type ChromedpRasterizer struct {
	cfg         Config
	log         zerolog.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromedpRasterizer(cfg Config, log zerolog.Logger) *ChromedpRasterizer {
	cfg = withDefaults(cfg)
	r := &ChromedpRasterizer{cfg: cfg, log: log}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

func withDefaults(cfg Config) Config {
	if cfg.Scale <= 0 {
		cfg.Scale = defaultScale
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = defaultQuality
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

func (c Config) format() string {
	if c.Quality >= 100 {
		return FormatPNG
	}
	return FormatJPEG
}

func (r *ChromedpRasterizer) Rasterize(ctx context.Context, html string) (*Image, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("%w: empty html", ErrRasterFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx)
	defer tabCancel()

	go func() {
		<-ctx.Done()
		tabCancel()
	}()

	started := time.Now()
	var shot []byte
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(A4ViewportWidth, A4ViewportHeight, chromedp.EmulateScale(r.cfg.Scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&shot, r.cfg.Quality),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", ErrRasterFailed, r.cfg.Timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrRasterFailed, err)
	}
	if len(shot) == 0 {
		return nil, fmt.Errorf("%w: empty screenshot", ErrRasterFailed)
	}

	r.log.Debug().
		Int("bytes", len(shot)).
		Dur("duration", time.Since(started)).
		Msg("html rasterized")

	return &Image{Data: shot, Format: r.cfg.format()}, nil
}

func (r *ChromedpRasterizer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
