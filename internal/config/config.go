package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type GatewayConfig struct {
	URL     string
	Timeout time.Duration
}

// DBConfig is optional. An empty DSN disables the generation log.
type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RasterConfig struct {
	ChromeRemoteURL string
	ChromeNoSandbox bool
	Scale           float64
	Quality         int
	Timeout         time.Duration
}

type GenerationConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
	PDFMaxBytes int64
}

type MailConfig struct {
	DefaultSubject string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Gateway     GatewayConfig
	DB          DBConfig
	Raster      RasterConfig
	Generation  GenerationConfig
	Mail        MailConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:               v.GetString("HTTP_HOST"),
			Port:               v.GetInt("HTTP_PORT"),
			CORSAllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Gateway: GatewayConfig{
			URL:     strings.TrimSpace(v.GetString("GATEWAY_URL")),
			Timeout: v.GetDuration("GATEWAY_TIMEOUT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Raster: RasterConfig{
			ChromeRemoteURL: v.GetString("CHROME_REMOTE_URL"),
			ChromeNoSandbox: v.GetBool("CHROME_NO_SANDBOX"),
			Scale:           v.GetFloat64("RASTER_SCALE"),
			Quality:         v.GetInt("RASTER_QUALITY"),
			Timeout:         v.GetDuration("RASTER_TIMEOUT"),
		},
		Generation: GenerationConfig{
			MaxAttempts: v.GetInt("GENERATION_MAX_ATTEMPTS"),
			RetryDelay:  v.GetDuration("GENERATION_RETRY_DELAY"),
			PDFMaxBytes: v.GetInt64("PDF_MAX_BYTES"),
		},
		Mail: MailConfig{
			DefaultSubject: v.GetString("MAIL_DEFAULT_SUBJECT"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.CORSAllowedOrigins) == 0 {
		cfg.HTTP.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Gateway.Timeout <= 0 {
		cfg.Gateway.Timeout = 30 * time.Second
	}
	if cfg.DB.MaxOpenConns == 0 {
		cfg.DB.MaxOpenConns = 10
	}
	if cfg.DB.MaxIdleConns == 0 {
		cfg.DB.MaxIdleConns = 5
	}
	if cfg.DB.ConnMaxLifetime == 0 {
		cfg.DB.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.Raster.Scale <= 0 {
		cfg.Raster.Scale = 2
	}
	if cfg.Raster.Quality == 0 {
		cfg.Raster.Quality = 92
	}
	if cfg.Raster.Timeout <= 0 {
		cfg.Raster.Timeout = 60 * time.Second
	}
	if !v.IsSet("GENERATION_MAX_ATTEMPTS") {
		cfg.Generation.MaxAttempts = 3
	}
	if !v.IsSet("GENERATION_RETRY_DELAY") {
		cfg.Generation.RetryDelay = 200 * time.Millisecond
	}
	if !v.IsSet("PDF_MAX_BYTES") {
		cfg.Generation.PDFMaxBytes = 10 * 1024 * 1024
	}
	if cfg.Mail.DefaultSubject == "" {
		cfg.Mail.DefaultSubject = "Travel documents"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Gateway.URL == "" {
		return fmt.Errorf("GATEWAY_URL is required")
	}
	if cfg.Generation.PDFMaxBytes <= 0 {
		return fmt.Errorf("PDF_MAX_BYTES must be positive")
	}
	if cfg.Generation.MaxAttempts < 1 {
		return fmt.Errorf("GENERATION_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.Raster.Quality < 1 || cfg.Raster.Quality > 100 {
		return fmt.Errorf("RASTER_QUALITY must be between 1 and 100")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
