package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("GATEWAY_URL", " http://gateway.local/api.php ")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, "http://gateway.local/api.php", cfg.Gateway.URL)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Empty(t, cfg.DB.DSN)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, 2.0, cfg.Raster.Scale)
	assert.Equal(t, 92, cfg.Raster.Quality)
	assert.Equal(t, 3, cfg.Generation.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Generation.RetryDelay)
	assert.Equal(t, int64(10485760), cfg.Generation.PDFMaxBytes)
	assert.Equal(t, "Travel documents", cfg.Mail.DefaultSubject)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("GATEWAY_URL", "http://gw")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	v.Set("GENERATION_MAX_ATTEMPTS", "5")
	v.Set("GENERATION_RETRY_DELAY", "0s")
	v.Set("RASTER_QUALITY", "100")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, 5, cfg.Generation.MaxAttempts)
	assert.Equal(t, time.Duration(0), cfg.Generation.RetryDelay)
	assert.Equal(t, 100, cfg.Raster.Quality)
}

func TestFromViper_Validation(t *testing.T) {
	tests := map[string]map[string]any{
		"missing gateway":  {},
		"zero max bytes":   {"GATEWAY_URL": "http://gw", "PDF_MAX_BYTES": 0},
		"no attempts":      {"GATEWAY_URL": "http://gw", "GENERATION_MAX_ATTEMPTS": 0},
		"quality too high": {"GATEWAY_URL": "http://gw", "RASTER_QUALITY": 101},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			for k, val := range values {
				v.Set(k, val)
			}
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}
