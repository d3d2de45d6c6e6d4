package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "es-AR", cfg.Browser.Locale)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Browser.TimezoneID)
	assert.Equal(t, 2, cfg.Scraper.MaxRetries)
	assert.Equal(t, "stream:scrape_progress", cfg.Redis.Stream)
	assert.Equal(t, "json", cfg.Logging.Format)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("BROWSER_NAV_TIMEOUT", "90s")
	t.Setenv("SCRAPER_MAX_RETRIES", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 90*time.Second, cfg.Browser.NavTimeout)
	assert.Equal(t, 5, cfg.Scraper.MaxRetries)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SCRAPER_MAX_RETRIES", "many")
	t.Setenv("BROWSER_NAV_TIMEOUT", "pronto")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Scraper.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavTimeout)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Browser.NavTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg, _ = Load()
	cfg.Database.Enabled = true
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg, _ = Load()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = ""
	assert.Error(t, cfg.Validate())
}
