package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "petromatch")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	for _, k := range []string{"REDIS_HOST", "REDIS_PORT", "BOARDS_FILE", "SCRAPER_WORKERS", "SCRAPER_PAGE_DELAY", "MATCH_MIN_SCORE", "APP_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Scraper.Workers)
	assert.Equal(t, 2*time.Second, cfg.Scraper.PageDelay)
	assert.Equal(t, 10*time.Second, cfg.Scraper.SubmitWindow)
	assert.Equal(t, 0.3, cfg.Matching.MinScore)
	assert.Equal(t, 0.95, cfg.Matching.Ceiling)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxCVBytes)
	assert.Equal(t, "configs/boards.yaml", cfg.Paths.BoardsFile)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.NotEmpty(t, cfg.Scraper.UserAgent)
	assert.Empty(t, cfg.App.AllowedOrigins)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("SCRAPER_PAGE_DELAY", "soon")
	t.Setenv("MATCH_MIN_SCORE", "high")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCRAPER_PAGE_DELAY")
	assert.Contains(t, err.Error(), "MATCH_MIN_SCORE")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SCRAPER_WORKERS", "8")
	t.Setenv("SCRAPER_BROWSER_HEADLESS", "false")
	t.Setenv("UPLOAD_MAX_CV_BYTES", "1024")
	t.Setenv("APP_ALLOWED_ORIGINS", " https://app.petromatch.io/ ,, http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Scraper.Workers)
	assert.False(t, cfg.Scraper.BrowserHeadless)
	assert.Equal(t, int64(1024), cfg.Upload.MaxCVBytes)
	assert.Equal(t, []string{"https://app.petromatch.io", "http://localhost:3000"}, cfg.App.AllowedOrigins)
}
