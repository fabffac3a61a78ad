package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "browser", cfg.Fetcher.Type)
	assert.True(t, cfg.Fetcher.Headless)
	assert.Equal(t, 15*time.Second, cfg.Fetcher.RenderTimeout)
	assert.Equal(t, 2*time.Second, cfg.Crawler.QueryDelay)
	assert.Equal(t, "compari.ro", cfg.Site.Domain)
	assert.Equal(t, "RON", cfg.Site.Currency)
	assert.Equal(t, 10.0, cfg.Extractor.MinPrice)
	assert.Equal(t, "json", cfg.Storage.Type)
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Site.Domain, cfg.Site.Domain)
	assert.Equal(t, DefaultConfig().Crawler.QueryDelay, cfg.Crawler.QueryDelay)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricescout.yaml")
	content := `
fetcher:
  type: http
  render_timeout: 30s
crawler:
  query_delay: 5s
site:
  domain: example.com
  product_marker: "/product/"
  currency: EUR
storage:
  type: csv
  output_path: ./out.csv
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Fetcher.Type)
	assert.Equal(t, 30*time.Second, cfg.Fetcher.RenderTimeout)
	assert.Equal(t, 5*time.Second, cfg.Crawler.QueryDelay)
	assert.Equal(t, "example.com", cfg.Site.Domain)
	assert.Equal(t, "/product/", cfg.Site.ProductMarker)
	assert.Equal(t, "EUR", cfg.Site.Currency)
	assert.Equal(t, "csv", cfg.Storage.Type)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultConfig().Site.SearchURL, cfg.Site.SearchURL)
	assert.Equal(t, DefaultConfig().Site.PricePattern, cfg.Site.PricePattern)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PRICESCOUT_SITE_DOMAIN", "env.example.org")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.example.org", cfg.Site.Domain)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(*Config) {}, true},
		{"http fetcher", func(c *Config) { c.Fetcher.Type = "http" }, true},
		{"zero delay", func(c *Config) { c.Crawler.QueryDelay = 0 }, true},
		{"mongo with uri", func(c *Config) {
			c.Storage.Type = "mongo"
			c.Storage.MongoURI = "mongodb://localhost:27017"
		}, true},
		{"unknown fetcher", func(c *Config) { c.Fetcher.Type = "carrier-pigeon" }, false},
		{"zero timeout", func(c *Config) { c.Fetcher.RenderTimeout = 0 }, false},
		{"negative delay", func(c *Config) { c.Crawler.QueryDelay = -time.Second }, false},
		{"empty domain", func(c *Config) { c.Site.Domain = "" }, false},
		{"empty search url", func(c *Config) { c.Site.SearchURL = "" }, false},
		{"bad currency", func(c *Config) { c.Site.Currency = "LEI2" }, false},
		{"bad price pattern", func(c *Config) { c.Site.PricePattern = "(" }, false},
		{"bad offers pattern", func(c *Config) { c.Site.OffersPattern = "[" }, false},
		{"negative min price", func(c *Config) { c.Extractor.MinPrice = -5 }, false},
		{"unknown storage", func(c *Config) { c.Storage.Type = "parquet" }, false},
		{"mongo without uri", func(c *Config) { c.Storage.Type = "mongo" }, false},
		{"empty output path", func(c *Config) { c.Storage.OutputPath = "" }, false},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }, false},
		{"metrics bad port", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Port = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
