package config

import (
	"fmt"
	"net/url"
	"regexp"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Fetcher.Type != "browser" && cfg.Fetcher.Type != "http" {
		return fmt.Errorf("fetcher.type must be 'browser' or 'http', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RenderTimeout <= 0 {
		return fmt.Errorf("fetcher.render_timeout must be > 0")
	}

	if cfg.Crawler.QueryDelay < 0 {
		return fmt.Errorf("crawler.query_delay must be >= 0")
	}

	if cfg.Site.Domain == "" {
		return fmt.Errorf("site.domain must not be empty")
	}
	if cfg.Site.SearchURL == "" {
		return fmt.Errorf("site.search_url must not be empty")
	}
	if _, err := url.Parse(cfg.Site.SearchURL); err != nil {
		return fmt.Errorf("invalid site.search_url %q: %w", cfg.Site.SearchURL, err)
	}
	if len(cfg.Site.Currency) != 3 {
		return fmt.Errorf("site.currency must be a 3-letter code, got %q", cfg.Site.Currency)
	}
	if _, err := regexp.Compile(cfg.Site.PricePattern); err != nil {
		return fmt.Errorf("invalid site.price_pattern: %w", err)
	}
	if _, err := regexp.Compile(cfg.Site.OffersPattern); err != nil {
		return fmt.Errorf("invalid site.offers_pattern: %w", err)
	}

	if cfg.Extractor.MinPrice < 0 {
		return fmt.Errorf("extractor.min_price must be >= 0, got %v", cfg.Extractor.MinPrice)
	}

	validStorageTypes := map[string]bool{
		"json": true, "csv": true, "mongo": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: json, csv, mongo)", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongo" && cfg.Storage.MongoURI == "" {
		return fmt.Errorf("storage.mongo_uri is required for mongo storage")
	}
	if cfg.Storage.Type != "mongo" && cfg.Storage.OutputPath == "" {
		return fmt.Errorf("storage.output_path must not be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level %q is not supported (valid: debug, info, warn, error)", cfg.Logging.Level)
	}

	if cfg.Metrics.Enabled && (cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port must be in 1..65535, got %d", cfg.Metrics.Port)
	}

	return nil
}
