package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for pricescout.
type Config struct {
	Fetcher   FetcherConfig   `mapstructure:"fetcher"   yaml:"fetcher"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"   yaml:"crawler"`
	Site      SiteConfig      `mapstructure:"site"      yaml:"site"`
	Extractor ExtractorConfig `mapstructure:"extractor" yaml:"extractor"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   yaml:"metrics"`
}

// FetcherConfig controls the page renderer.
type FetcherConfig struct {
	// Type selects the renderer: "browser" (headless Chromium) or
	// "http" (plain requests, no JavaScript).
	Type          string        `mapstructure:"type"           yaml:"type"`
	Headless      bool          `mapstructure:"headless"       yaml:"headless"`
	RenderTimeout time.Duration `mapstructure:"render_timeout" yaml:"render_timeout"`
	UserAgent     string        `mapstructure:"user_agent"     yaml:"user_agent"`
}

// CrawlerConfig controls the per-query batch flow.
type CrawlerConfig struct {
	// QueryDelay is the politeness pause between consecutive queries.
	QueryDelay time.Duration `mapstructure:"query_delay" yaml:"query_delay"`

	// Interactive pauses after each page load so an operator can clear
	// login or bot-check challenges in the browser window.
	Interactive bool `mapstructure:"interactive" yaml:"interactive"`
}

// SiteConfig describes the comparison site and its text conventions.
type SiteConfig struct {
	// SearchURL is the search engine prefix queries are appended to.
	SearchURL string `mapstructure:"search_url" yaml:"search_url"`

	// Domain marks links that belong to the comparison site.
	Domain string `mapstructure:"domain" yaml:"domain"`

	// ProductMarker is the substring convention distinguishing a product
	// detail page from a category or listing page.
	ProductMarker string `mapstructure:"product_marker" yaml:"product_marker"`

	// Currency denominates every extracted amount.
	Currency string `mapstructure:"currency" yaml:"currency"`

	// PricePattern matches a price-like run of digits followed by a
	// currency token. Its first capture group is fed to the parser.
	PricePattern string `mapstructure:"price_pattern" yaml:"price_pattern"`

	// OffersPattern matches the advertised offer count.
	OffersPattern string `mapstructure:"offers_pattern" yaml:"offers_pattern"`
}

// ExtractorConfig controls extraction heuristics.
type ExtractorConfig struct {
	// MinPrice is the noise threshold; parsed amounts at or below it are
	// discarded as stray quantities.
	MinPrice float64 `mapstructure:"min_price" yaml:"min_price"`
}

// StorageConfig controls the output backend.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"`
	OutputPath      string `mapstructure:"output_path"      yaml:"output_path"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults, tuned for
// compari.ro discovered through Google search.
func DefaultConfig() *Config {
	return &Config{
		Fetcher: FetcherConfig{
			Type:          "browser",
			Headless:      true,
			RenderTimeout: 15 * time.Second,
		},
		Crawler: CrawlerConfig{
			QueryDelay:  2 * time.Second,
			Interactive: false,
		},
		Site: SiteConfig{
			SearchURL:     "https://www.google.com/search?q=",
			Domain:        "compari.ro",
			ProductMarker: "-p",
			Currency:      "RON",
			PricePattern:  `(?i)([\d\s.,]+)\s*(?:lei|RON)`,
			OffersPattern: `(?i)(\d+)\s+ofert[eă]`,
		},
		Extractor: ExtractorConfig{
			MinPrice: 10,
		},
		Storage: StorageConfig{
			Type:            "json",
			OutputPath:      "./products.json",
			MongoDatabase:   "pricescout",
			MongoCollection: "products",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
