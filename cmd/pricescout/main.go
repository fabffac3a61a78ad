package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcostache/pricescout/internal/config"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pricescout",
		Short: "pricescout is a product price discovery crawler",
		Long: `pricescout looks up products on a price-comparison site and records
the observed price range and offer count for each one.

For every query it searches the web restricted to the comparison site,
picks the best product-page link, renders that page in a headless
browser, and mines the visible text for prices. Results are written
once at the end of the run as JSON, CSV, or to MongoDB.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(crawlCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pricescout %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Fetcher:\n")
			fmt.Printf("  Type:            %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Headless:        %v\n", cfg.Fetcher.Headless)
			fmt.Printf("  Render Timeout:  %s\n", cfg.Fetcher.RenderTimeout)
			fmt.Printf("\nCrawler:\n")
			fmt.Printf("  Query Delay:     %s\n", cfg.Crawler.QueryDelay)
			fmt.Printf("  Interactive:     %v\n", cfg.Crawler.Interactive)
			fmt.Printf("\nSite:\n")
			fmt.Printf("  Search URL:      %s\n", cfg.Site.SearchURL)
			fmt.Printf("  Domain:          %s\n", cfg.Site.Domain)
			fmt.Printf("  Product Marker:  %s\n", cfg.Site.ProductMarker)
			fmt.Printf("  Currency:        %s\n", cfg.Site.Currency)
			fmt.Printf("\nExtractor:\n")
			fmt.Printf("  Min Price:       %v\n", cfg.Extractor.MinPrice)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:            %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:     %s\n", cfg.Storage.OutputPath)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:         %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:            %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

// setupLogger creates a structured logger at the configured level.
func setupLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
