package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcostache/pricescout/internal/challenge"
	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/crawler"
	"github.com/rcostache/pricescout/internal/extract"
	"github.com/rcostache/pricescout/internal/fetcher"
	"github.com/rcostache/pricescout/internal/locate"
	"github.com/rcostache/pricescout/internal/observability"
	"github.com/rcostache/pricescout/internal/pipeline"
	"github.com/rcostache/pricescout/internal/storage"
	"github.com/rcostache/pricescout/internal/types"
)

var (
	inputFile   string
	outputPath  string
	outputType  string
	fetcherType string
	queryDelay  string
	interactive bool
	headful     bool
)

// crawlCmd creates the "crawl" subcommand.
func crawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [query]...",
		Short: "Look up prices for one or more product queries",
		Long: `Look up each query on the comparison site and record its price range.

Queries are given as arguments or read from a file with --input
(one query per line; blank lines and # comments are skipped).`,
		RunE: runCrawl,
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "file with one query per line")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "output format: json, csv, mongo")
	cmd.Flags().StringVar(&fetcherType, "fetcher", "", "page renderer: browser, http")
	cmd.Flags().StringVar(&queryDelay, "delay", "", "politeness delay between queries (e.g. 2s)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "pause for manual captcha/bot-check resolution")
	cmd.Flags().BoolVar(&headful, "headful", false, "run the browser with a visible window")

	return cmd
}

// runCrawl executes the crawl command.
func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Logging.Level)

	queries, err := collectQueries(args)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries given, pass them as arguments or via --input")
	}

	logger.Info("starting crawl",
		"queries", len(queries),
		"fetcher", cfg.Fetcher.Type,
		"site", cfg.Site.Domain,
		"storage", cfg.Storage.Type,
	)

	// Acquiring the rendering session is the only fatal failure point.
	session, err := fetcher.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("acquire session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("session close error", "error", err)
		}
	}()

	extractor, err := extract.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create extractor: %w", err)
	}

	pipe := pipeline.New(logger)
	pipe.Use(pipeline.TrimMiddleware{})
	pipe.Use(pipeline.CurrencyMiddleware{Default: cfg.Site.Currency})
	pipe.Use(pipeline.ValidateMiddleware{})

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(logger)
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	var resolver challenge.Resolver = challenge.NopResolver{}
	if cfg.Crawler.Interactive {
		resolver = challenge.NewPromptResolver(os.Stdin, os.Stdout, logger)
	}

	c := crawler.New(cfg, session, locate.New(&cfg.Site, logger), extractor, logger,
		crawler.WithResolver(resolver),
		crawler.WithPipeline(pipe),
		crawler.WithMetrics(metrics),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, finishing current query...", "signal", sig)
		cancel()
	}()

	start := time.Now()
	records := c.Run(ctx, queries)
	elapsed := time.Since(start)

	printSummary(records, len(queries), elapsed)

	if len(records) == 0 {
		logger.Warn("no products found, nothing to save")
		return nil
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if err := store.Store(records); err != nil {
		store.Close()
		return fmt.Errorf("store records: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}

	return nil
}

// collectQueries merges argument queries with the --input file.
func collectQueries(args []string) ([]string, error) {
	queries := make([]string, 0, len(args))
	for _, arg := range args {
		if q := strings.TrimSpace(arg); q != "" {
			queries = append(queries, q)
		}
	}

	if inputFile == "" {
		return queries, nil
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return queries, nil
}

// printSummary mirrors the end-of-run console report.
func printSummary(records []*types.ProductRecord, attempted int, elapsed time.Duration) {
	fmt.Printf("\n=== pricescout results ===\n\n")
	fmt.Printf("Products found: %d of %d (in %s)\n\n", len(records), attempted, elapsed.Round(time.Millisecond))
	for _, r := range records {
		fmt.Printf("Query:      %s\n", r.Query)
		fmt.Printf("Name:       %s\n", r.Name)
		fmt.Printf("URL:        %s\n", r.URL)
		fmt.Printf("Min price:  %.2f %s\n", r.MinPrice, r.Currency)
		fmt.Printf("Max price:  %.2f %s\n", r.MaxPrice, r.Currency)
		fmt.Printf("Offers:     %d\n", r.Offers)
		fmt.Println(strings.Repeat("-", 50))
	}
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
	if fetcherType != "" {
		cfg.Fetcher.Type = strings.ToLower(fetcherType)
	}
	if queryDelay != "" {
		if d, err := time.ParseDuration(queryDelay); err == nil {
			cfg.Crawler.QueryDelay = d
		}
	}
	if interactive {
		cfg.Crawler.Interactive = true
	}
	if headful {
		cfg.Fetcher.Headless = false
	}
}
