// Package crawler sequences the discovery-then-extraction pipeline for
// a batch of product queries: search, locate a candidate product page,
// render it, extract prices. One query is fully processed before the
// next begins; the rendering session has no concurrent-use contract.
package crawler

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/rcostache/pricescout/internal/challenge"
	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/extract"
	"github.com/rcostache/pricescout/internal/fetcher"
	"github.com/rcostache/pricescout/internal/locate"
	"github.com/rcostache/pricescout/internal/observability"
	"github.com/rcostache/pricescout/internal/pipeline"
	"github.com/rcostache/pricescout/internal/types"
)

// Crawler drives the batch over many queries, collecting successes and
// skipping failures. No per-query error is fatal to the batch.
type Crawler struct {
	cfg       *config.Config
	session   fetcher.Session
	locator   *locate.Locator
	extractor extract.Extractor
	pipeline  *pipeline.Pipeline
	resolver  challenge.Resolver
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// Option configures the Crawler.
type Option func(*Crawler)

// WithResolver sets the challenge resolver. Defaults to a no-op.
func WithResolver(r challenge.Resolver) Option {
	return func(c *Crawler) { c.resolver = r }
}

// WithPipeline sets the record pipeline. Defaults to none.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(c *Crawler) { c.pipeline = p }
}

// WithMetrics sets the metrics collector. Defaults to none (no-ops).
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Crawler) { c.metrics = m }
}

// New creates a Crawler over an already-acquired rendering session.
func New(cfg *config.Config, session fetcher.Session, locator *locate.Locator, extractor extract.Extractor, logger *slog.Logger, opts ...Option) *Crawler {
	c := &Crawler{
		cfg:       cfg,
		session:   session,
		locator:   locator,
		extractor: extractor,
		resolver:  challenge.NopResolver{},
		logger:    logger.With("component", "crawler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run processes the queries in order and returns the records of the
// successful ones, in input order. Failed queries are skipped with a
// warning. A cancelled context stops the batch between queries; records
// accumulated so far are still returned.
func (c *Crawler) Run(ctx context.Context, queries []string) []*types.ProductRecord {
	records := make([]*types.ProductRecord, 0, len(queries))

	for i, query := range queries {
		if i > 0 {
			if err := c.pause(ctx); err != nil {
				c.logger.Warn("batch interrupted", "processed", i, "total", len(queries))
				break
			}
		}

		record, err := c.crawlOne(ctx, query)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.logger.Warn("batch interrupted", "processed", i, "total", len(queries))
				break
			}
			c.logger.Warn("query skipped", "query", query, "reason", err)
			c.metrics.IncSkipped(skipReason(err))
			continue
		}
		if record == nil {
			// Dropped by the pipeline.
			c.metrics.IncSkipped("pipeline")
			continue
		}

		records = append(records, record)
		c.metrics.IncRecords()
	}

	c.logger.Info("batch complete", "succeeded", len(records), "attempted", len(queries))
	return records
}

// crawlOne runs the full search → locate → render → extract sequence
// for a single query.
func (c *Crawler) crawlOne(ctx context.Context, query string) (*types.ProductRecord, error) {
	c.logger.Info("processing query", "query", query)
	c.metrics.IncQueries()

	searchURL := c.searchURL(query)
	c.logger.Info("search", "url", searchURL)

	searchPage, err := c.render(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	if err := c.resolver.Resolve(ctx, challenge.StageSearch, searchPage); err != nil {
		return nil, err
	}

	candidateURL, err := c.locator.Locate(searchPage.Links())
	if err != nil {
		return nil, err
	}
	c.logger.Info("candidate located", "query", query, "url", candidateURL)

	candidatePage, err := c.render(ctx, candidateURL)
	if err != nil {
		return nil, err
	}
	if err := c.resolver.Resolve(ctx, challenge.StageCandidate, candidatePage); err != nil {
		return nil, err
	}

	record, err := c.extractor.Extract(candidatePage, query)
	if err != nil {
		return nil, err
	}

	if c.pipeline != nil {
		record, err = c.pipeline.Process(record)
		if err != nil {
			return nil, err
		}
	}
	return record, nil
}

// render fetches one page and tracks its duration.
func (c *Crawler) render(ctx context.Context, pageURL string) (*types.RenderedPage, error) {
	page, err := c.session.Render(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveRender(page.FetchDuration)
	return page, nil
}

// searchURL builds the site-restricted search address for a query.
func (c *Crawler) searchURL(query string) string {
	term := query + " site:" + c.cfg.Site.Domain
	return c.cfg.Site.SearchURL + url.QueryEscape(term)
}

// pause sleeps the inter-query politeness delay, honoring cancellation.
func (c *Crawler) pause(ctx context.Context) error {
	if c.cfg.Crawler.QueryDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.cfg.Crawler.QueryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// skipReason maps an error to a metrics label.
func skipReason(err error) string {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return "no_candidate"
	case errors.Is(err, types.ErrNoPrices):
		return "no_prices"
	case errors.Is(err, types.ErrTimeout):
		return "timeout"
	default:
		return "fetch"
	}
}
