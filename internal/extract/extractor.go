// Package extract mines structured product data out of rendered page
// text. Extraction is regex-based and deliberately tolerant: anything
// that does not parse as a price is skipped, and a page with no usable
// prices yields types.ErrNoPrices rather than a partial record.
package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/price"
	"github.com/rcostache/pricescout/internal/types"
)

// Extractor turns a rendered page into a ProductRecord.
type Extractor interface {
	// Extract produces a record for the page, or types.ErrNoPrices when
	// the page carries no usable price amounts.
	Extract(page *types.RenderedPage, query string) (*types.ProductRecord, error)
}

// RegexExtractor extracts prices and offer counts by pattern-matching
// the visible page text.
type RegexExtractor struct {
	priceRe  *regexp.Regexp
	offersRe *regexp.Regexp
	minPrice float64
	currency string
	logger   *slog.Logger
}

// New compiles the site patterns and returns a RegexExtractor.
func New(cfg *config.Config, logger *slog.Logger) (*RegexExtractor, error) {
	priceRe, err := regexp.Compile(cfg.Site.PricePattern)
	if err != nil {
		return nil, fmt.Errorf("compile price pattern: %w", err)
	}
	offersRe, err := regexp.Compile(cfg.Site.OffersPattern)
	if err != nil {
		return nil, fmt.Errorf("compile offers pattern: %w", err)
	}
	return &RegexExtractor{
		priceRe:  priceRe,
		offersRe: offersRe,
		minPrice: cfg.Extractor.MinPrice,
		currency: cfg.Site.Currency,
		logger:   logger.With("component", "extractor"),
	}, nil
}

// Extract implements Extractor.
func (e *RegexExtractor) Extract(page *types.RenderedPage, query string) (*types.ProductRecord, error) {
	body := page.Text()

	amounts := e.minePrices(body)
	if len(amounts) == 0 {
		e.logger.Warn("no prices extracted", "url", page.URL, "query", query)
		return nil, fmt.Errorf("extract %s: %w", page.URL, types.ErrNoPrices)
	}

	minAmount, maxAmount := amounts[0], amounts[0]
	for _, a := range amounts[1:] {
		if a < minAmount {
			minAmount = a
		}
		if a > maxAmount {
			maxAmount = a
		}
	}

	name := page.Heading()
	if name == "" {
		name = query
	}

	record := &types.ProductRecord{
		Query:    query,
		Name:     name,
		MinPrice: minAmount,
		MaxPrice: maxAmount,
		Offers:   e.mineOffers(body, len(amounts)),
		URL:      page.URL,
		Currency: e.currency,
	}

	e.logger.Debug("record extracted",
		"url", page.URL,
		"name", record.Name,
		"min_price", record.MinPrice,
		"max_price", record.MaxPrice,
		"offers", record.Offers,
	)
	return record, nil
}

// minePrices finds every price-like substring, parses it, and keeps
// amounts above the noise threshold. Parse failures are dropped.
func (e *RegexExtractor) minePrices(body string) []float64 {
	var amounts []float64
	for _, match := range e.priceRe.FindAllStringSubmatch(body, -1) {
		if len(match) < 2 {
			continue
		}
		amount, err := price.Parse(match[1])
		if err != nil {
			continue
		}
		if amount <= e.minPrice {
			continue
		}
		amounts = append(amounts, amount)
	}
	return amounts
}

// mineOffers reads the advertised offer count; when the page does not
// state one, the number of parsed prices stands in for it.
func (e *RegexExtractor) mineOffers(body string, priceCount int) int {
	match := e.offersRe.FindStringSubmatch(body)
	if len(match) >= 2 {
		if n, err := strconv.Atoi(match[1]); err == nil {
			return n
		}
	}
	return priceCount
}
