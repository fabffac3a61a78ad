// Package locate selects the best product-page candidate from the links
// of a rendered search-results page.
package locate

import (
	"log/slog"
	"strings"

	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/types"
)

// Locator picks a candidate URL out of a link set using a two-tier
// preference: detail-page links first, then any link on the target
// domain. Selection is greedy and order-preserving; the first match in
// document order wins within each tier.
type Locator struct {
	domain string
	marker string
	logger *slog.Logger
}

// New creates a Locator for the configured comparison site.
func New(cfg *config.SiteConfig, logger *slog.Logger) *Locator {
	return &Locator{
		domain: cfg.Domain,
		marker: cfg.ProductMarker,
		logger: logger.With("component", "locator"),
	}
}

// Locate returns the best candidate URL, or types.ErrNotFound when no
// link points at the target domain.
func (l *Locator) Locate(links []string) (string, error) {
	// Tier 1: links that look like product detail pages.
	for _, href := range links {
		if strings.Contains(href, l.domain) && strings.Contains(href, l.marker) {
			l.logger.Debug("candidate found", "url", href, "tier", 1)
			return href, nil
		}
	}

	// Tier 2: any link on the domain.
	for _, href := range links {
		if strings.Contains(href, l.domain) {
			l.logger.Debug("candidate found", "url", href, "tier", 2)
			return href, nil
		}
	}

	return "", types.ErrNotFound
}
