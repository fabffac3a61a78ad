// Package fetcher renders pages for the crawler. Two implementations
// exist: a headless-browser session (Rod) for JavaScript-heavy sites,
// and a plain HTTP session for pages that render server-side.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/types"
)

// Session is the rendering collaborator the crawler drives. It is
// acquired once at process start and released once at process end.
type Session interface {
	// Render opens the address and returns the rendered page. A wait
	// bound that expires surfaces as an error wrapping types.ErrTimeout.
	Render(ctx context.Context, url string) (*types.RenderedPage, error)

	// Close shuts the session down and releases its resources.
	Close() error

	// Type returns the session type identifier.
	Type() string
}

// New creates the configured session type.
func New(cfg *config.Config, logger *slog.Logger) (Session, error) {
	switch cfg.Fetcher.Type {
	case "browser":
		return NewBrowserSession(cfg, logger)
	case "http":
		return NewHTTPSession(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported fetcher type: %s", cfg.Fetcher.Type)
	}
}
