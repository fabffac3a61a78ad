// Package pipeline post-processes extracted records before storage.
package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rcostache/pricescout/internal/types"
)

// Middleware processes a record and returns the (possibly modified)
// record. Return nil to drop the record from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a record. Return nil to drop it.
	Process(record *types.ProductRecord) (*types.ProductRecord, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the record through all middleware in order.
func (p *Pipeline) Process(record *types.ProductRecord) (*types.ProductRecord, error) {
	current := record

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{Stage: mw.Name(), Err: err}
		}
		if result == nil {
			p.logger.Debug("record dropped", "stage", mw.Name(), "url", record.URL)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// --- Built-in Middleware ---

// TrimMiddleware trims whitespace from the record's string fields.
type TrimMiddleware struct{}

func (TrimMiddleware) Name() string { return "trim" }

func (TrimMiddleware) Process(record *types.ProductRecord) (*types.ProductRecord, error) {
	record.Name = strings.TrimSpace(record.Name)
	record.Query = strings.TrimSpace(record.Query)
	record.URL = strings.TrimSpace(record.URL)
	return record, nil
}

// ValidateMiddleware drops records that violate the record invariants.
type ValidateMiddleware struct{}

func (ValidateMiddleware) Name() string { return "validate" }

func (ValidateMiddleware) Process(record *types.ProductRecord) (*types.ProductRecord, error) {
	switch {
	case record.Query == "":
		return nil, fmt.Errorf("empty query")
	case record.URL == "":
		return nil, fmt.Errorf("empty url")
	case record.MinPrice < 0:
		return nil, fmt.Errorf("negative min_price %v", record.MinPrice)
	case record.MinPrice > record.MaxPrice:
		return nil, fmt.Errorf("min_price %v exceeds max_price %v", record.MinPrice, record.MaxPrice)
	case record.Offers < 0:
		return nil, fmt.Errorf("negative offers %d", record.Offers)
	}
	return record, nil
}

// CurrencyMiddleware fills in the default currency when a record has
// none.
type CurrencyMiddleware struct {
	Default string
}

func (CurrencyMiddleware) Name() string { return "currency" }

func (m CurrencyMiddleware) Process(record *types.ProductRecord) (*types.ProductRecord, error) {
	if record.Currency == "" {
		record.Currency = m.Default
	}
	return record, nil
}
