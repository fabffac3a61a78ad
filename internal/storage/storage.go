// Package storage persists the batch's product records.
package storage

import (
	"fmt"
	"log/slog"

	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/types"
)

// Storage is the interface for all storage backends.
type Storage interface {
	// Store buffers a batch of records for persistence.
	Store(records []*types.ProductRecord) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New creates the configured storage backend.
func New(cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case "json":
		return NewJSONStorage(cfg.OutputPath, logger)
	case "csv":
		return NewCSVStorage(cfg.OutputPath, logger)
	case "mongo":
		return NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
