package backend

import (
	"context"
	"fmt"

	"finledger/internal/log"
	"finledger/internal/storage"
	"finledger/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{
		logger: log.OrDefault(logger, log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	opts := []storage.SQLiteOption{storage.WithLogger(f.logger)}
	if config.CacheSize > 0 {
		opts = append(opts, storage.WithReadCache(config.CacheSize, config.CacheTTL))
	}

	store, err := storage.NewSQLiteStore(config.SQLiteDBPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"cache_size", config.CacheSize)

	return &Result{
		Store:   store,
		Cache:   store.Cache(),
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	store := memory.New()
	if config.DataDirectory != "" {
		store = memory.NewFromDir(config.DataDirectory)
	}

	f.logger.Info("Initialized memory backend", "data_directory", config.DataDirectory)

	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}
