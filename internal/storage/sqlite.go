package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finledger/internal/cache"
	"finledger/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps every key in a single kv table. Reads are served from
// an optional LRU cache that is invalidated on every write.
type SQLiteStore struct {
	db     *sql.DB
	cache  *cache.LRUCache[[]byte]
	logger *log.Logger
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithReadCache enables the read cache. A size of zero disables it.
func WithReadCache(size int, ttl time.Duration) SQLiteOption {
	return func(s *SQLiteStore) {
		if size > 0 {
			s.cache = cache.NewLRUCache[[]byte](size, ttl)
		}
	}
}

func WithLogger(logger *log.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		s.logger = log.OrDefault(logger, log.ComponentStorage)
	}
}

func NewSQLiteStore(dbPath string, opts ...SQLiteOption) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer connection avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: log.OrDefault(nil, log.ComponentStorage),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Cache exposes the read cache so it can be registered for sweeping.
// It returns nil when caching is disabled.
func (s *SQLiteStore) Cache() cache.Cleaner {
	if s.cache == nil {
		return nil
	}
	return s.cache
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return clone(v), true, nil
		}
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %q: %w", key, err)
	}

	raw := []byte(value)
	if s.cache != nil {
		s.cache.Set(key, clone(raw))
	}
	return raw, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if s.cache != nil {
		s.cache.Delete(key)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert %q: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Value written", log.FieldKey, key, "bytes", len(value))
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if s.cache != nil {
		s.cache.Delete(key)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

var _ Store = (*SQLiteStore)(nil)
