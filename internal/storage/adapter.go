package storage

import (
	"bytes"
	"context"
	"encoding/json"

	"finledger/internal/log"
)

// Adapter serializes values to JSON on top of a Store.
type Adapter struct {
	store  Store
	logger *log.Logger
}

func NewAdapter(store Store, logger *log.Logger) *Adapter {
	return &Adapter{
		store:  store,
		logger: log.OrDefault(logger, log.ComponentStorage),
	}
}

// Store returns the underlying raw store.
func (a *Adapter) Store() Store {
	return a.store
}

// GetItem decodes the value stored under key. It reports false when the key
// is missing, empty, null, unreadable or not valid JSON for T.
func GetItem[T any](ctx context.Context, a *Adapter, key string) (T, bool) {
	var out T
	raw, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.WarnContext(ctx, "Read failed, using default", log.FieldKey, key, log.FieldError, err)
		return out, false
	}
	raw = bytes.TrimSpace(raw)
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		a.logger.WarnContext(ctx, "Corrupt value, using default", log.FieldKey, key, log.FieldError, err)
		var zero T
		return zero, false
	}
	return out, true
}

// SetItem encodes value as JSON and writes it under key.
func SetItem[T any](ctx context.Context, a *Adapter, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: key, Err: err}
	}
	if err := a.store.Set(ctx, key, raw); err != nil {
		a.logger.ErrorContext(ctx, "Write failed", log.FieldKey, key, log.FieldError, err)
		return &PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.store.Delete(ctx, key); err != nil {
		return &PersistenceError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Keys lists every stored key.
func (a *Adapter) Keys(ctx context.Context) ([]string, error) {
	return a.store.Keys(ctx)
}
