// Package storage is the key-value persistence layer of the ledger.
//
// A Store holds raw bytes per key. The Adapter on top of it speaks JSON and
// fails soft on reads: a missing, empty or corrupt value reads as "absent"
// and is logged, never returned as an error. Writes do return errors.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Store is a flat key-value store. Implementations must be safe for
// concurrent reads.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// ErrPersistence matches every *PersistenceError via errors.Is.
var ErrPersistence = errors.New("persistence failure")

// PersistenceError reports a failed store write or encode.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
