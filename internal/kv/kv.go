// Package kv defines the key-value store contract the todo service runs on
// and the backends that implement it.
package kv

import (
	"context"
	"errors"
)

var (
	ErrNoSuchKey = errors.New("no such key")
)

// Store is a flat key-value namespace. Values are opaque strings and List
// returns key names only; callers fetch values individually.
type Store interface {
	// Get returns ErrNoSuchKey when key is absent.
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	// Delete is idempotent: removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}
