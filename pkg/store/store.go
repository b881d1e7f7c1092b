// Package store provides the named-key persistence layer. Each key holds
// one JSON-serializable value; there is a single writer per process.
package store

import "context"

// Store is a key-value store over JSON-serialized values. Get decodes the
// stored value into v and reports whether the key existed; a missing key
// is not an error.
type Store interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
	Close() error
}
