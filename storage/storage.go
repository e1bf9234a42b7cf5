// Package storage abstracts the object store the queue worker pulls raw
// audio buffers from.
package storage

import "context"

// Storage reads and writes opaque byte objects by key
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}
