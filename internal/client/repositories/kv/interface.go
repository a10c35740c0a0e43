// Package kv is the durable key-value store behind the persistence gateway.
// Each key holds one JSON document.
package kv

import "context"

type Repository interface {
	// Get returns nil, nil when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string][]byte) error
}
