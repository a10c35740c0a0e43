// Package snapshots stores one snapshot document per mirror client.
package snapshots

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the client never pushed a snapshot.
var ErrNotFound = errors.New("snapshot not found")

type Repository interface {
	Get(ctx context.Context, clientID string) ([]byte, error)
	Put(ctx context.Context, clientID string, document []byte) error
}
