// Package snapshots holds the mirror's snapshot logic: size policy on push and
// per-client lookup on pull. Documents are opaque to the mirror; clients may
// seal them before upload.
package snapshots

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mapkeeper/internal/server/config"
	"github.com/dmitrijs2005/mapkeeper/internal/server/repositories/snapshots"
)

var (
	ErrEmptySnapshot    = errors.New("snapshot is empty")
	ErrSnapshotTooLarge = errors.New("snapshot too large")
	ErrNotFound         = snapshots.ErrNotFound
)

type Service struct {
	repo     snapshots.Repository
	maxBytes int
}

func NewService(repo snapshots.Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, maxBytes: cfg.MaxSnapshotBytes}
}

// Push replaces the snapshot stored for clientID. A non-positive limit
// disables the size check.
func (s *Service) Push(ctx context.Context, clientID string, document []byte) error {
	if len(document) == 0 {
		return ErrEmptySnapshot
	}
	if s.maxBytes > 0 && len(document) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrSnapshotTooLarge, len(document), s.maxBytes)
	}

	if err := s.repo.Put(ctx, clientID, document); err != nil {
		return fmt.Errorf("error storing snapshot: %w", err)
	}
	return nil
}

func (s *Service) Pull(ctx context.Context, clientID string) ([]byte, error) {
	doc, err := s.repo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, snapshots.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading snapshot: %w", err)
	}
	return doc, nil
}
