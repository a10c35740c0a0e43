package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mapkeeper/internal/client/config"
)

// Client mirrors the exported snapshot document to a remote location.
type Client interface {
	Ping(ctx context.Context) error
	PushSnapshot(ctx context.Context, doc []byte) error
	// PullSnapshot returns ErrNoSnapshot when nothing was pushed yet.
	PullSnapshot(ctx context.Context) ([]byte, error)
	Close() error
}

// NewFromConfig builds the mirror selected by cfg.MirrorKind. It returns a nil
// Client for MirrorNone.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.MirrorKind {
	case "", config.MirrorNone:
		return nil, nil
	case config.MirrorGRPC:
		return NewGRPCClient(cfg.MirrorAddr, cfg.MirrorToken)
	case config.MirrorS3:
		return NewS3Client(ctx, S3Options{
			Bucket:       cfg.S3Bucket,
			Key:          cfg.S3ObjectKey,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
	case config.MirrorRedis:
		return NewRedisClient(cfg.MirrorAddr, cfg.RedisKey), nil
	default:
		return nil, fmt.Errorf("unknown mirror kind %q", cfg.MirrorKind)
	}
}
