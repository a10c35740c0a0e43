package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/client/client"
	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/dmitrijs2005/mapkeeper/internal/cryptox"
	"github.com/dmitrijs2005/mapkeeper/internal/logging"
)

// Mirror is the remote side of the gateway. client.Client satisfies it.
type Mirror interface {
	PushSnapshot(ctx context.Context, doc []byte) error
	PullSnapshot(ctx context.Context) ([]byte, error)
}

const defaultMirrorTimeout = 5 * time.Second

type Option func(*Gateway)

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithMirror enables mirroring. Each push and the startup pull are bounded by
// timeout; a non-positive timeout uses the default.
func WithMirror(m Mirror, timeout time.Duration) Option {
	return func(g *Gateway) {
		g.mirror = m
		if timeout > 0 {
			g.mirrorTimeout = timeout
		}
	}
}

// WithSealKey encrypts mirrored documents with AES-GCM.
func WithSealKey(key []byte) Option {
	return func(g *Gateway) { g.sealKey = key }
}

type Gateway struct {
	repo          kv.Repository
	logger        logging.Logger
	mirror        Mirror
	mirrorTimeout time.Duration
	sealKey       []byte

	mu      sync.Mutex
	closed  bool
	pending chan []byte
	done    chan struct{}
}

func New(repo kv.Repository, opts ...Option) *Gateway {
	g := &Gateway{
		repo:          repo,
		logger:        logging.Nop(),
		mirrorTimeout: defaultMirrorTimeout,
	}
	for _, o := range opts {
		o(g)
	}
	g.logger = g.logger.With("module", "persistence")

	if g.mirror != nil {
		g.pending = make(chan []byte, 1)
		g.done = make(chan struct{})
		go g.pushLoop()
	}
	return g
}

// Save writes both documents in one transaction and then queues the mirror
// push.
func (g *Gateway) Save(ctx context.Context, snap models.Snapshot) error {
	docs, err := encodeDocuments(snap)
	if err != nil {
		return err
	}
	if err := g.repo.SetMany(ctx, docs); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if g.mirror != nil {
		g.enqueueMirror(ctx, snap)
	}
	return nil
}

// Load reads both documents. When neither exists locally it tries the
// mirror once. It never fails.
func (g *Gateway) Load(ctx context.Context) models.Snapshot {
	snap := models.Snapshot{Version: common.SchemaVersion}

	userRaw, userErr := g.repo.Get(ctx, UserDatabaseKey)
	if userErr != nil {
		g.logger.Warn(ctx, "persistence warning: load failed", "key", UserDatabaseKey, "err", userErr)
	}
	mapRaw, mapErr := g.repo.Get(ctx, MapDatabaseKey)
	if mapErr != nil {
		g.logger.Warn(ctx, "persistence warning: load failed", "key", MapDatabaseKey, "err", mapErr)
	}

	if userRaw == nil && mapRaw == nil && userErr == nil && mapErr == nil {
		if pulled, ok := g.pullMirror(ctx); ok {
			return pulled
		}
		return snap
	}

	if userRaw != nil {
		var doc userDocument
		err := json.Unmarshal(userRaw, &doc)
		if err == nil {
			err = checkVersion(doc.Version)
		}
		if err != nil {
			g.logger.Warn(ctx, "persistence warning: corrupt document", "key", UserDatabaseKey, "err", err)
		} else {
			snap.Users, snap.Characters, snap.AuditLog = doc.Users, doc.Characters, doc.AuditLog
			if doc.Version != 0 {
				snap.Version = doc.Version
			}
		}
	}

	if mapRaw != nil {
		var doc mapDocument
		err := json.Unmarshal(mapRaw, &doc)
		if err == nil {
			err = checkVersion(doc.Version)
		}
		if err != nil {
			g.logger.Warn(ctx, "persistence warning: corrupt document", "key", MapDatabaseKey, "err", err)
		} else {
			snap.Markers = doc.Markers
		}
	}

	return snap
}

// Close stops accepting mirror pushes and waits for the queued one to finish.
func (g *Gateway) Close() error {
	g.mu.Lock()
	if g.closed || g.mirror == nil {
		g.closed = true
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	close(g.pending)
	g.mu.Unlock()

	<-g.done
	return nil
}

func (g *Gateway) enqueueMirror(ctx context.Context, snap models.Snapshot) {
	doc, err := g.mirrorDocument(snap)
	if err != nil {
		g.logger.Warn(ctx, "mirror push skipped", "err", err)
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	// Drop the unsent snapshot, if any; the newer one supersedes it.
	select {
	case <-g.pending:
	default:
	}
	g.pending <- doc
}

func (g *Gateway) pushLoop() {
	defer close(g.done)
	for doc := range g.pending {
		ctx, cancel := context.WithTimeout(context.Background(), g.mirrorTimeout)
		if err := g.mirror.PushSnapshot(ctx, doc); err != nil {
			g.logger.Warn(ctx, "mirror push failed", "err", err)
		} else {
			g.logger.Debug(ctx, "mirror push done", "bytes", len(doc))
		}
		cancel()
	}
}

func (g *Gateway) mirrorDocument(snap models.Snapshot) ([]byte, error) {
	doc, err := EncodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	if g.sealKey == nil {
		return doc, nil
	}
	return cryptox.Seal(doc, g.sealKey)
}

func (g *Gateway) pullMirror(ctx context.Context) (models.Snapshot, bool) {
	if g.mirror == nil {
		return models.Snapshot{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, g.mirrorTimeout)
	defer cancel()

	doc, err := g.mirror.PullSnapshot(ctx)
	if errors.Is(err, client.ErrNoSnapshot) {
		g.logger.Info(ctx, "mirror holds no snapshot")
		return models.Snapshot{}, false
	}
	if err != nil {
		g.logger.Warn(ctx, "mirror pull failed", "err", err)
		return models.Snapshot{}, false
	}

	if g.sealKey != nil {
		if doc, err = cryptox.Open(doc, g.sealKey); err != nil {
			g.logger.Warn(ctx, "mirror snapshot could not be opened", "err", err)
			return models.Snapshot{}, false
		}
	}

	snap, err := DecodeSnapshot(doc)
	if err != nil {
		g.logger.Warn(ctx, "mirror snapshot is corrupt", "err", err)
		return models.Snapshot{}, false
	}
	if snap.Version == 0 {
		snap.Version = common.SchemaVersion
	}

	g.logger.Info(ctx, "state restored from mirror",
		"users", len(snap.Users), "characters", len(snap.Characters), "markers", len(snap.Markers))
	return snap, true
}
