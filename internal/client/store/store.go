package store

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/dmitrijs2005/mapkeeper/internal/cryptox"
	"github.com/dmitrijs2005/mapkeeper/internal/ids"
	"github.com/dmitrijs2005/mapkeeper/internal/logging"
)

// Gateway loads and saves the persisted aggregate. Load never fails: missing
// or corrupt data yields an empty snapshot.
type Gateway interface {
	Load(ctx context.Context) models.Snapshot
	Save(ctx context.Context, snap models.Snapshot) error
}

// SecretHasher turns passwords into stored secrets and checks them.
type SecretHasher interface {
	Hash(password string) string
	Verify(secret, password string) (bool, error)
}

type argonHasher struct{}

func (argonHasher) Hash(password string) string { return cryptox.HashSecret(password) }

func (argonHasher) Verify(secret, password string) (bool, error) {
	return cryptox.VerifySecret(secret, password)
}

type nopGateway struct{}

func (nopGateway) Load(context.Context) models.Snapshot {
	return models.Snapshot{Version: common.SchemaVersion}
}

func (nopGateway) Save(context.Context, models.Snapshot) error { return nil }

// state is the aggregate shared by all stores. Slices keep creation order.
type state struct {
	mu         sync.Mutex
	users      []models.User
	characters []models.Character
	markers    []models.Marker
	audit      []models.AuditEntry
	version    int

	ids     ids.Generator
	gateway Gateway
	logger  logging.Logger
}

func (s *state) replace(snap models.Snapshot) {
	s.users = append([]models.User{}, snap.Users...)
	s.characters = append([]models.Character{}, snap.Characters...)
	s.markers = append([]models.Marker{}, snap.Markers...)
	s.audit = cloneAudit(snap.AuditLog)
	s.version = snap.Version
	if s.version == 0 {
		s.version = common.SchemaVersion
	}
}

// snapshotLocked copies the aggregate. The caller holds s.mu.
func (s *state) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		Users:      append([]models.User{}, s.users...),
		Characters: append([]models.Character{}, s.characters...),
		Markers:    append([]models.Marker{}, s.markers...),
		AuditLog:   cloneAudit(s.audit),
		Version:    s.version,
	}
	return snap
}

func cloneAudit(entries []models.AuditEntry) []models.AuditEntry {
	out := make([]models.AuditEntry, len(entries))
	for i, e := range entries {
		e.Payload = append(json.RawMessage(nil), e.Payload...)
		out[i] = e
	}
	return out
}

// commitLocked saves the aggregate. A failure is logged and swallowed. The
// caller holds s.mu, so saves reach the gateway in mutation order.
func (s *state) commitLocked(ctx context.Context) {
	if err := s.gateway.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Warn(ctx, "persistence warning: save failed", "err", err)
	}
}

// appendAuditLocked records one event. The caller holds s.mu.
func (s *state) appendAuditLocked(t models.AuditType, actorUserID string, payload map[string]any) models.AuditEntry {
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(context.Background(), "audit payload not encodable", "type", t, "err", err)
		raw = json.RawMessage("{}")
	}

	e := models.AuditEntry{
		ID:          s.ids.NewID(ids.PrefixAudit),
		Type:        t,
		ActorUserID: actorUserID,
		Payload:     raw,
		Timestamp:   s.ids.Now(),
	}
	s.audit = append(s.audit, e)
	return e
}

func (s *state) userIndexLocked(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func validPosition(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}

// Option configures a Database.
type Option func(*config)

type config struct {
	ids        ids.Generator
	hasher     SecretHasher
	logger     logging.Logger
	sessionTTL time.Duration
}

func WithIDGenerator(g ids.Generator) Option { return func(c *config) { c.ids = g } }

func WithSecretHasher(h SecretHasher) Option { return func(c *config) { c.hasher = h } }

func WithLogger(l logging.Logger) Option { return func(c *config) { c.logger = l } }

// WithSessionTTL makes sessions expire d after login. Zero keeps them valid
// until logout or process restart.
func WithSessionTTL(d time.Duration) Option { return func(c *config) { c.sessionTTL = d } }

// Database is the entry point of the data layer.
type Database struct {
	Users      *UserStore
	Sessions   *SessionRegistry
	Characters *CharacterStore
	Markers    *MarkerStore
	Audit      *AuditLog

	st *state
}

// Open builds a Database and loads its state from gw. A nil gw keeps
// everything in memory.
func Open(ctx context.Context, gw Gateway, opts ...Option) *Database {
	cfg := config{
		ids:    ids.New(),
		hasher: argonHasher{},
		logger: logging.Nop(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if gw == nil {
		gw = nopGateway{}
	}

	st := &state{
		ids:     cfg.ids,
		gateway: gw,
		logger:  cfg.logger.With("module", "store"),
	}
	sessions := newSessionRegistry(cfg.ids, cfg.sessionTTL)

	d := &Database{
		Sessions:   sessions,
		Users:      &UserStore{st: st, sessions: sessions, hasher: cfg.hasher},
		Characters: &CharacterStore{st: st},
		Markers:    &MarkerStore{st: st},
		Audit:      &AuditLog{st: st},
		st:         st,
	}
	d.Load(ctx)
	return d
}

// Load replaces the in-memory aggregate with what the gateway holds.
// Sessions are left alone.
func (d *Database) Load(ctx context.Context) {
	snap := d.st.gateway.Load(ctx)

	d.st.mu.Lock()
	defer d.st.mu.Unlock()
	d.st.replace(snap)
	d.st.logger.Debug(ctx, "state loaded",
		"users", len(d.st.users), "characters", len(d.st.characters),
		"markers", len(d.st.markers), "audit", len(d.st.audit))
}

// Save persists the aggregate and reports the gateway error, unlike the
// implicit saves after each mutation.
func (d *Database) Save(ctx context.Context) error {
	d.st.mu.Lock()
	defer d.st.mu.Unlock()
	return d.st.gateway.Save(ctx, d.st.snapshotLocked())
}

// ExportSnapshot returns a deep copy of the aggregate stamped with the
// export time.
func (d *Database) ExportSnapshot() models.Snapshot {
	d.st.mu.Lock()
	defer d.st.mu.Unlock()
	snap := d.st.snapshotLocked()
	snap.ExportedAt = d.st.ids.Now()
	return snap
}

// ImportSnapshot replaces the collections present in snap (non-nil slices)
// and always saves afterwards.
func (d *Database) ImportSnapshot(ctx context.Context, snap models.Snapshot) {
	d.st.mu.Lock()
	defer d.st.mu.Unlock()

	if snap.Users != nil {
		d.st.users = append([]models.User{}, snap.Users...)
	}
	if snap.Characters != nil {
		d.st.characters = append([]models.Character{}, snap.Characters...)
	}
	if snap.Markers != nil {
		d.st.markers = append([]models.Marker{}, snap.Markers...)
	}
	if snap.AuditLog != nil {
		d.st.audit = cloneAudit(snap.AuditLog)
	}
	if snap.Version != 0 {
		d.st.version = snap.Version
	}

	d.st.commitLocked(ctx)
}

// CurrentUser resolves a session token to its user.
func (d *Database) CurrentUser(token string) (models.PublicUser, bool) {
	sess, ok := d.Sessions.Validate(token)
	if !ok {
		return models.PublicUser{}, false
	}
	return d.Users.GetByID(sess.UserID)
}
