package store

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/dmitrijs2005/mapkeeper/internal/ids"
	"github.com/golang-jwt/jwt/v5"
)

// SessionRegistry tracks live sessions in memory only.
//
// Tokens are HS256 JWTs signed with a key generated when the registry is
// created, so no token survives a restart. The map stays authoritative: a
// well-signed token that was revoked is rejected.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	key      []byte
	ttl      time.Duration
	ids      ids.Generator
}

func newSessionRegistry(g ids.Generator, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]models.Session),
		key:      common.GenerateRandByteArray(32),
		ttl:      ttl,
		ids:      g,
	}
}

// Create opens a session for userID.
func (r *SessionRegistry) Create(userID string) (models.Session, error) {
	now := r.ids.Now()

	claims := jwt.RegisteredClaims{
		ID:       r.ids.NewID(ids.PrefixSession),
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	sess := models.Session{UserID: userID, CreatedAt: now}
	if r.ttl > 0 {
		sess.ExpiresAt = now.Add(r.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(sess.ExpiresAt)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.key)
	if err != nil {
		return models.Session{}, err
	}
	sess.Token = token

	r.mu.Lock()
	r.sessions[token] = sess
	r.mu.Unlock()

	return sess, nil
}

// Validate returns the session for token. Expired sessions are dropped.
func (r *SessionRegistry) Validate(token string) (models.Session, bool) {
	r.mu.Lock()
	sess, ok := r.sessions[token]
	r.mu.Unlock()
	if !ok {
		return models.Session{}, false
	}

	now := r.ids.Now()
	if !sess.ExpiresAt.IsZero() && !now.Before(sess.ExpiresAt) {
		r.Revoke(token)
		return models.Session{}, false
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return r.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil || claims.Subject != sess.UserID {
		return models.Session{}, false
	}

	return sess, true
}

// Revoke ends one session.
func (r *SessionRegistry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}

// RevokeUser ends every session of userID and returns how many were open.
func (r *SessionRegistry) RevokeUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
			n++
		}
	}
	return n
}

func (r *SessionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
