package store

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
)

// AuditLog is the append-only event history. Entries are never edited or
// removed except by a snapshot import.
type AuditLog struct {
	st *state
}

// Append records an event with a fresh id and timestamp. The stores call it
// internally; it is exported for callers that log their own events.
func (l *AuditLog) Append(ctx context.Context, t models.AuditType, actorUserID string, payload map[string]any) models.AuditEntry {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()

	e := l.st.appendAuditLocked(t, actorUserID, payload)
	l.st.commitLocked(ctx)
	return e
}

// Query returns the matching entries, newest first. Entries with equal
// timestamps are ordered by reverse insertion.
func (l *AuditLog) Query(f models.AuditFilter) []models.AuditEntry {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()

	out := make([]models.AuditEntry, 0)
	for i := len(l.st.audit) - 1; i >= 0; i-- {
		e := l.st.audit[i]
		if f.ActorUserID != "" && e.ActorUserID != f.ActorUserID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if !f.From.IsZero() && e.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Timestamp.After(f.To) {
			continue
		}
		out = append(out, e)
	}

	slices.SortStableFunc(out, func(a, b models.AuditEntry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return cloneAudit(out)
}

// Len returns the number of recorded entries.
func (l *AuditLog) Len() int {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return len(l.st.audit)
}
