package models

import "time"

// Snapshot is the full persisted state. On import a nil slice means the
// field was absent and is left untouched; an empty slice clears it.
type Snapshot struct {
	Users      []User       `json:"users"`
	Characters []Character  `json:"characters"`
	AuditLog   []AuditEntry `json:"auditLog"`
	Markers    []Marker     `json:"markers"`
	Version    int          `json:"version"`
	ExportedAt time.Time    `json:"exportedAt,omitzero"`
}
