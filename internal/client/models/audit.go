package models

import (
	"encoding/json"
	"time"
)

// AuditType names a recorded event.
type AuditType string

const (
	AuditUserRegistered   AuditType = "USER_REGISTERED"
	AuditUserLogin        AuditType = "USER_LOGIN"
	AuditUserLogout       AuditType = "USER_LOGOUT"
	AuditProfileUpdated   AuditType = "PROFILE_UPDATED"
	AuditCharacterCreated AuditType = "CHARACTER_CREATED"
	AuditCharacterUpdated AuditType = "CHARACTER_UPDATED"
	AuditCharacterMoved   AuditType = "CHARACTER_MOVED"
	AuditCharacterDeleted AuditType = "CHARACTER_DELETED"
	AuditUserPromoted     AuditType = "USER_PROMOTED"
	AuditUserDemoted      AuditType = "USER_DEMOTED"
)

// AuditEntry is an immutable record of a mutation. Payload is a JSON object
// whose shape depends on Type.
type AuditEntry struct {
	ID          string          `json:"id"`
	Type        AuditType       `json:"type"`
	ActorUserID string          `json:"userId"`
	Payload     json.RawMessage `json:"payload"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Decode unmarshals the payload into v.
func (e AuditEntry) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// AuditFilter narrows an audit query. Empty fields and zero times match
// everything; From and To are inclusive.
type AuditFilter struct {
	ActorUserID string
	Type        AuditType
	From        time.Time
	To          time.Time
}

// FieldChange is one entry of a CHARACTER_UPDATED diff.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}
