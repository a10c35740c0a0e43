package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
)

const (
	UserDatabaseKey = "dnd-map-user-database"
	MapDatabaseKey  = "dnd-map-database"
)

type userDocument struct {
	Users      []models.User       `json:"users"`
	Characters []models.Character  `json:"characters"`
	AuditLog   []models.AuditEntry `json:"auditLog"`
	Version    int                 `json:"version"`
}

type mapDocument struct {
	Markers []models.Marker `json:"markers"`
	Version int             `json:"version"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func checkVersion(v int) error {
	if v > common.SchemaVersion {
		return fmt.Errorf("unsupported version %d", v)
	}
	return nil
}

func encodeDocuments(snap models.Snapshot) (map[string][]byte, error) {
	users, err := json.Marshal(userDocument{
		Users:      nonNil(snap.Users),
		Characters: nonNil(snap.Characters),
		AuditLog:   nonNil(snap.AuditLog),
		Version:    snap.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", UserDatabaseKey, err)
	}

	markers, err := json.Marshal(mapDocument{Markers: nonNil(snap.Markers), Version: snap.Version})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", MapDatabaseKey, err)
	}

	return map[string][]byte{UserDatabaseKey: users, MapDatabaseKey: markers}, nil
}

// EncodeSnapshot renders snap as the indented export document.
func EncodeSnapshot(snap models.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses an export document. Collections missing from data
// stay nil so that an import leaves them untouched.
func DecodeSnapshot(data []byte) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := checkVersion(snap.Version); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	// Indented export re-indents payloads; stored payloads are compact.
	for i, e := range snap.AuditLog {
		if len(e.Payload) == 0 {
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, e.Payload); err != nil {
			return models.Snapshot{}, fmt.Errorf("decode snapshot: audit entry %s: %w", e.ID, err)
		}
		snap.AuditLog[i].Payload = json.RawMessage(buf.Bytes())
	}
	return snap, nil
}
