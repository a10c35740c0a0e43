package models

import "time"

// Position is a point on the map in map units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type CharacterStatus string

const (
	CharacterActive  CharacterStatus = "active"
	CharacterDeleted CharacterStatus = "deleted"
)

const (
	DefaultCharacterColor = "#ef4444"
	DefaultCharacterLevel = 1
)

// Character is a player token on the map. Deleted characters stay in the
// store with Status CharacterDeleted and are hidden from listings.
type Character struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"userId"`
	Name      string          `json:"name"`
	ClassName string          `json:"className"`
	Level     int             `json:"level"`
	Position  Position        `json:"position"`
	Color     string          `json:"color"`
	ImageRef  string          `json:"image,omitempty"`
	Status    CharacterStatus `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (c Character) IsActive() bool {
	return c.Status == CharacterActive
}

// CharacterDraft is the input for a new character. Zero Level and empty
// Color fall back to the defaults.
type CharacterDraft struct {
	Name      string
	ClassName string
	Level     int
	Position  Position
	Color     string
	ImageRef  string
}

// CharacterPatch lists the character fields to change.
type CharacterPatch struct {
	Name      Optional[string]
	ClassName Optional[string]
	Level     Optional[int]
	X         Optional[float64]
	Y         Optional[float64]
	Color     Optional[string]
	ImageRef  Optional[string]
}
