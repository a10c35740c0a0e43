package models

import "time"

const (
	DefaultMarkerName  = "Untitled"
	DefaultMarkerType  = "city"
	DefaultMarkerColor = "#60a5fa"
)

// Marker is a point of interest on the map. Type is free-form.
type Marker struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"createdBy"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Color       string    `json:"color"`
	Position    Position  `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MarkerDraft is the input for a new marker; empty strings get defaults.
type MarkerDraft struct {
	Name        string
	Description string
	Type        string
	Color       string
	Position    Position
}

type MarkerPatch struct {
	Name        Optional[string]
	Description Optional[string]
	Type        Optional[string]
	Color       Optional[string]
	X           Optional[float64]
	Y           Optional[float64]
}
