package store

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/dmitrijs2005/mapkeeper/internal/ids"
)

const (
	msgMarkerLoginRequired       = "You must be logged in to create markers"
	msgMarkerNotFound            = "Marker not found"
	msgNotAuthorizedUpdateMarker = "Not authorized to update this marker"
	msgNotAuthorizedDeleteMarker = "Not authorized to delete this marker"
)

// MarkerStore manages map markers. Only the creator may edit or delete a
// marker, admins included. Deletion removes the record.
type MarkerStore struct {
	st *state
}

func (s *MarkerStore) indexLocked(id string) int {
	for i := range s.st.markers {
		if s.st.markers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MarkerStore) Create(ctx context.Context, ownerID string, d models.MarkerDraft) (models.Marker, error) {
	if ownerID == "" {
		return models.Marker{}, common.NewAuthenticationError(msgMarkerLoginRequired)
	}
	if !validPosition(d.Position.X, d.Position.Y) {
		return models.Marker{}, common.NewValidationError("position", msgInvalidPosition)
	}

	m := models.Marker{
		OwnerID:     ownerID,
		Name:        d.Name,
		Description: d.Description,
		Type:        d.Type,
		Color:       d.Color,
		Position:    d.Position,
	}
	if m.Name == "" {
		m.Name = models.DefaultMarkerName
	}
	if m.Type == "" {
		m.Type = models.DefaultMarkerType
	}
	if m.Color == "" {
		m.Color = models.DefaultMarkerColor
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	now := s.st.ids.Now()
	m.ID = s.st.ids.NewID(ids.PrefixMarker)
	m.CreatedAt, m.UpdatedAt = now, now

	s.st.markers = append(s.st.markers, m)
	s.st.commitLocked(ctx)

	return m, nil
}

func (s *MarkerStore) GetByID(id string) (models.Marker, bool) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.st.markers[i], true
	}
	return models.Marker{}, false
}

// ListAll returns every marker in creation order.
func (s *MarkerStore) ListAll() []models.Marker {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return append([]models.Marker{}, s.st.markers...)
}

// ListByType returns the markers whose type is one of types.
func (s *MarkerStore) ListByType(types ...string) []models.Marker {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	out := make([]models.Marker, 0)
	for _, m := range s.st.markers {
		if slices.Contains(types, m.Type) {
			out = append(out, m)
		}
	}
	return out
}

func (s *MarkerStore) Update(ctx context.Context, id, actingUserID string, p models.MarkerPatch) (models.Marker, error) {
	x, setX := p.X.Get()
	y, setY := p.Y.Get()
	if !validPosition(x, y) {
		return models.Marker{}, common.NewValidationError("position", msgInvalidPosition)
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Marker{}, common.NewNotFoundError(msgMarkerNotFound)
	}
	m := &s.st.markers[i]
	if actingUserID == "" || m.OwnerID != actingUserID {
		return models.Marker{}, common.NewAuthorizationError(msgNotAuthorizedUpdateMarker)
	}

	if v, ok := p.Name.Get(); ok {
		m.Name = v
	}
	if v, ok := p.Description.Get(); ok {
		m.Description = v
	}
	if v, ok := p.Type.Get(); ok {
		m.Type = v
	}
	if v, ok := p.Color.Get(); ok {
		m.Color = v
	}
	if setX {
		m.Position.X = x
	}
	if setY {
		m.Position.Y = y
	}
	m.UpdatedAt = s.st.ids.Now()

	s.st.commitLocked(ctx)
	return *m, nil
}

func (s *MarkerStore) Delete(ctx context.Context, id, actingUserID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return common.NewNotFoundError(msgMarkerNotFound)
	}
	if actingUserID == "" || s.st.markers[i].OwnerID != actingUserID {
		return common.NewAuthorizationError(msgNotAuthorizedDeleteMarker)
	}

	s.st.markers = slices.Delete(s.st.markers, i, i+1)
	s.st.commitLocked(ctx)
	return nil
}
