package store

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/dmitrijs2005/mapkeeper/internal/ids"
)

const (
	msgNotLoggedIn         = "You must be logged in"
	msgCharacterRequired   = "Character name and class are required"
	msgCharacterNotFound   = "Character not found"
	msgInvalidPosition     = "Position must be a finite number"
	msgNotAuthorizedUpdate = "Not authorized to update this character"
	msgNotAuthorizedMove   = "Not authorized to move this character"
	msgNotAuthorizedDelete = "Not authorized to delete this character"
)

// ClampLevel raises levels below 1 to 1.
func ClampLevel(n int) int {
	return max(1, n)
}

// ParseLevel reads a level typed by a user. Leading integers are accepted
// ("3.7" is 3); anything unreadable is level 1.
func ParseLevel(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return ClampLevel(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return ClampLevel(int(f))
	}
	return 1
}

// CharacterStore manages player characters. Deletion is soft: the record is
// kept with status "deleted" and disappears from every read.
type CharacterStore struct {
	st *state
}

func (s *CharacterStore) indexLocked(id string) int {
	for i := range s.st.characters {
		if s.st.characters[i].ID == id && s.st.characters[i].IsActive() {
			return i
		}
	}
	return -1
}

// Create adds a character owned by ownerID and records CHARACTER_CREATED.
func (s *CharacterStore) Create(ctx context.Context, ownerID string, d models.CharacterDraft) (models.Character, error) {
	if ownerID == "" {
		return models.Character{}, common.NewAuthenticationError(msgNotLoggedIn)
	}

	name := strings.TrimSpace(d.Name)
	className := strings.TrimSpace(d.ClassName)
	if name == "" || className == "" {
		return models.Character{}, common.NewValidationError("name", msgCharacterRequired)
	}
	if !validPosition(d.Position.X, d.Position.Y) {
		return models.Character{}, common.NewValidationError("position", msgInvalidPosition)
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if s.st.userIndexLocked(ownerID) < 0 {
		return models.Character{}, common.NewNotFoundError(msgUserNotFound)
	}

	color := d.Color
	if color == "" {
		color = models.DefaultCharacterColor
	}

	now := s.st.ids.Now()
	c := models.Character{
		ID:        s.st.ids.NewID(ids.PrefixCharacter),
		OwnerID:   ownerID,
		Name:      name,
		ClassName: className,
		Level:     ClampLevel(d.Level),
		Position:  d.Position,
		Color:     color,
		ImageRef:  d.ImageRef,
		Status:    models.CharacterActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.st.characters = append(s.st.characters, c)

	s.st.appendAuditLocked(models.AuditCharacterCreated, ownerID, map[string]any{
		"characterId": c.ID,
		"name":        c.Name,
		"className":   c.ClassName,
	})
	s.st.commitLocked(ctx)

	return c, nil
}

// GetByID returns an active character.
func (s *CharacterStore) GetByID(id string) (models.Character, bool) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.st.characters[i], true
	}
	return models.Character{}, false
}

// ListByOwner returns the active characters of ownerID in creation order.
func (s *CharacterStore) ListByOwner(ownerID string) []models.Character {
	return s.list(func(c models.Character) bool { return c.OwnerID == ownerID })
}

// ListAll returns every active character in creation order.
func (s *CharacterStore) ListAll() []models.Character {
	return s.list(func(models.Character) bool { return true })
}

func (s *CharacterStore) list(keep func(models.Character) bool) []models.Character {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	out := make([]models.Character, 0)
	for _, c := range s.st.characters {
		if c.IsActive() && keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// authorizeLocked finds an active character that actingUserID may change:
// its owner or any admin.
func (s *CharacterStore) authorizeLocked(id, actingUserID, denied string) (int, error) {
	i := s.indexLocked(id)
	if i < 0 {
		return -1, common.NewNotFoundError(msgCharacterNotFound)
	}

	if actingUserID == "" {
		return -1, common.NewAuthenticationError(msgNotLoggedIn)
	}
	a := s.st.userIndexLocked(actingUserID)
	if a < 0 {
		return -1, common.NewAuthenticationError(msgUserNotFound)
	}

	if s.st.characters[i].OwnerID != actingUserID && !s.st.users[a].IsAdmin() {
		return -1, common.NewAuthorizationError(denied)
	}
	return i, nil
}

// Update applies the supplied fields and records CHARACTER_UPDATED with a
// from/to diff of each of them.
func (s *CharacterStore) Update(ctx context.Context, id, actingUserID string, p models.CharacterPatch) (models.Character, error) {
	name, setName := p.Name.Get()
	className, setClass := p.ClassName.Get()
	name, className = strings.TrimSpace(name), strings.TrimSpace(className)
	if (setName && name == "") || (setClass && className == "") {
		return models.Character{}, common.NewValidationError("name", msgCharacterRequired)
	}
	x, setX := p.X.Get()
	y, setY := p.Y.Get()
	if !validPosition(x, y) {
		return models.Character{}, common.NewValidationError("position", msgInvalidPosition)
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	i, err := s.authorizeLocked(id, actingUserID, msgNotAuthorizedUpdate)
	if err != nil {
		return models.Character{}, err
	}
	c := &s.st.characters[i]

	changes := map[string]models.FieldChange{}
	if setName {
		changes["name"] = models.FieldChange{From: c.Name, To: name}
		c.Name = name
	}
	if setClass {
		changes["className"] = models.FieldChange{From: c.ClassName, To: className}
		c.ClassName = className
	}
	if v, ok := p.Level.Get(); ok {
		v = ClampLevel(v)
		changes["level"] = models.FieldChange{From: c.Level, To: v}
		c.Level = v
	}
	if setX {
		changes["x"] = models.FieldChange{From: c.Position.X, To: x}
		c.Position.X = x
	}
	if setY {
		changes["y"] = models.FieldChange{From: c.Position.Y, To: y}
		c.Position.Y = y
	}
	if v, ok := p.Color.Get(); ok {
		changes["color"] = models.FieldChange{From: c.Color, To: v}
		c.Color = v
	}
	if v, ok := p.ImageRef.Get(); ok {
		changes["image"] = models.FieldChange{From: c.ImageRef, To: v}
		c.ImageRef = v
	}
	c.UpdatedAt = s.st.ids.Now()

	s.st.appendAuditLocked(models.AuditCharacterUpdated, actingUserID, map[string]any{
		"characterId": c.ID,
		"changes":     changes,
	})
	s.st.commitLocked(ctx)

	return *c, nil
}

// Move sets the character position and records CHARACTER_MOVED with the old
// and new coordinates.
func (s *CharacterStore) Move(ctx context.Context, id string, x, y float64, actingUserID string) (models.Character, error) {
	if !validPosition(x, y) {
		return models.Character{}, common.NewValidationError("position", msgInvalidPosition)
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	i, err := s.authorizeLocked(id, actingUserID, msgNotAuthorizedMove)
	if err != nil {
		return models.Character{}, err
	}
	c := &s.st.characters[i]

	from := c.Position
	c.Position = models.Position{X: x, Y: y}
	c.UpdatedAt = s.st.ids.Now()

	s.st.appendAuditLocked(models.AuditCharacterMoved, actingUserID, map[string]any{
		"characterId": c.ID,
		"from":        from,
		"to":          c.Position,
	})
	s.st.commitLocked(ctx)

	return *c, nil
}

// Delete marks the character deleted and records CHARACTER_DELETED.
func (s *CharacterStore) Delete(ctx context.Context, id, actingUserID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	i, err := s.authorizeLocked(id, actingUserID, msgNotAuthorizedDelete)
	if err != nil {
		return err
	}
	c := &s.st.characters[i]

	c.Status = models.CharacterDeleted
	c.UpdatedAt = s.st.ids.Now()

	s.st.appendAuditLocked(models.AuditCharacterDeleted, actingUserID, map[string]any{
		"characterId":   c.ID,
		"characterName": c.Name,
	})
	s.st.commitLocked(ctx)

	return nil
}
