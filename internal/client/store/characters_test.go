package store

import (
	"context"
	"math"
	"testing"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCharacter_Defaults(t *testing.T) {
	db, _ := newTestDB(t)
	alice := register(t, db, "a@b.co", "alice")

	c, err := db.Characters.Create(context.Background(), alice.ID, models.CharacterDraft{
		Name: "  Thorn ", ClassName: " Ranger",
	})
	require.NoError(t, err)

	assert.Equal(t, "Thorn", c.Name)
	assert.Equal(t, "Ranger", c.ClassName)
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, models.Position{}, c.Position)
	assert.Equal(t, models.DefaultCharacterColor, c.Color)
	assert.Equal(t, models.CharacterActive, c.Status)
	assert.Equal(t, alice.ID, c.OwnerID)

	entries := db.Audit.Query(models.AuditFilter{Type: models.AuditCharacterCreated})
	require.Len(t, entries, 1)
	assert.Equal(t, alice.ID, entries[0].ActorUserID)
}

func TestCreateCharacter_Failures(t *testing.T) {
	db, _ := newTestDB(t)
	alice := register(t, db, "a@b.co", "alice")
	ctx := context.Background()

	_, err := db.Characters.Create(ctx, "", models.CharacterDraft{Name: "A", ClassName: "B"})
	requireKind(t, err, common.ErrAuthentication, msgNotLoggedIn)

	_, err = db.Characters.Create(ctx, "user-missing", models.CharacterDraft{Name: "A", ClassName: "B"})
	requireKind(t, err, common.ErrNotFound, msgUserNotFound)

	_, err = db.Characters.Create(ctx, alice.ID, models.CharacterDraft{Name: "   ", ClassName: "Bard"})
	requireKind(t, err, common.ErrValidation, msgCharacterRequired)

	_, err = db.Characters.Create(ctx, alice.ID, models.CharacterDraft{Name: "A", ClassName: "B", Position: models.Position{X: math.NaN()}})
	requireKind(t, err, common.ErrValidation, msgInvalidPosition)

	assert.Empty(t, db.Characters.ListAll())
}

func TestMoveCharacter_AuditsNewestFirst(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	alice := register(t, db, "a@b.co", "alice")
	c, err := db.Characters.Create(ctx, alice.ID, models.CharacterDraft{Name: "Thorn", ClassName: "Ranger", Level: 3})
	require.NoError(t, err)

	for _, p := range []models.Position{{X: 10, Y: 20}, {X: 15, Y: 25}, {X: 30, Y: 40}} {
		_, err := db.Characters.Move(ctx, c.ID, p.X, p.Y, alice.ID)
		require.NoError(t, err)
	}

	got, ok := db.Characters.GetByID(c.ID)
	require.True(t, ok)
	assert.Equal(t, models.Position{X: 30, Y: 40}, got.Position)

	moves := db.Audit.Query(models.AuditFilter{ActorUserID: alice.ID, Type: models.AuditCharacterMoved})
	require.Len(t, moves, 3)

	var newest struct {
		CharacterID string          `json:"characterId"`
		From        models.Position `json:"from"`
		To          models.Position `json:"to"`
	}
	require.NoError(t, moves[0].Decode(&newest))
	assert.Equal(t, c.ID, newest.CharacterID)
	assert.Equal(t, models.Position{X: 15, Y: 25}, newest.From)
	assert.Equal(t, models.Position{X: 30, Y: 40}, newest.To)

	var oldest struct {
		From models.Position `json:"from"`
	}
	require.NoError(t, moves[2].Decode(&oldest))
	assert.Equal(t, models.Position{}, oldest.From)
}

func TestCharacterAuthorization(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	gm := register(t, db, "gm@b.co", "gamemaster")
	makeAdmin(t, db, gm.ID)
	alice := register(t, db, "a@b.co", "alice")
	bob := register(t, db, "bob@b.co", "bob")

	c, err := db.Characters.Create(ctx, alice.ID, models.CharacterDraft{Name: "Thorn", ClassName: "Ranger"})
	require.NoError(t, err)
	before := db.Audit.Len()

	_, err = db.Characters.Move(ctx, c.ID, 1, 1, bob.ID)
	requireKind(t, err, common.ErrAuthorization, msgNotAuthorizedMove)

	_, err = db.Characters.Update(ctx, c.ID, bob.ID, models.CharacterPatch{Level: models.Some(9)})
	requireKind(t, err, common.ErrAuthorization, msgNotAuthorizedUpdate)

	err = db.Characters.Delete(ctx, c.ID, bob.ID)
	requireKind(t, err, common.ErrAuthorization, msgNotAuthorizedDelete)

	err = db.Characters.Delete(ctx, c.ID, "")
	requireKind(t, err, common.ErrAuthentication, msgNotLoggedIn)

	err = db.Characters.Delete(ctx, c.ID, "user-ghost")
	requireKind(t, err, common.ErrAuthentication, msgUserNotFound)

	assert.Equal(t, before, db.Audit.Len(), "denied calls record nothing")

	_, err = db.Characters.Move(ctx, c.ID, 5, 5, gm.ID)
	require.NoError(t, err, "admins may move any character")

	require.NoError(t, db.Characters.Delete(ctx, c.ID, gm.ID))

	assert.Empty(t, db.Characters.ListByOwner(alice.ID))
	assert.Empty(t, db.Characters.ListAll())
	_, ok := db.Characters.GetByID(c.ID)
	assert.False(t, ok)

	_, err = db.Characters.Move(ctx, c.ID, 1, 1, alice.ID)
	requireKind(t, err, common.ErrNotFound, msgCharacterNotFound)

	err = db.Characters.Delete(ctx, c.ID, alice.ID)
	requireKind(t, err, common.ErrNotFound, msgCharacterNotFound)

	snap := db.ExportSnapshot()
	require.Len(t, snap.Characters, 1, "soft-deleted record is kept")
	assert.Equal(t, models.CharacterDeleted, snap.Characters[0].Status)

	deleted := db.Audit.Query(models.AuditFilter{Type: models.AuditCharacterDeleted})
	require.Len(t, deleted, 1)
	assert.Equal(t, gm.ID, deleted[0].ActorUserID)
}

func TestUpdateCharacter_DiffAndClamp(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	alice := register(t, db, "a@b.co", "alice")
	c, err := db.Characters.Create(ctx, alice.ID, models.CharacterDraft{Name: "Thorn", ClassName: "Ranger", Level: 2})
	require.NoError(t, err)

	got, err := db.Characters.Update(ctx, c.ID, alice.ID, models.CharacterPatch{
		Name:  models.Some(" Thorn the Bold "),
		Level: models.Some(-4),
		Color: models.Some("#22c55e"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Thorn the Bold", got.Name)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, "#22c55e", got.Color)
	assert.Equal(t, "Ranger", got.ClassName)
	assert.True(t, got.UpdatedAt.After(c.UpdatedAt))

	entries := db.Audit.Query(models.AuditFilter{Type: models.AuditCharacterUpdated})
	require.Len(t, entries, 1)
	var payload struct {
		Changes map[string]struct {
			From any `json:"from"`
			To   any `json:"to"`
		} `json:"changes"`
	}
	require.NoError(t, entries[0].Decode(&payload))
	require.Len(t, payload.Changes, 3)
	assert.Equal(t, float64(2), payload.Changes["level"].From)
	assert.Equal(t, float64(1), payload.Changes["level"].To)
	assert.Equal(t, "Thorn", payload.Changes["name"].From)

	_, err = db.Characters.Update(ctx, c.ID, alice.ID, models.CharacterPatch{ClassName: models.Some("  ")})
	requireKind(t, err, common.ErrValidation, msgCharacterRequired)

	_, err = db.Characters.Update(ctx, "char-missing", alice.ID, models.CharacterPatch{})
	requireKind(t, err, common.ErrNotFound, msgCharacterNotFound)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5", 5},
		{" 12 ", 12},
		{"3.7", 3},
		{"0", 1},
		{"-3", 1},
		{"abc", 1},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestListByOwner(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	alice := register(t, db, "a@b.co", "alice")
	bob := register(t, db, "bob@b.co", "bob")

	for _, name := range []string{"One", "Two"} {
		_, err := db.Characters.Create(ctx, alice.ID, models.CharacterDraft{Name: name, ClassName: "Wizard"})
		require.NoError(t, err)
	}
	_, err := db.Characters.Create(ctx, bob.ID, models.CharacterDraft{Name: "Three", ClassName: "Cleric"})
	require.NoError(t, err)

	mine := db.Characters.ListByOwner(alice.ID)
	require.Len(t, mine, 2)
	assert.Equal(t, "One", mine[0].Name)
	assert.Equal(t, "Two", mine[1].Name)
	assert.Len(t, db.Characters.ListAll(), 3)
	assert.Empty(t, db.Characters.ListByOwner("user-nobody"))
}
