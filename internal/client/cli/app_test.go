package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/client/persistence"
	"github.com/dmitrijs2005/mapkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/mapkeeper/internal/client/store"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/dmitrijs2005/mapkeeper/internal/ids"
	"github.com/dmitrijs2005/mapkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

type plainHasher struct{}

func (plainHasher) Hash(p string) string { return "plain$" + p }

func (plainHasher) Verify(s, p string) (bool, error) { return s == "plain$"+p, nil }

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// stubPasswords makes getPassword return the given passwords in order.
func stubPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })

	getPassword = func(_ *bufio.Reader, _ io.Writer, _ string) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, errors.New("no more passwords")
		}
		pw := passwords[0]
		passwords = passwords[1:]
		return []byte(pw), nil
	}
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	gw := persistence.New(kv.NewMemoryRepository())
	db := store.Open(context.Background(), gw,
		store.WithIDGenerator(ids.NewSequence(t0, time.Second)),
		store.WithSecretHasher(plainHasher{}))

	out := &bytes.Buffer{}
	return &App{
		db:      db,
		gateway: gw,
		logger:  logging.Nop(),
		reader:  readerFromLines(),
		out:     out,
		mode:    ModeDisabled,
	}, out
}

func (a *App) feed(lines ...string) {
	a.reader = readerFromLines(lines...)
}

func registerAndLogin(t *testing.T, a *App, email, username string) models.PublicUser {
	t.Helper()
	ctx := context.Background()

	stubPasswords(t, "secret1", "secret1", "secret1")
	a.feed(email, username, email)
	require.NoError(t, a.Register(ctx, nil))
	require.NoError(t, a.Login(ctx, nil))

	u, ok := a.currentUser()
	require.True(t, ok)
	return u
}

func TestApp_RegisterLoginProfileLogout(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t)

	require.False(t, a.isLoggedIn())
	u := registerAndLogin(t, a, "Frodo@Shire.me", "frodo")
	assert.Equal(t, "frodo@shire.me", u.Email)
	assert.Contains(t, out.String(), "Registration successful")
	assert.Contains(t, out.String(), "Login successful, hello frodo")
	assert.Equal(t, "(frodo disabled)", a.getStatus())

	require.NoError(t, a.Profile(ctx, []string{"bio", "Ring", "bearer"}))
	got, _ := a.currentUser()
	assert.Equal(t, "Ring bearer", got.Profile.Bio)

	require.Error(t, a.Profile(ctx, []string{"shoe", "size"}))

	out.Reset()
	require.NoError(t, a.WhoAmI(ctx, nil))
	assert.Contains(t, out.String(), "frodo@shire.me")

	require.NoError(t, a.Logout(ctx, nil))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "(disabled)", a.getStatus())
	require.ErrorIs(t, a.WhoAmI(ctx, nil), errNotLoggedIn)
}

func TestApp_RegisterFailures(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)

	stubPasswords(t, "secret1", "secret2")
	a.feed("sam@shire.me", "sam")
	err := a.Register(ctx, nil)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Passwords do not match", err.Error())

	stubPasswords(t, "wrong")
	a.feed("nobody@shire.me")
	require.ErrorIs(t, a.Login(ctx, nil), common.ErrAuthentication)
}

func TestApp_CommandsNeedLogin(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)

	cmds := map[string]func(context.Context, []string) error{
		"logout":     a.Logout,
		"profile":    a.Profile,
		"claimadmin": a.ClaimAdmin,
		"addchar":    a.AddCharacter,
		"chars":      a.ListCharacters,
		"movechar":   a.MoveCharacter,
		"levelchar":  a.LevelCharacter,
		"delchar":    a.DeleteCharacter,
		"addmarker":  a.AddMarker,
		"delmarker":  a.DeleteMarker,
		"users":      a.ListUsers,
		"promote":    a.Promote,
		"demote":     a.Demote,
		"audit":      a.Audit,
	}
	for name, cmd := range cmds {
		require.ErrorIs(t, cmd(ctx, nil), errNotLoggedIn, name)
	}

	require.NoError(t, a.ListMarkers(ctx, nil), "guests can look at the map")
}

func TestApp_Characters(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t)
	u := registerAndLogin(t, a, "aragorn@gondor.gov", "strider")

	a.feed("Aragorn", "Ranger", "abc", "")
	require.NoError(t, a.AddCharacter(ctx, []string{"100", "200"}))

	chars := a.db.Characters.ListByOwner(u.ID)
	require.Len(t, chars, 1)
	c := chars[0]
	assert.Equal(t, 1, c.Level, "unreadable level falls back to 1")
	assert.Equal(t, models.Position{X: 100, Y: 200}, c.Position)
	assert.Equal(t, models.DefaultCharacterColor, c.Color)

	require.Error(t, a.AddCharacter(ctx, []string{"1"}))

	require.NoError(t, a.MoveCharacter(ctx, []string{c.ID, "5", "6"}))
	require.Error(t, a.MoveCharacter(ctx, []string{c.ID, "x", "6"}))
	require.Error(t, a.MoveCharacter(ctx, []string{c.ID}))

	require.NoError(t, a.LevelCharacter(ctx, []string{c.ID, "7"}))
	got, ok := a.db.Characters.GetByID(c.ID)
	require.True(t, ok)
	assert.Equal(t, 7, got.Level)
	assert.Equal(t, models.Position{X: 5, Y: 6}, got.Position)

	out.Reset()
	require.NoError(t, a.ListCharacters(ctx, []string{"all"}))
	assert.Contains(t, out.String(), "Aragorn")

	require.NoError(t, a.DeleteCharacter(ctx, []string{c.ID}))
	err := a.DeleteCharacter(ctx, []string{c.ID})
	require.ErrorIs(t, err, common.ErrNotFound)

	out.Reset()
	require.NoError(t, a.ListCharacters(ctx, nil))
	assert.Contains(t, out.String(), "No characters")
}

func TestApp_Markers(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t)
	registerAndLogin(t, a, "gandalf@valinor.org", "mithrandir")

	a.feed("Moria", "Mines", "dungeon")
	require.NoError(t, a.AddMarker(ctx, []string{"10", "20"}))
	a.feed("", "", "")
	require.NoError(t, a.AddMarker(ctx, nil))

	out.Reset()
	require.NoError(t, a.ListMarkers(ctx, []string{"dungeon"}))
	assert.Contains(t, out.String(), "Moria")
	assert.NotContains(t, out.String(), models.DefaultMarkerName)

	markers := a.db.Markers.ListAll()
	require.Len(t, markers, 2)

	require.NoError(t, a.DeleteMarker(ctx, []string{markers[0].ID}))
	assert.Len(t, a.db.Markers.ListAll(), 1)
	require.Error(t, a.DeleteMarker(ctx, nil))
}

func TestApp_AdminFlow(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t)

	other := registerAndLogin(t, a, "pippin@shire.me", "pippin")
	require.NoError(t, a.Logout(ctx, nil))
	admin := registerAndLogin(t, a, "elrond@rivendell.el", "elrond")

	err := a.Promote(ctx, []string{other.ID})
	require.ErrorIs(t, err, common.ErrAuthorization)

	require.NoError(t, a.ClaimAdmin(ctx, nil))
	require.ErrorIs(t, a.ClaimAdmin(ctx, nil), common.ErrAuthorization)

	require.NoError(t, a.Promote(ctx, []string{other.ID}))
	assert.Contains(t, out.String(), "pippin is now ADMIN")
	require.NoError(t, a.Demote(ctx, []string{other.ID}))
	assert.Contains(t, out.String(), "pippin is now USER")
	require.Error(t, a.Demote(ctx, nil))

	out.Reset()
	require.NoError(t, a.ListUsers(ctx, nil))
	assert.Contains(t, out.String(), "pippin")
	assert.Contains(t, out.String(), "elrond")

	out.Reset()
	require.NoError(t, a.Audit(ctx, []string{"user_promoted"}))
	assert.Contains(t, out.String(), "USER_PROMOTED")
	assert.Contains(t, out.String(), other.ID)
	assert.NotContains(t, out.String(), "USER_DEMOTED")

	require.Error(t, a.Audit(ctx, []string{"a", "b"}))
	assert.Equal(t, admin.ID, func() string { u, _ := a.currentUser(); return u.ID }())
}

func TestApp_AuditNonAdminSeesOwnEvents(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t)

	registerAndLogin(t, a, "merry@shire.me", "merry")
	require.NoError(t, a.Logout(ctx, nil))
	registerAndLogin(t, a, "rosie@shire.me", "rosie")

	out.Reset()
	require.NoError(t, a.Audit(ctx, nil))
	assert.NotContains(t, out.String(), "USER_LOGOUT", "merry's logout is not rosie's business")
	assert.Contains(t, out.String(), "USER_LOGIN")
}

func TestApp_ExportImportSave(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)
	registerAndLogin(t, a, "bilbo@shire.me", "bilbo")
	a.feed("Lonely Mountain", "", "dungeon")
	require.NoError(t, a.AddMarker(ctx, []string{"1", "1"}))

	path := filepath.Join(t.TempDir(), "backup", "snap.json")
	require.NoError(t, a.Export(ctx, []string{path}))
	require.Error(t, a.Export(ctx, nil))

	b, _ := newTestApp(t)
	require.NoError(t, b.Import(ctx, []string{path}))
	assert.Len(t, b.db.Users.List(), 1)
	assert.Len(t, b.db.Markers.ListAll(), 1)

	require.Error(t, b.Import(ctx, []string{filepath.Join(t.TempDir(), "missing.json")}))
	require.Error(t, b.Import(ctx, nil))

	require.NoError(t, b.Save(ctx, nil))
}

type pingMirror struct {
	fail atomic.Bool
}

func (m *pingMirror) Ping(context.Context) error {
	if m.fail.Load() {
		return errors.New("down")
	}
	return nil
}
func (m *pingMirror) PushSnapshot(context.Context, []byte) error   { return nil }
func (m *pingMirror) PullSnapshot(context.Context) ([]byte, error) { return nil, errors.New("none") }
func (m *pingMirror) Close() error                                 { return nil }

func TestStartOnlineStatusWatcher(t *testing.T) {
	a, _ := newTestApp(t)
	m := &pingMirror{}
	a.mirror = m
	a.setMode(ModeOffline)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	m.fail.Store(true)
	require.Eventually(t, func() bool { return a.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	a.StartOnlineStatusWatcher(context.Background(), 0)
}
