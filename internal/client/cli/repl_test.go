package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	args     map[string][]string
	failOn   string
	failErr  error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	if name == f.failOn {
		if f.failErr != nil {
			return f.failErr
		}
		return errors.New("failed")
	}
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Register(_ context.Context, a []string) error { return f.record("register", a) }
func (f *fakeExec) Login(_ context.Context, a []string) error {
	f.loggedIn = true
	return f.record("login", a)
}
func (f *fakeExec) Logout(_ context.Context, a []string) error {
	f.loggedIn = false
	return f.record("logout", a)
}
func (f *fakeExec) WhoAmI(_ context.Context, a []string) error     { return f.record("whoami", a) }
func (f *fakeExec) Profile(_ context.Context, a []string) error    { return f.record("profile", a) }
func (f *fakeExec) ClaimAdmin(_ context.Context, a []string) error { return f.record("claimadmin", a) }
func (f *fakeExec) AddCharacter(_ context.Context, a []string) error {
	return f.record("addchar", a)
}
func (f *fakeExec) ListCharacters(_ context.Context, a []string) error { return f.record("chars", a) }
func (f *fakeExec) MoveCharacter(_ context.Context, a []string) error {
	return f.record("movechar", a)
}
func (f *fakeExec) LevelCharacter(_ context.Context, a []string) error {
	return f.record("levelchar", a)
}
func (f *fakeExec) DeleteCharacter(_ context.Context, a []string) error {
	return f.record("delchar", a)
}
func (f *fakeExec) AddMarker(_ context.Context, a []string) error    { return f.record("addmarker", a) }
func (f *fakeExec) ListMarkers(_ context.Context, a []string) error  { return f.record("markers", a) }
func (f *fakeExec) DeleteMarker(_ context.Context, a []string) error { return f.record("delmarker", a) }
func (f *fakeExec) ListUsers(_ context.Context, a []string) error    { return f.record("users", a) }
func (f *fakeExec) Promote(_ context.Context, a []string) error      { return f.record("promote", a) }
func (f *fakeExec) Demote(_ context.Context, a []string) error       { return f.record("demote", a) }
func (f *fakeExec) Audit(_ context.Context, a []string) error        { return f.record("audit", a) }
func (f *fakeExec) Export(_ context.Context, a []string) error       { return f.record("export", a) }
func (f *fakeExec) Import(_ context.Context, a []string) error       { return f.record("import", a) }
func (f *fakeExec) Save(_ context.Context, a []string) error         { return f.record("save", a) }

func capturePrints(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(strings.ReplaceAll(fmtAny(v), "\n", " "))
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func fmtAny(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	default:
		return ""
	}
}

func TestRunREPL_DispatchesEveryCommand(t *testing.T) {
	capturePrints(t)

	cmds := []string{
		"register", "login", "whoami", "profile bio Loves maps", "claimadmin",
		"addchar 1 2", "chars all", "movechar c1 3 4", "levelchar c1 5", "delchar c1",
		"addmarker", "markers city dungeon", "delmarker m1",
		"users", "promote u2", "demote u2", "audit USER_LOGIN",
		"export out.json", "import out.json", "save", "logout",
	}
	input := strings.Join(append(cmds, "exit", "whoami"), "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	want := make([]string, len(cmds))
	for i, c := range cmds {
		want[i] = strings.Fields(c)[0]
	}
	assert.Equal(t, want, exec.calls, "nothing runs after exit")
	assert.Equal(t, []string{"bio", "Loves", "maps"}, exec.args["profile"])
	assert.Equal(t, []string{"c1", "3", "4"}, exec.args["movechar"])
	assert.Equal(t, []string{"city", "dungeon"}, exec.args["markers"])
}

func TestRunREPL_HelpUnknownErrorsAndEOF(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{failOn: "save"}
	input := "help\n\nfoobar\nlogin\nhelp\nsave\nquit"
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader(input)))

	require.Contains(t, *lines, helpGuest)
	require.Contains(t, *lines, helpUser)
	require.Contains(t, *lines, "Unknown command: foobar")
	require.Contains(t, *lines, "Error: failed")
	require.Contains(t, *lines, "Bye!")
}

func TestRunREPL_AuthenticationErrorHint(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{failOn: "login", failErr: common.NewAuthenticationError("Invalid email or password")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("login\nsave\n")))

	require.Contains(t, *lines, "Error: Invalid email or password")
	assert.Equal(t, 1, countLines(*lines, "Log in and try again."))
}

func countLines(lines []string, want string) int {
	n := 0
	for _, l := range lines {
		if l == want {
			n++
		}
	}
	return n
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("users\nsave")))

	assert.Equal(t, []string{"users", "save"}, exec.calls)
}
