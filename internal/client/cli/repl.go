package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/mapkeeper/internal/common"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	ClaimAdmin(ctx context.Context, args []string) error

	AddCharacter(ctx context.Context, args []string) error
	ListCharacters(ctx context.Context, args []string) error
	MoveCharacter(ctx context.Context, args []string) error
	LevelCharacter(ctx context.Context, args []string) error
	DeleteCharacter(ctx context.Context, args []string) error

	AddMarker(ctx context.Context, args []string) error
	ListMarkers(ctx context.Context, args []string) error
	DeleteMarker(ctx context.Context, args []string) error

	ListUsers(ctx context.Context, args []string) error
	Promote(ctx context.Context, args []string) error
	Demote(ctx context.Context, args []string) error
	Audit(ctx context.Context, args []string) error

	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: register, login, markers, export, import, save, exit"
	helpUser  = "Available commands: whoami, profile, claimadmin, addchar, chars, movechar, levelchar, delchar, " +
		"addmarker, markers, delmarker, users, promote, demote, audit, export, import, save, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit". Command
// errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("map %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			cmdErr = a.Register(ctx, args)
		case "login":
			cmdErr = a.Login(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "whoami":
			cmdErr = a.WhoAmI(ctx, args)
		case "profile":
			cmdErr = a.Profile(ctx, args)
		case "claimadmin":
			cmdErr = a.ClaimAdmin(ctx, args)

		case "addchar":
			cmdErr = a.AddCharacter(ctx, args)
		case "chars":
			cmdErr = a.ListCharacters(ctx, args)
		case "movechar":
			cmdErr = a.MoveCharacter(ctx, args)
		case "levelchar":
			cmdErr = a.LevelCharacter(ctx, args)
		case "delchar":
			cmdErr = a.DeleteCharacter(ctx, args)

		case "addmarker":
			cmdErr = a.AddMarker(ctx, args)
		case "markers":
			cmdErr = a.ListMarkers(ctx, args)
		case "delmarker":
			cmdErr = a.DeleteMarker(ctx, args)

		case "users":
			cmdErr = a.ListUsers(ctx, args)
		case "promote":
			cmdErr = a.Promote(ctx, args)
		case "demote":
			cmdErr = a.Demote(ctx, args)
		case "audit":
			cmdErr = a.Audit(ctx, args)

		case "export":
			cmdErr = a.Export(ctx, args)
		case "import":
			cmdErr = a.Import(ctx, args)
		case "save":
			cmdErr = a.Save(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
			if common.KindOf(cmdErr) == common.ErrAuthentication {
				printlnFn("Log in and try again.")
			}
		}
		if err != nil {
			return
		}
	}
}
