package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
)

func (a *App) ListUsers(_ context.Context, _ []string) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}
	printUsers(a.out, a.db.Users.List())
	return nil
}

func (a *App) Promote(ctx context.Context, args []string) error {
	return a.changeRole(ctx, args, "promote")
}

func (a *App) Demote(ctx context.Context, args []string) error {
	return a.changeRole(ctx, args, "demote")
}

func (a *App) changeRole(ctx context.Context, args []string, verb string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: %s <user id>", verb)
	}

	var target models.PublicUser
	if verb == "promote" {
		target, err = a.db.Users.Promote(ctx, u.ID, args[0])
	} else {
		target, err = a.db.Users.Demote(ctx, u.ID, args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now %s\n", target.Username, target.Role)
	return nil
}

// Audit lists recorded events, newest first, optionally of one type.
// Admins see everyone's events, other users only their own.
func (a *App) Audit(_ context.Context, args []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return errors.New("usage: audit [TYPE]")
	}

	var f models.AuditFilter
	if len(args) == 1 {
		f.Type = models.AuditType(strings.ToUpper(args[0]))
	}
	if u.Role != models.RoleAdmin {
		f.ActorUserID = u.ID
	}
	printAudit(a.out, a.db.Audit.Query(f))
	return nil
}
