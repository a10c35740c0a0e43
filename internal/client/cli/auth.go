package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/dmitrijs2005/mapkeeper/internal/validation"
)

func (a *App) isLoggedIn() bool {
	_, ok := a.currentUser()
	return ok
}

func (a *App) currentUser() (models.PublicUser, bool) {
	if a.token == "" {
		return models.PublicUser{}, false
	}
	return a.db.CurrentUser(a.token)
}

// requireUser returns the logged-in user. An expired session clears the
// local token.
func (a *App) requireUser() (models.PublicUser, error) {
	u, ok := a.currentUser()
	if !ok {
		a.token, a.userName = "", ""
		return models.PublicUser{}, errNotLoggedIn
	}
	return u, nil
}

// Register prompts for email, username and the password twice, then creates
// the account. Passwords are wiped before returning.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, a.out, "Confirm password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	u, err := a.db.Users.Register(ctx, validation.Registration{
		Email:           email,
		Username:        username,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registration successful, welcome %s. You can now log in.\n", u.Username)
	return nil
}

// Login prompts for credentials and keeps the session token for the
// following commands.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, sess, err := a.db.Users.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.token = sess.Token
	a.userName = u.Username
	fmt.Fprintf(a.out, "Login successful, hello %s\n", u.Username)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}

	a.db.Users.Logout(ctx, u.ID)
	a.token, a.userName = "", ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(_ context.Context, _ []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

// Profile prints the profile, or with "<field> <value...>" changes one
// field. Fields: nickname, bio, avatar, email, active.
func (a *App) Profile(ctx context.Context, args []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		printUser(a.out, u)
		return nil
	}

	value := strings.Join(args[1:], " ")
	var p models.ProfilePatch
	switch args[0] {
	case "nickname":
		p.Nickname = models.Some(value)
	case "bio":
		p.Bio = models.Some(value)
	case "avatar":
		p.AvatarRef = models.Some(value)
	case "email":
		p.Email = models.Some(value)
	case "active":
		p.ActiveCharacterID = models.Some(value)
	default:
		return fmt.Errorf("unknown profile field %q (nickname, bio, avatar, email, active)", args[0])
	}

	updated, err := a.db.Users.UpdateProfile(ctx, u.ID, p)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated")
	printUser(a.out, updated)
	return nil
}

func (a *App) ClaimAdmin(ctx context.Context, _ []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	if _, err := a.db.Users.ClaimAdmin(ctx, u.ID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "You are now an admin")
	return nil
}
