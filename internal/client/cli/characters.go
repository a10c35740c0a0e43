package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/client/store"
)

// parsePosition reads "x y" from args. No args means the map origin.
func parsePosition(args []string) (models.Position, error) {
	if len(args) == 0 {
		return models.Position{}, nil
	}
	if len(args) != 2 {
		return models.Position{}, errors.New("position needs both x and y")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return models.Position{}, fmt.Errorf("bad x %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return models.Position{}, fmt.Errorf("bad y %q", args[1])
	}
	return models.Position{X: x, Y: y}, nil
}

// AddCharacter prompts for name, class, level and color. Optional args give
// the starting position: addchar [x y].
func (a *App) AddCharacter(ctx context.Context, args []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Character name", a.out)
	if err != nil {
		return err
	}
	className, err := getSimpleText(a.reader, "Class", a.out)
	if err != nil {
		return err
	}
	level, err := getSimpleText(a.reader, "Level (1-20)", a.out)
	if err != nil {
		return err
	}
	color, err := getSimpleText(a.reader, "Color (empty for default)", a.out)
	if err != nil {
		return err
	}

	c, err := a.db.Characters.Create(ctx, u.ID, models.CharacterDraft{
		Name:      name,
		ClassName: className,
		Level:     store.ParseLevel(level),
		Position:  pos,
		Color:     color,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Character %s created with id %s\n", c.Name, c.ID)
	return nil
}

// ListCharacters shows the caller's characters, or every active character
// with "chars all".
func (a *App) ListCharacters(_ context.Context, args []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	if len(args) > 0 && args[0] == "all" {
		printCharacters(a.out, a.db.Characters.ListAll())
		return nil
	}
	printCharacters(a.out, a.db.Characters.ListByOwner(u.ID))
	return nil
}

func (a *App) MoveCharacter(ctx context.Context, args []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	if len(args) != 3 {
		return errors.New("usage: movechar <id> <x> <y>")
	}
	pos, err := parsePosition(args[1:])
	if err != nil {
		return err
	}
	c, err := a.db.Characters.Move(ctx, args[0], pos.X, pos.Y, u.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s moved to %.0f,%.0f\n", c.Name, c.Position.X, c.Position.Y)
	return nil
}

func (a *App) LevelCharacter(ctx context.Context, args []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return errors.New("usage: levelchar <id> <level>")
	}
	c, err := a.db.Characters.Update(ctx, args[0], u.ID, models.CharacterPatch{
		Level: models.Some(store.ParseLevel(args[1])),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now level %d\n", c.Name, c.Level)
	return nil
}

func (a *App) DeleteCharacter(ctx context.Context, args []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: delchar <id>")
	}
	if err := a.db.Characters.Delete(ctx, args[0], u.ID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Character deleted")
	return nil
}
