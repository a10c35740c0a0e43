package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
)

// AddMarker prompts for the marker fields; addmarker [x y] places it.
func (a *App) AddMarker(ctx context.Context, args []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Marker name", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	markerType, err := getSimpleText(a.reader, "Type (city, dungeon, ...)", a.out)
	if err != nil {
		return err
	}

	m, err := a.db.Markers.Create(ctx, u.ID, models.MarkerDraft{
		Name:        name,
		Description: description,
		Type:        markerType,
		Position:    pos,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Marker %s created with id %s\n", m.Name, m.ID)
	return nil
}

// ListMarkers shows all markers, or only the given types. Guests may look
// at the map too.
func (a *App) ListMarkers(_ context.Context, args []string) error {
	if len(args) > 0 {
		printMarkers(a.out, a.db.Markers.ListByType(args...))
		return nil
	}
	printMarkers(a.out, a.db.Markers.ListAll())
	return nil
}

func (a *App) DeleteMarker(ctx context.Context, args []string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: delmarker <id>")
	}
	if err := a.db.Markers.Delete(ctx, args[0], u.ID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Marker deleted")
	return nil
}
