package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mapkeeper/internal/client/persistence"
	"github.com/dmitrijs2005/mapkeeper/internal/filex"
)

// Export writes the full snapshot to a JSON file.
func (a *App) Export(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: export <file>")
	}

	doc, err := persistence.EncodeSnapshot(a.db.ExportSnapshot())
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(args[0], doc, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Snapshot exported to %s\n", args[0])
	return nil
}

// Import replaces the collections present in the file and saves.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: import <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	snap, err := persistence.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	a.db.ImportSnapshot(ctx, snap)
	fmt.Fprintf(a.out, "Snapshot imported from %s\n", args[0])
	return nil
}

// Save forces a save and, unlike the implicit ones, reports failures.
func (a *App) Save(ctx context.Context, _ []string) error {
	if err := a.db.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved")
	return nil
}
