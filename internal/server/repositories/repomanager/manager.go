package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mapkeeper/internal/dbx"
	"github.com/dmitrijs2005/mapkeeper/internal/server/repositories/snapshots"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Snapshots(db dbx.DBTX) snapshots.Repository
}
