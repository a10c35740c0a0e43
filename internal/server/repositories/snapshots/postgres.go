package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mapkeeper/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, clientID string) ([]byte, error) {
	query :=
		`SELECT document FROM mirror_snapshots
		 WHERE client_id = $1
		 `

	var doc []byte
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc, nil
}

// Put replaces the client's snapshot.
func (r *PostgresRepository) Put(ctx context.Context, clientID string, document []byte) error {
	query :=
		`INSERT INTO mirror_snapshots (client_id, document, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (client_id) DO UPDATE
		 SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
		 `

	if _, err := r.db.ExecContext(ctx, query, clientID, document); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
