package otps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snapline/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, email, code string, expiresAt time.Time) error {

	query :=
		`INSERT INTO otps (email, code, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE SET code = excluded.code, expires_at = excluded.expires_at
		 `

	if _, err := r.db.ExecContext(ctx, query, email, code, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Consume(ctx context.Context, email, code string) (bool, error) {

	query :=
		`DELETE FROM otps
		 WHERE email = $1 AND code = $2
		 RETURNING expires_at
		 `

	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx, query, email, code).Scan(&expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return time.Now().Before(expiresAt), nil
}
