package snaps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snapline/internal/common"
	"github.com/dmitrijs2005/snapline/internal/dbx"
	"github.com/dmitrijs2005/snapline/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, snap *models.SnapRow) (*models.SnapRow, error) {

	query :=
		`INSERT INTO snaps (owner_id, caption, storage_key, image_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		snap.OwnerID, snap.Caption, snap.StorageKey, snap.ImageURL).Scan(&snap.ID, &snap.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return snap, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.SnapRow, error) {

	query :=
		`SELECT id, owner_id, caption, storage_key, image_url, created_at FROM snaps
		 WHERE id = $1
		 `

	snap := &models.SnapRow{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&snap.ID, &snap.OwnerID, &snap.Caption, &snap.StorageKey, &snap.ImageURL, &snap.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return snap, nil
}
