package snaps

import (
	"context"

	"github.com/dmitrijs2005/snapline/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, snap *models.SnapRow) (*models.SnapRow, error)
	GetByID(ctx context.Context, id string) (*models.SnapRow, error)
}
