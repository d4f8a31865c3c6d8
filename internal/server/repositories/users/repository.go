package users

import (
	"context"

	"github.com/dmitrijs2005/snapline/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByLogin(ctx context.Context, login string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
}
