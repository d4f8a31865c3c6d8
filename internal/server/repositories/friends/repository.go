package friends

import (
	"context"

	"github.com/dmitrijs2005/snapline/internal/server/models"
)

type Repository interface {
	// List returns the accounts befriended by userID.
	List(ctx context.Context, userID string) ([]models.Account, error)
	// Add records a mutual friendship between two users. Adding an existing
	// friendship is a no-op.
	Add(ctx context.Context, userID, friendID string) error
}
