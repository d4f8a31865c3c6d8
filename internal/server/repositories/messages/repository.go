package messages

import (
	"context"

	"github.com/dmitrijs2005/snapline/internal/models"
)

type Repository interface {
	// Create stores a new message and returns its generated id.
	Create(ctx context.Context, msg *models.Message) (string, error)
	GetByID(ctx context.Context, id string) (*models.Message, error)
	// ListByChat returns the chat's newest messages, newest first, at most
	// limit of them. limit <= 0 means no cap.
	ListByChat(ctx context.Context, chatID string, limit int) ([]models.Message, error)
	SetRead(ctx context.Context, id string, read bool) error
}
