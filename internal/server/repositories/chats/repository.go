package chats

import (
	"context"

	"github.com/dmitrijs2005/snapline/internal/models"
)

// Repository stores conversations. Reads return the wire shape directly
// since the chats collection is served to clients as-is; the unread counter
// is computed for the viewing participant.
type Repository interface {
	Create(ctx context.Context, participants []string) (*models.Chat, error)
	GetByID(ctx context.Context, id string) (*models.Chat, error)
	// ListByParticipant returns userID's chats, most recently active first.
	ListByParticipant(ctx context.Context, userID string) ([]models.Chat, error)
	// UpdateSummary replaces the denormalized last-message summary.
	UpdateSummary(ctx context.Context, chatID string, summary models.LastMessage) error
}
