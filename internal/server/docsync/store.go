// Package docsync implements the server side of the document-sync protocol:
// a subscription registry that pushes full query snapshots to client inboxes
// and the write handlers that keep the collections current.
package docsync

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snapline/internal/docsync"
	"github.com/dmitrijs2005/snapline/internal/models"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/repomanager"
)

var ErrorUnsupportedQuery = errors.New("unsupported query")

// Store executes queries and writes against the served collections.
type Store interface {
	// Query runs q and returns the marshaled documents in result order.
	Query(ctx context.Context, q docsync.Query) ([]json.RawMessage, error)
	// CreateMessage persists a new message document and returns its id.
	CreateMessage(ctx context.Context, doc json.RawMessage) (string, error)
	// UpdateChat applies a partial update to a chat document.
	UpdateChat(ctx context.Context, id string, fields json.RawMessage) error
	// UpdateMessage applies a partial update to a message document.
	UpdateMessage(ctx context.Context, id string, fields json.RawMessage) error
}

// RepoStore serves the collections from the relational repositories. Only
// the query shapes of the protocol are supported: chats by participant and
// messages by chat.
type RepoStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRepoStore(db *sql.DB, rm repomanager.RepositoryManager) *RepoStore {
	return &RepoStore{db: db, repomanager: rm}
}

func (s *RepoStore) Query(ctx context.Context, q docsync.Query) ([]json.RawMessage, error) {
	switch q.Collection {
	case docsync.CollectionChats:
		return s.queryChats(ctx, q)
	case docsync.CollectionMessages:
		return s.queryMessages(ctx, q)
	default:
		return nil, fmt.Errorf("%w: collection %q", ErrorUnsupportedQuery, q.Collection)
	}
}

func (s *RepoStore) queryChats(ctx context.Context, q docsync.Query) ([]json.RawMessage, error) {
	if len(q.Filter) != 1 || q.Filter[0].Field != "participants" || q.Filter[0].Op != docsync.OpContains {
		return nil, fmt.Errorf("%w: chats are only queryable by participant", ErrorUnsupportedQuery)
	}

	chats, err := s.repomanager.Chats(s.db).ListByParticipant(ctx, q.Filter[0].Value)
	if err != nil {
		return nil, err
	}
	return marshalDocs(chats)
}

func (s *RepoStore) queryMessages(ctx context.Context, q docsync.Query) ([]json.RawMessage, error) {
	if len(q.Filter) != 1 || q.Filter[0].Field != "chatId" || q.Filter[0].Op != docsync.OpEqual {
		return nil, fmt.Errorf("%w: messages are only queryable by chat", ErrorUnsupportedQuery)
	}

	msgs, err := s.repomanager.Messages(s.db).ListByChat(ctx, q.Filter[0].Value, q.Limit)
	if err != nil {
		return nil, err
	}
	return marshalDocs(msgs)
}

func marshalDocs[T any](docs []T) ([]json.RawMessage, error) {
	result := make([]json.RawMessage, 0, len(docs))
	for i := range docs {
		b, err := json.Marshal(docs[i])
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

func (s *RepoStore) CreateMessage(ctx context.Context, doc json.RawMessage) (string, error) {
	var msg models.Message
	if err := json.Unmarshal(doc, &msg); err != nil {
		return "", fmt.Errorf("invalid message document: %w", err)
	}
	if msg.ChatID == "" {
		return "", errors.New("message must reference a chat")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	// In a two-party chat the receiver is implied by the sender.
	if msg.ReceiverID == "" {
		chat, err := s.repomanager.Chats(s.db).GetByID(ctx, msg.ChatID)
		if err != nil {
			return "", err
		}
		if len(chat.Participants) == 2 {
			for _, p := range chat.Participants {
				if p != msg.SenderID {
					msg.ReceiverID = p
				}
			}
		}
	}

	return s.repomanager.Messages(s.db).Create(ctx, &msg)
}

func (s *RepoStore) UpdateChat(ctx context.Context, id string, fields json.RawMessage) error {
	var patch struct {
		LastMessage *models.LastMessage `json:"lastMessage"`
	}
	if err := json.Unmarshal(fields, &patch); err != nil {
		return fmt.Errorf("invalid chat update: %w", err)
	}
	if patch.LastMessage == nil {
		return errors.New("chat update must carry lastMessage")
	}

	return s.repomanager.Chats(s.db).UpdateSummary(ctx, id, *patch.LastMessage)
}

func (s *RepoStore) UpdateMessage(ctx context.Context, id string, fields json.RawMessage) error {
	var patch struct {
		Read *bool `json:"read"`
	}
	if err := json.Unmarshal(fields, &patch); err != nil {
		return fmt.Errorf("invalid message update: %w", err)
	}
	if patch.Read == nil {
		return errors.New("message update must carry read")
	}

	return s.repomanager.Messages(s.db).SetRead(ctx, id, *patch.Read)
}
