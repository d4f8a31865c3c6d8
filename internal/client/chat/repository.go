// Package chat provides the client's view of chats and messages: live
// snapshot subscriptions over the document-sync service, message writes, and
// the paginated message controller.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snapline/internal/client/livesync"
	"github.com/dmitrijs2005/snapline/internal/docsync"
	"github.com/dmitrijs2005/snapline/internal/models"
)

// Repository reads and writes the chats and messages collections.
type Repository struct {
	conn livesync.Conn
}

func NewRepository(conn livesync.Conn) *Repository {
	return &Repository{conn: conn}
}

// ObserveChats opens a live subscription on every chat the user participates
// in, most recently active first.
func (r *Repository) ObserveChats(ctx context.Context, userID string) (*livesync.Subscription[models.Chat], error) {
	query := docsync.Query{
		Collection: docsync.CollectionChats,
		Filter: []docsync.Condition{
			{Field: "participants", Op: docsync.OpContains, Value: userID},
		},
		OrderBy:    "lastMessage.timestamp",
		Descending: true,
	}
	return livesync.Listen[models.Chat](ctx, r.conn, query)
}

// ObserveMessages opens a live subscription on one chat's messages, newest
// first, capped at limit rows.
func (r *Repository) ObserveMessages(ctx context.Context, chatID string, limit int) (*livesync.Subscription[models.Message], error) {
	query := docsync.Query{
		Collection: docsync.CollectionMessages,
		Filter: []docsync.Condition{
			{Field: "chatId", Op: docsync.OpEqual, Value: chatID},
		},
		OrderBy:    "timestamp",
		Descending: true,
		Limit:      limit,
	}
	return livesync.Listen[models.Message](ctx, r.conn, query)
}

// SendMessage creates msg (the server assigns the id) and then updates the
// parent chat's last-message summary as a second write. The two writes are
// not atomic: when the second fails, the message exists but the chat summary
// is stale. The message id is returned even in that case so the caller can
// retry the summary update.
func (r *Repository) SendMessage(ctx context.Context, msg models.Message) (string, error) {
	if msg.ChatID == "" {
		return "", errors.New("message has no chat id")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	msg.ID = ""
	msg.Read = false

	doc, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode message: %w", err)
	}
	payload, _ := json.Marshal(docsync.CreateRequest{Doc: doc})

	reply, err := r.conn.Request(ctx, docsync.SubjectCreateMessage, payload)
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}
	var created docsync.CreateResponse
	if err := json.Unmarshal(reply, &created); err != nil {
		return "", fmt.Errorf("malformed create response: %w", err)
	}
	if created.Error != "" {
		return "", fmt.Errorf("failed to create message: %s", created.Error)
	}

	summary := models.LastMessage{
		MessageID: created.ID,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	}
	if err := r.updateChatSummary(ctx, msg.ChatID, summary); err != nil {
		return created.ID, fmt.Errorf("message %s sent but chat summary not updated: %w", created.ID, err)
	}
	return created.ID, nil
}

func (r *Repository) updateChatSummary(ctx context.Context, chatID string, summary models.LastMessage) error {
	fields, err := json.Marshal(map[string]any{"lastMessage": summary})
	if err != nil {
		return err
	}
	payload, _ := json.Marshal(docsync.UpdateRequest{ID: chatID, Fields: fields})

	reply, err := r.conn.Request(ctx, docsync.SubjectUpdateChat, payload)
	if err != nil {
		return err
	}
	var ack docsync.Ack
	if err := json.Unmarshal(reply, &ack); err != nil {
		return fmt.Errorf("malformed update ack: %w", err)
	}
	if !ack.OK {
		return errors.New(ack.Error)
	}
	return nil
}

// MarkRead flips a message's read flag. The flag only ever moves false→true,
// so repeating the call is harmless.
func (r *Repository) MarkRead(ctx context.Context, messageID string) error {
	fields, _ := json.Marshal(map[string]bool{"read": true})
	payload, _ := json.Marshal(docsync.UpdateRequest{ID: messageID, Fields: fields})

	reply, err := r.conn.Request(ctx, docsync.SubjectUpdateMessage, payload)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	var ack docsync.Ack
	if err := json.Unmarshal(reply, &ack); err != nil {
		return fmt.Errorf("malformed update ack: %w", err)
	}
	if !ack.OK {
		return fmt.Errorf("failed to mark message read: %s", ack.Error)
	}
	return nil
}
