package chats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snapline/internal/common"
	"github.com/dmitrijs2005/snapline/internal/dbx"
	"github.com/dmitrijs2005/snapline/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, participants []string) (*models.Chat, error) {

	chat := &models.Chat{Participants: participants}

	query :=
		`INSERT INTO chats DEFAULT VALUES
		 RETURNING id, created_at
		 `

	if err := r.db.QueryRowContext(ctx, query).Scan(&chat.ID, &chat.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, p := range participants {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)`,
			chat.ID, p); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return chat, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {

	query :=
		`SELECT c.id, c.created_at, c.last_message_id, c.last_sender_id, c.last_text, c.last_timestamp,
		        array_to_string(ARRAY(SELECT user_id FROM chat_participants WHERE chat_id = c.id ORDER BY user_id), ',')
		 FROM chats c
		 WHERE c.id = $1
		 `

	chat, err := r.scanChat(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return chat, nil
}

func (r *PostgresRepository) ListByParticipant(ctx context.Context, userID string) ([]models.Chat, error) {

	query :=
		`SELECT c.id, c.created_at, c.last_message_id, c.last_sender_id, c.last_text, c.last_timestamp,
		        array_to_string(ARRAY(SELECT user_id FROM chat_participants WHERE chat_id = c.id ORDER BY user_id), ','),
		        (SELECT COUNT(*) FROM messages m
		         WHERE m.chat_id = c.id AND m.receiver_id = $1 AND NOT m.read)
		 FROM chats c
		 JOIN chat_participants p ON p.chat_id = c.id
		 WHERE p.user_id = $1
		 ORDER BY c.last_timestamp DESC NULLS LAST
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Chat
	for rows.Next() {
		var (
			chat        models.Chat
			msgID       sql.NullString
			senderID    sql.NullString
			text        sql.NullString
			ts          sql.NullTime
			partsJoined string
		)
		if err := rows.Scan(&chat.ID, &chat.CreatedAt, &msgID, &senderID, &text, &ts,
			&partsJoined, &chat.UnreadCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		chat.Participants = parseArray(partsJoined)
		chat.LastMessage = summaryFromNullable(msgID, senderID, text, ts)
		result = append(result, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateSummary(ctx context.Context, chatID string, summary models.LastMessage) error {

	query :=
		`UPDATE chats
		 SET last_message_id = $2, last_sender_id = $3, last_text = $4, last_timestamp = $5
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, chatID,
		summary.MessageID, summary.SenderID, summary.Text, summary.Timestamp)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanChat(row rowScanner) (*models.Chat, error) {
	var (
		chat        models.Chat
		msgID       sql.NullString
		senderID    sql.NullString
		text        sql.NullString
		ts          sql.NullTime
		partsJoined string
	)
	if err := row.Scan(&chat.ID, &chat.CreatedAt, &msgID, &senderID, &text, &ts, &partsJoined); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	chat.Participants = parseArray(partsJoined)
	chat.LastMessage = summaryFromNullable(msgID, senderID, text, ts)
	return &chat, nil
}

func summaryFromNullable(msgID, senderID, text sql.NullString, ts sql.NullTime) *models.LastMessage {
	if !msgID.Valid {
		return nil
	}
	return &models.LastMessage{
		MessageID: msgID.String,
		SenderID:  senderID.String,
		Text:      text.String,
		Timestamp: ts.Time,
	}
}
