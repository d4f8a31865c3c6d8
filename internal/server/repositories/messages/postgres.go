package messages

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

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (string, error) {

	query :=
		`INSERT INTO messages (chat_id, sender_id, receiver_id, text, snap_id, timestamp, read)
		 VALUES ($1, $2, $3, $4, $5, $6, false)
		 RETURNING id
		 `

	var id string
	err := r.db.QueryRowContext(ctx, query,
		msg.ChatID, msg.SenderID, nullable(msg.ReceiverID), msg.Text,
		nullable(msg.SnapID), msg.Timestamp).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {

	query :=
		`SELECT id, chat_id, sender_id, receiver_id, text, snap_id, timestamp, read FROM messages
		 WHERE id = $1
		 `

	msg, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (r *PostgresRepository) ListByChat(ctx context.Context, chatID string, limit int) ([]models.Message, error) {

	query :=
		`SELECT id, chat_id, sender_id, receiver_id, text, snap_id, timestamp, read FROM messages
		 WHERE chat_id = $1
		 ORDER BY timestamp DESC
		 `
	args := []any{chatID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetRead(ctx context.Context, id string, read bool) error {

	query :=
		`UPDATE messages SET read = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, read)
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

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		msg      models.Message
		receiver sql.NullString
		snapID   sql.NullString
	)
	if err := row.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &receiver,
		&msg.Text, &snapID, &msg.Timestamp, &msg.Read); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	msg.ReceiverID = receiver.String
	msg.SnapID = snapID.String
	return &msg, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
