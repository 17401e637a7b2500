package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"duochat/internal/app/model"
)

const messageColumns = "id, chat_id, sender_id, content, kind, file_url, seen, created_at"

// CreateMessageParams carries the fields of a new message. Seen always starts false.
type CreateMessageParams struct {
	ChatID   uuid.UUID
	SenderID uuid.UUID
	Content  string
	Kind     model.MessageKind
	FileURL  string
}

// CreateMessage persists a new message and returns the stored row.
func (s *Store) CreateMessage(ctx context.Context, p CreateMessageParams) (model.Message, error) {
	var m model.Message
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (chat_id, sender_id, content, kind, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		p.ChatID, p.SenderID, p.Content, string(p.Kind), p.FileURL,
	).Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.Kind, &m.FileURL, &m.Seen, &m.CreatedAt)
	if err != nil {
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// ListMessagesByChat returns all messages of a chat in creation order.
func (s *Store) ListMessagesByChat(ctx context.Context, chatID uuid.UUID) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE chat_id = $1
		ORDER BY created_at, id`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.Kind, &m.FileURL, &m.Seen, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkMessagesSeen bulk-updates every unseen message in the chat that was not
// sent by excludeUserID. The seen flag only ever moves false -> true, so
// repeated calls are no-ops and return zero rows.
func (s *Store) MarkMessagesSeen(ctx context.Context, chatID, excludeUserID uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE messages SET seen = TRUE
		WHERE chat_id = $1 AND sender_id <> $2 AND NOT seen`,
		chatID, excludeUserID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark messages seen: %w", err)
	}
	return tag.RowsAffected(), nil
}
