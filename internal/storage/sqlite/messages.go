package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kjkhy9/perfectplan/internal/models"
)

// CreateMessage appends a chat message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt == 0 {
		msg.CreatedAt = time.Now().Unix()
	}

	var pollID interface{}
	if msg.PollID != "" {
		pollID = msg.PollID
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (id, group_id, sender_id, text, poll_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		msg.ID, msg.GroupID, msg.SenderID, msg.Text, pollID, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// ListMessagesByGroup returns the group's messages ascending by creation time.
func (s *SQLiteStore) ListMessagesByGroup(ctx context.Context, groupID string) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, group_id, sender_id, text, poll_id, created_at FROM messages WHERE group_id = ? ORDER BY created_at, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		var pollID sql.NullString
		if err := rows.Scan(&msg.ID, &msg.GroupID, &msg.SenderID, &msg.Text, &pollID, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.PollID = pollID.String
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
