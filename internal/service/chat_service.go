package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kjkhy9/perfectplan/internal/models"
	"github.com/kjkhy9/perfectplan/internal/storage"
)

// ChatService persists the append-only chat history of each group. Live
// delivery is the relay's job; this service is the authoritative record a
// reconnecting client reads from.
type ChatService struct {
	store storage.Store
}

// NewChatService creates a new ChatService with the given storage backend.
func NewChatService(store storage.Store) *ChatService {
	return &ChatService{store: store}
}

// SendMessage appends a message to the group's history. A message must
// carry text unless it references a poll.
func (s *ChatService) SendMessage(ctx context.Context, groupID, senderID, text, pollID string) (*models.Message, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" && pollID == "" {
		return nil, &models.ValidationError{Reason: "message text is required"}
	}

	msg := &models.Message{
		GroupID:  groupID,
		SenderID: senderID,
		Text:     text,
		PollID:   pollID,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	slog.Info("message sent", "message_id", msg.ID, "group_id", groupID)
	return msg, nil
}

// ListGroupMessages returns the group's messages ascending by creation time,
// with sender handles attached.
func (s *ChatService) ListGroupMessages(ctx context.Context, groupID string) ([]*models.MessageView, error) {
	messages, err := s.store.ListMessagesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.SenderID)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*models.MessageView, 0, len(messages))
	for _, m := range messages {
		view := &models.MessageView{Message: m}
		if u, ok := users[m.SenderID]; ok {
			view.SenderName = u.Username
		}
		views = append(views, view)
	}

	return views, nil
}
