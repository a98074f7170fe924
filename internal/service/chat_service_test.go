package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kjkhy9/perfectplan/internal/models"
)

func TestSendMessage(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	svc := NewChatService(store)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner")
	group, err := groups.CreateGroup(ctx, "Chatter", owner.ID)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("plain text message", func(t *testing.T) {
		msg, err := svc.SendMessage(ctx, group.ID, owner.ID, "hello there", "")
		if err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
		if msg.ID == "" {
			t.Error("expected message ID to be generated")
		}
	})

	t.Run("empty text without poll reference rejected", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, group.ID, owner.ID, "   ", "")
		var validation *models.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("poll announcement may omit text", func(t *testing.T) {
		polls := NewPollService(store)
		poll, err := polls.CreatePoll(ctx, group.ID, "", twoOptions(), owner.ID)
		if err != nil {
			t.Fatalf("CreatePoll failed: %v", err)
		}

		msg, err := svc.SendMessage(ctx, group.ID, owner.ID, "", poll.ID)
		if err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
		if msg.PollID != poll.ID {
			t.Errorf("PollID mismatch: got %s, want %s", msg.PollID, poll.ID)
		}
	})

	t.Run("unknown group is not found", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, "no-such-group", owner.ID, "hi", "")
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}

func TestListGroupMessages(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	svc := NewChatService(store)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner")
	group, err := groups.CreateGroup(ctx, "History", owner.ID)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	other, err := groups.CreateGroup(ctx, "Other", owner.ID)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if _, err := svc.SendMessage(ctx, group.ID, owner.ID, "in history", ""); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if _, err := svc.SendMessage(ctx, other.ID, owner.ID, "elsewhere", ""); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	messages, err := svc.ListGroupMessages(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupMessages failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Message.Text != "in history" {
		t.Errorf("Text mismatch: got %q", messages[0].Message.Text)
	}
	if messages[0].SenderName != "owner" {
		t.Errorf("expected hydrated sender handle, got %q", messages[0].SenderName)
	}
}
