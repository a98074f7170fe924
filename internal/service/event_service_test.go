package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kjkhy9/perfectplan/internal/models"
)

func TestCreateEvent(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	svc := NewEventService(store)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner")
	member := createTestUser(t, store, "member")

	group, err := groups.CreateGroup(ctx, "Outings", owner.ID)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := groups.JoinGroup(ctx, group.MemberCode, member.ID); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}

	start := time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	t.Run("owner creates event", func(t *testing.T) {
		event, err := svc.CreateEvent(ctx, group.ID, "Picnic", "bring snacks", start, end, owner.ID)
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if event.ID == "" {
			t.Error("expected event ID to be generated")
		}
		if !event.StartTime.Equal(start) {
			t.Errorf("StartTime mismatch: got %v, want %v", event.StartTime, start)
		}
	})

	t.Run("non-owner may not create", func(t *testing.T) {
		_, err := svc.CreateEvent(ctx, group.ID, "Coup", "", start, end, member.ID)
		var authz *models.AuthorizationError
		if !errors.As(err, &authz) {
			t.Fatalf("expected AuthorizationError, got %v", err)
		}
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		var validation *models.ValidationError

		if _, err := svc.CreateEvent(ctx, group.ID, "  ", "", start, end, owner.ID); !errors.As(err, &validation) {
			t.Errorf("expected ValidationError for blank title, got %v", err)
		}
		if _, err := svc.CreateEvent(ctx, group.ID, "X", "", time.Time{}, end, owner.ID); !errors.As(err, &validation) {
			t.Errorf("expected ValidationError for zero start, got %v", err)
		}
		if _, err := svc.CreateEvent(ctx, group.ID, "X", "", end, start, owner.ID); !errors.As(err, &validation) {
			t.Errorf("expected ValidationError for end before start, got %v", err)
		}
		if _, err := svc.CreateEvent(ctx, group.ID, "X", "", start, start, owner.ID); !errors.As(err, &validation) {
			t.Errorf("expected ValidationError for zero-length event, got %v", err)
		}
	})

	t.Run("unknown group is not found", func(t *testing.T) {
		_, err := svc.CreateEvent(ctx, "no-such-group", "X", "", start, end, owner.ID)
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}

func TestListUserEvents(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	svc := NewEventService(store)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	ga, err := groups.CreateGroup(ctx, "Alpha", alice.ID)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	gb, err := groups.CreateGroup(ctx, "Beta", bob.ID)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := groups.JoinGroup(ctx, gb.MemberCode, alice.ID); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	if _, err := svc.CreateEvent(ctx, gb.ID, "Beta brunch", "", base, base.Add(time.Hour), bob.ID); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if _, err := svc.CreateEvent(ctx, ga.ID, "Alpha dinner", "", base.Add(-2*time.Hour), base.Add(-time.Hour), alice.ID); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	t.Run("planner spans groups, ascending, with group names", func(t *testing.T) {
		events, err := svc.ListUserEvents(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListUserEvents failed: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[0].Event.Title != "Alpha dinner" || events[1].Event.Title != "Beta brunch" {
			t.Errorf("events not ordered by start time: %s, %s", events[0].Event.Title, events[1].Event.Title)
		}
		if events[0].GroupName != "Alpha" || events[1].GroupName != "Beta" {
			t.Errorf("group names not attached: %q, %q", events[0].GroupName, events[1].GroupName)
		}
		if events[1].CreatorName != "bob" {
			t.Errorf("creator handle not attached: %q", events[1].CreatorName)
		}
	})

	t.Run("bob only sees his group", func(t *testing.T) {
		events, err := svc.ListUserEvents(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListUserEvents failed: %v", err)
		}
		if len(events) != 1 || events[0].Event.Title != "Beta brunch" {
			t.Errorf("expected only Beta brunch, got %d events", len(events))
		}
	})
}

func TestDeleteEvent(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	svc := NewEventService(store)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner")
	member := createTestUser(t, store, "member")

	group, err := groups.CreateGroup(ctx, "Cleanup", owner.ID)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := groups.JoinGroup(ctx, group.MemberCode, member.ID); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}

	start := time.Now().Add(time.Hour)
	event, err := svc.CreateEvent(ctx, group.ID, "Doomed", "", start, start.Add(time.Hour), owner.ID)
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	t.Run("non-owner may not delete", func(t *testing.T) {
		err := svc.DeleteEvent(ctx, event.ID, member.ID)
		var authz *models.AuthorizationError
		if !errors.As(err, &authz) {
			t.Fatalf("expected AuthorizationError, got %v", err)
		}
	})

	t.Run("owner deletes", func(t *testing.T) {
		if err := svc.DeleteEvent(ctx, event.ID, owner.ID); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		var notFound *models.NotFoundError
		if err := svc.DeleteEvent(ctx, event.ID, owner.ID); !errors.As(err, &notFound) {
			t.Errorf("expected NotFoundError on second delete, got %v", err)
		}
	})
}
