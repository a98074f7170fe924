package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kjkhy9/perfectplan/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()

	user := models.NewUser(username, "not-a-real-hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

func createTestGroup(t *testing.T, store *SQLiteStore, name, creatorID string) *models.Group {
	t.Helper()

	group := &models.Group{
		Name:       name,
		MemberCode: "M" + name,
		GuestCode:  "G" + name,
		CreatorID:  creatorID,
		Members:    []string{creatorID},
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup(%s) failed: %v", name, err)
	}
	return group
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser and lookups", func(t *testing.T) {
		user := createTestUser(t, store, "alice")

		byName, err := store.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if byName.ID != user.ID {
			t.Errorf("ID mismatch: got %s, want %s", byName.ID, user.ID)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Username != "alice" {
			t.Errorf("Username mismatch: got %s, want alice", byID.Username)
		}
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		createTestUser(t, store, "bob")

		err := store.CreateUser(ctx, models.NewUser("bob", "hash"))
		var conflict *models.ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "no-such-id")
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("GetUsersByIDs omits unknown IDs", func(t *testing.T) {
		carol := createTestUser(t, store, "carol")

		users, err := store.GetUsersByIDs(ctx, []string{carol.ID, "no-such-id"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 1 {
			t.Fatalf("expected 1 user, got %d", len(users))
		}
		if users[carol.ID].Username != "carol" {
			t.Errorf("Username mismatch: got %s, want carol", users[carol.ID].Username)
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner")
	member := createTestUser(t, store, "member")
	guest := createTestUser(t, store, "guest")

	t.Run("CreateGroup persists creator as member", func(t *testing.T) {
		group := createTestGroup(t, store, "trip", owner.ID)

		if group.ID == "" {
			t.Error("expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if !got.HasMember(owner.ID) {
			t.Error("creator should be in the member set")
		}
	})

	t.Run("invite code collision is a conflict", func(t *testing.T) {
		createTestGroup(t, store, "dup", owner.ID)

		err := store.CreateGroup(ctx, &models.Group{
			Name:       "other",
			MemberCode: "Mdup",
			GuestCode:  "Gother",
			CreatorID:  owner.ID,
			Members:    []string{owner.ID},
		})
		var conflict *models.ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
	})

	t.Run("GetGroupByCode resolves both codes", func(t *testing.T) {
		group := createTestGroup(t, store, "codes", owner.ID)

		byMember, err := store.GetGroupByCode(ctx, group.MemberCode)
		if err != nil {
			t.Fatalf("GetGroupByCode(member) failed: %v", err)
		}
		byGuest, err := store.GetGroupByCode(ctx, group.GuestCode)
		if err != nil {
			t.Fatalf("GetGroupByCode(guest) failed: %v", err)
		}
		if byMember.ID != group.ID || byGuest.ID != group.ID {
			t.Error("both codes should resolve to the same group")
		}

		_, err = store.GetGroupByCode(ctx, "ZZZZZZ")
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError for unknown code, got %v", err)
		}
	})

	t.Run("membership mutations are idempotent", func(t *testing.T) {
		group := createTestGroup(t, store, "members", owner.ID)

		for i := 0; i < 2; i++ {
			if err := store.AddGroupMember(ctx, group.ID, member.ID); err != nil {
				t.Fatalf("AddGroupMember failed: %v", err)
			}
			if err := store.AddGroupGuest(ctx, group.ID, guest.ID); err != nil {
				t.Fatalf("AddGroupGuest failed: %v", err)
			}
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 2 {
			t.Errorf("expected 2 members, got %d", len(got.Members))
		}
		if len(got.Guests) != 1 {
			t.Errorf("expected 1 guest, got %d", len(got.Guests))
		}

		if err := store.RemoveGroupUser(ctx, group.ID, member.ID); err != nil {
			t.Fatalf("RemoveGroupUser failed: %v", err)
		}
		got, err = store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.HasMember(member.ID) {
			t.Error("member should have been removed")
		}
	})

	t.Run("listings split by relationship", func(t *testing.T) {
		group := createTestGroup(t, store, "lists", owner.ID)
		if err := store.AddGroupMember(ctx, group.ID, member.ID); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if err := store.AddGroupGuest(ctx, group.ID, guest.ID); err != nil {
			t.Fatalf("AddGroupGuest failed: %v", err)
		}

		created, err := store.ListGroupsByCreator(ctx, owner.ID)
		if err != nil {
			t.Fatalf("ListGroupsByCreator failed: %v", err)
		}
		if len(created) == 0 {
			t.Error("expected owner to have created groups")
		}

		joined, err := store.ListGroupsByMember(ctx, member.ID)
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(joined) != 1 || joined[0].ID != group.ID {
			t.Errorf("expected member to be in exactly group %s", group.ID)
		}

		guesting, err := store.ListGroupsByGuest(ctx, guest.ID)
		if err != nil {
			t.Fatalf("ListGroupsByGuest failed: %v", err)
		}
		if len(guesting) != 1 || guesting[0].ID != group.ID {
			t.Errorf("expected guest to be in exactly group %s", group.ID)
		}
	})

	t.Run("DeleteGroup cascades to everything it owns", func(t *testing.T) {
		group := createTestGroup(t, store, "cascade", owner.ID)

		event := &models.Event{
			GroupID:   group.ID,
			Title:     "kickoff",
			StartTime: time.Now().Add(time.Hour),
			EndTime:   time.Now().Add(2 * time.Hour),
			CreatedBy: owner.ID,
		}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		poll := &models.Poll{
			GroupID:   group.ID,
			Question:  "when",
			CreatedBy: owner.ID,
			Options:   []models.PollOption{{Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"}},
		}
		if err := store.CreatePoll(ctx, poll); err != nil {
			t.Fatalf("CreatePoll failed: %v", err)
		}
		if err := store.AppendVoteIfAbsent(ctx, poll.ID, owner.ID, poll.Options[0].ID); err != nil {
			t.Fatalf("AppendVoteIfAbsent failed: %v", err)
		}

		msg := &models.Message{GroupID: group.ID, SenderID: owner.ID, Text: "hello"}
		if err := store.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}

		var notFound *models.NotFoundError
		if _, err := store.GetGroup(ctx, group.ID); !errors.As(err, &notFound) {
			t.Errorf("expected group to be gone, got %v", err)
		}
		if _, err := store.GetEvent(ctx, event.ID); !errors.As(err, &notFound) {
			t.Errorf("expected event to be gone, got %v", err)
		}
		if _, err := store.GetPoll(ctx, poll.ID); !errors.As(err, &notFound) {
			t.Errorf("expected poll to be gone, got %v", err)
		}
		messages, err := store.ListMessagesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMessagesByGroup failed: %v", err)
		}
		if len(messages) != 0 {
			t.Errorf("expected no messages after cascade, got %d", len(messages))
		}
	})
}

func TestEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner")
	group := createTestGroup(t, store, "events", owner.ID)

	mkEvent := func(title string, start time.Time) *models.Event {
		t.Helper()
		event := &models.Event{
			GroupID:   group.ID,
			Title:     title,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			CreatedBy: owner.ID,
		}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent(%s) failed: %v", title, err)
		}
		return event
	}

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	later := mkEvent("later", base.Add(24*time.Hour))
	earlier := mkEvent("earlier", base)

	t.Run("round trip preserves times", func(t *testing.T) {
		got, err := store.GetEvent(ctx, earlier.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if !got.StartTime.Equal(base) {
			t.Errorf("StartTime mismatch: got %v, want %v", got.StartTime, base)
		}
		if got.Title != "earlier" {
			t.Errorf("Title mismatch: got %s", got.Title)
		}
	})

	t.Run("listing is ascending by start time", func(t *testing.T) {
		events, err := store.ListEventsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListEventsByGroup failed: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[0].ID != earlier.ID || events[1].ID != later.ID {
			t.Error("events not ordered by start time")
		}
	})

	t.Run("ListEventsByGroups with no groups is empty", func(t *testing.T) {
		events, err := store.ListEventsByGroups(ctx, nil)
		if err != nil {
			t.Fatalf("ListEventsByGroups failed: %v", err)
		}
		if len(events) != 0 {
			t.Errorf("expected no events, got %d", len(events))
		}
	})

	t.Run("DeleteEvent removes the event", func(t *testing.T) {
		if err := store.DeleteEvent(ctx, later.ID); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		var notFound *models.NotFoundError
		if _, err := store.GetEvent(ctx, later.ID); !errors.As(err, &notFound) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

func TestPolls(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner")
	voter := createTestUser(t, store, "voter")
	group := createTestGroup(t, store, "polls", owner.ID)

	mkPoll := func() *models.Poll {
		t.Helper()
		poll := &models.Poll{
			GroupID:   group.ID,
			Question:  "when do we meet",
			CreatedBy: owner.ID,
			Options: []models.PollOption{
				{Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"},
				{Date: "2026-09-02", StartTime: "14:00", EndTime: "15:00"},
			},
		}
		if err := store.CreatePoll(ctx, poll); err != nil {
			t.Fatalf("CreatePoll failed: %v", err)
		}
		return poll
	}

	t.Run("CreatePoll assigns IDs and preserves option order", func(t *testing.T) {
		poll := mkPoll()
		if poll.ID == "" {
			t.Error("expected poll ID to be generated")
		}

		got, err := store.GetPoll(ctx, poll.ID)
		if err != nil {
			t.Fatalf("GetPoll failed: %v", err)
		}
		if got.IsClosed {
			t.Error("new poll should be open")
		}
		if len(got.Options) != 2 {
			t.Fatalf("expected 2 options, got %d", len(got.Options))
		}
		if got.Options[0].Date != "2026-09-01" || got.Options[1].Date != "2026-09-02" {
			t.Error("options not in submission order")
		}
	})

	t.Run("one vote per user per poll", func(t *testing.T) {
		poll := mkPoll()

		if err := store.AppendVoteIfAbsent(ctx, poll.ID, voter.ID, poll.Options[0].ID); err != nil {
			t.Fatalf("first vote failed: %v", err)
		}

		// Same option again and the other option both conflict.
		var conflict *models.ConflictError
		if err := store.AppendVoteIfAbsent(ctx, poll.ID, voter.ID, poll.Options[0].ID); !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError for repeat vote, got %v", err)
		}
		if err := store.AppendVoteIfAbsent(ctx, poll.ID, voter.ID, poll.Options[1].ID); !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError for switching vote, got %v", err)
		}

		got, err := store.GetPoll(ctx, poll.ID)
		if err != nil {
			t.Fatalf("GetPoll failed: %v", err)
		}
		if got.VotedOption(voter.ID) != poll.Options[0].ID {
			t.Error("vote should be on the first option only")
		}
	})

	t.Run("voting on missing poll or option is not found", func(t *testing.T) {
		poll := mkPoll()

		var notFound *models.NotFoundError
		if err := store.AppendVoteIfAbsent(ctx, "no-such-poll", voter.ID, poll.Options[0].ID); !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError for missing poll, got %v", err)
		}
		if err := store.AppendVoteIfAbsent(ctx, poll.ID, voter.ID, "no-such-option"); !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError for missing option, got %v", err)
		}
	})

	t.Run("concurrent votes by one user resolve to one success", func(t *testing.T) {
		poll := mkPoll()
		racer := createTestUser(t, store, "racer")

		const attempts = 10
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = store.AppendVoteIfAbsent(ctx, poll.ID, racer.ID, poll.Options[i%2].ID)
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			var conflict *models.ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("unexpected error kind: %v", err)
			}
		}
		if successes != 1 {
			t.Fatalf("expected exactly 1 successful vote, got %d", successes)
		}
	})

	t.Run("ClosePoll is a one-way transition", func(t *testing.T) {
		poll := mkPoll()
		winner := poll.Options[1].ID

		if err := store.ClosePoll(ctx, poll.ID, winner); err != nil {
			t.Fatalf("ClosePoll failed: %v", err)
		}

		got, err := store.GetPoll(ctx, poll.ID)
		if err != nil {
			t.Fatalf("GetPoll failed: %v", err)
		}
		if !got.IsClosed {
			t.Error("poll should be closed")
		}
		if got.WinningOptionID != winner {
			t.Errorf("WinningOptionID mismatch: got %s, want %s", got.WinningOptionID, winner)
		}

		var conflict *models.ConflictError
		if err := store.ClosePoll(ctx, poll.ID, winner); !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError on second close, got %v", err)
		}

		// Vote after close is rejected, state unchanged.
		if err := store.AppendVoteIfAbsent(ctx, poll.ID, voter.ID, poll.Options[0].ID); !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError voting on closed poll, got %v", err)
		}
	})

	t.Run("ListPollsByGroup is newest first", func(t *testing.T) {
		polls, err := store.ListPollsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListPollsByGroup failed: %v", err)
		}
		if len(polls) < 2 {
			t.Fatalf("expected several polls, got %d", len(polls))
		}
		for i := 1; i < len(polls); i++ {
			if polls[i-1].CreatedAt < polls[i].CreatedAt {
				t.Fatal("polls not ordered newest first")
			}
		}
	})

	t.Run("DeletePoll removes poll and votes", func(t *testing.T) {
		poll := mkPoll()
		if err := store.AppendVoteIfAbsent(ctx, poll.ID, owner.ID, poll.Options[0].ID); err != nil {
			t.Fatalf("AppendVoteIfAbsent failed: %v", err)
		}
		if err := store.DeletePoll(ctx, poll.ID); err != nil {
			t.Fatalf("DeletePoll failed: %v", err)
		}
		var notFound *models.NotFoundError
		if _, err := store.GetPoll(ctx, poll.ID); !errors.As(err, &notFound) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

func TestMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner")
	group := createTestGroup(t, store, "chat", owner.ID)

	now := time.Now().Unix()
	first := &models.Message{GroupID: group.ID, SenderID: owner.ID, Text: "first", CreatedAt: now - 1}
	if err := store.CreateMessage(ctx, first); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	second := &models.Message{GroupID: group.ID, SenderID: owner.ID, Text: "second", CreatedAt: now}
	if err := store.CreateMessage(ctx, second); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	messages, err := store.ListMessagesByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListMessagesByGroup failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != "first" || messages[1].Text != "second" {
		t.Error("messages not in send order")
	}
	if messages[0].PollID != "" {
		t.Errorf("expected empty PollID, got %q", messages[0].PollID)
	}
}
