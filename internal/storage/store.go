// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/kjkhy9/perfectplan/internal/models"
)

// Store defines the interface for persistence of all domain entities.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Lookup methods return *models.NotFoundError when the entity is absent.
// Single-entity writes are atomic; no cross-entity transaction guarantee is
// assumed beyond that, except where a method documents otherwise.
type Store interface {
	// CreateUser persists a new user. Returns *models.ConflictError if the
	// username is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by their unique handle.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. IDs with no
	// matching user are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateGroup persists a new group together with its initial member
	// set in one transaction. The group.ID field is populated by the
	// store. Returns *models.ConflictError if either invite code collides
	// with an existing group.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, including its member and guest sets.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByCode retrieves the group whose member or guest invite code
	// equals code.
	GetGroupByCode(ctx context.Context, code string) (*models.Group, error)

	// AddGroupMember idempotently adds the user to the group's member set.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// AddGroupGuest idempotently adds the user to the group's guest set.
	AddGroupGuest(ctx context.Context, groupID, userID string) error

	// RemoveGroupUser removes the user from both the member and guest sets.
	RemoveGroupUser(ctx context.Context, groupID, userID string) error

	// DeleteGroup deletes a group. Its events, polls, votes and messages
	// are cascade-deleted.
	DeleteGroup(ctx context.Context, groupID string) error

	// ListGroupsByCreator returns groups created by the user.
	ListGroupsByCreator(ctx context.Context, userID string) ([]*models.Group, error)

	// ListGroupsByMember returns groups whose member set contains the user
	// (including groups the user created).
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// ListGroupsByGuest returns groups whose guest set contains the user.
	ListGroupsByGuest(ctx context.Context, userID string) ([]*models.Group, error)

	// CreateEvent persists a new event. The event.ID field is populated by
	// the store.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by ID.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// DeleteEvent deletes an event by ID.
	DeleteEvent(ctx context.Context, eventID string) error

	// ListEventsByGroup returns the group's events ascending by start time.
	ListEventsByGroup(ctx context.Context, groupID string) ([]*models.Event, error)

	// ListEventsByGroups returns events across the given groups, ascending
	// by start time.
	ListEventsByGroups(ctx context.Context, groupIDs []string) ([]*models.Event, error)

	// CreatePoll persists a new poll and its options in one transaction.
	// Poll and option IDs are populated by the store.
	CreatePoll(ctx context.Context, poll *models.Poll) error

	// GetPoll retrieves a poll by ID, including options and their vote sets.
	GetPoll(ctx context.Context, pollID string) (*models.Poll, error)

	// ListPollsByGroup returns the group's polls, newest first.
	ListPollsByGroup(ctx context.Context, groupID string) ([]*models.Poll, error)

	// DeletePoll deletes a poll and its options and votes.
	DeletePoll(ctx context.Context, pollID string) error

	// AppendVoteIfAbsent records the user's vote for an option as one
	// atomic, isolated check-and-append. It fails with
	// *models.ConflictError if the poll is closed or the user already
	// voted for any option of this poll, and with *models.NotFoundError if
	// the poll or option is absent. Two concurrent calls for the same
	// (poll, user) pair never both succeed.
	AppendVoteIfAbsent(ctx context.Context, pollID, userID, optionID string) error

	// ClosePoll transitions the poll from open to closed, recording the
	// winning option. The transition is conditional on the poll still
	// being open; *models.ConflictError is returned if it was already
	// closed.
	ClosePoll(ctx context.Context, pollID, winningOptionID string) error

	// CreateMessage appends a chat message. The message.ID field is
	// populated by the store.
	CreateMessage(ctx context.Context, msg *models.Message) error

	// ListMessagesByGroup returns the group's messages ascending by
	// creation time.
	ListMessagesByGroup(ctx context.Context, groupID string) ([]*models.Message, error)

	// Close releases any resources held by the store.
	Close() error
}
