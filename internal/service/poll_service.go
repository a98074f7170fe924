package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kjkhy9/perfectplan/internal/consensus"
	"github.com/kjkhy9/perfectplan/internal/models"
	"github.com/kjkhy9/perfectplan/internal/storage"
)

// PollService is the consensus engine: it creates polls of proposed time
// slots, records one vote per user per poll, and closes a poll to a winning
// option.
type PollService struct {
	store storage.Store
}

// NewPollService creates a new PollService with the given storage backend.
func NewPollService(store storage.Store) *PollService {
	return &PollService{store: store}
}

// PollOptionInput is a proposed time slot as submitted by the caller.
type PollOptionInput struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// CreatePoll creates an open poll in the group. Only the group creator may
// create polls. Every option needs a valid date and a start time strictly
// before its end time; the question defaults when absent.
func (s *PollService) CreatePoll(ctx context.Context, groupID, question string, options []PollOptionInput, createdBy string) (*models.Poll, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != createdBy {
		return nil, &models.AuthorizationError{Reason: "only the group owner can create polls"}
	}

	if len(options) == 0 {
		return nil, &models.ValidationError{Reason: "at least one date option is required"}
	}
	for _, opt := range options {
		if err := validateOption(opt); err != nil {
			return nil, err
		}
	}

	if question == "" {
		question = models.DefaultPollQuestion
	}

	poll := &models.Poll{
		GroupID:   groupID,
		Question:  question,
		CreatedBy: createdBy,
	}
	for _, opt := range options {
		poll.Options = append(poll.Options, models.PollOption{
			Date:      opt.Date,
			StartTime: opt.StartTime,
			EndTime:   opt.EndTime,
		})
	}

	if err := s.store.CreatePoll(ctx, poll); err != nil {
		return nil, err
	}

	slog.Info("poll created", "poll_id", poll.ID, "group_id", groupID, "options", len(poll.Options))
	return poll, nil
}

func validateOption(opt PollOptionInput) error {
	if opt.Date == "" || opt.StartTime == "" || opt.EndTime == "" {
		return &models.ValidationError{Reason: "each option requires a date, start time and end time"}
	}
	if _, err := time.Parse("2006-01-02", opt.Date); err != nil {
		return &models.ValidationError{Reason: "option date must be in YYYY-MM-DD format"}
	}
	start, err := time.Parse("15:04", opt.StartTime)
	if err != nil {
		return &models.ValidationError{Reason: "option start time must be in HH:MM format"}
	}
	end, err := time.Parse("15:04", opt.EndTime)
	if err != nil {
		return &models.ValidationError{Reason: "option end time must be in HH:MM format"}
	}
	if !start.Before(end) {
		return &models.ValidationError{Reason: "option end time must be after start time"}
	}
	return nil
}

// Vote records the user's vote for an option. The check-and-append is a
// single atomic operation in the store, so concurrent votes by the same user
// resolve to exactly one success; the rest fail with ConflictError, as does
// any vote on a closed poll.
func (s *PollService) Vote(ctx context.Context, pollID, userID, optionID string) (*models.Poll, error) {
	if err := s.store.AppendVoteIfAbsent(ctx, pollID, userID, optionID); err != nil {
		return nil, err
	}

	slog.Info("vote recorded", "poll_id", pollID, "user_id", userID, "option_id", optionID)
	return s.store.GetPoll(ctx, pollID)
}

// ClosePoll transitions the poll to its terminal closed state, recording the
// winner: the option with the most votes, ties broken by earliest date and
// start time. Only the group creator may close. Closing twice fails with
// ConflictError, and so does every vote after the close.
func (s *PollService) ClosePoll(ctx context.Context, pollID, userID string) (*models.Poll, error) {
	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, poll.GroupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != userID {
		return nil, &models.AuthorizationError{Reason: "only the group owner can close polls"}
	}

	if poll.IsClosed {
		return nil, &models.ConflictError{Reason: "poll is already closed"}
	}

	result, err := consensus.Count(poll.Options)
	if err != nil {
		return nil, err
	}
	if err := s.store.ClosePoll(ctx, pollID, result.WinnerID); err != nil {
		return nil, err
	}

	slog.Info("poll closed", "poll_id", pollID, "winning_option_id", result.WinnerID, "votes", result.TotalVotes)
	return s.store.GetPoll(ctx, pollID)
}

// ListGroupPolls returns the group's polls, newest first.
func (s *PollService) ListGroupPolls(ctx context.Context, groupID string) ([]*models.Poll, error) {
	return s.store.ListPollsByGroup(ctx, groupID)
}

// DeletePoll deletes a poll. Only the creator of the poll's group may delete.
func (s *PollService) DeletePoll(ctx context.Context, pollID, userID string) error {
	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}

	group, err := s.store.GetGroup(ctx, poll.GroupID)
	if err != nil {
		return err
	}
	if group.CreatorID != userID {
		return &models.AuthorizationError{Reason: "only the group owner can delete polls"}
	}

	if err := s.store.DeletePoll(ctx, pollID); err != nil {
		return err
	}

	slog.Info("poll deleted", "poll_id", pollID, "group_id", poll.GroupID)
	return nil
}
