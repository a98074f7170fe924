package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kjkhy9/perfectplan/internal/models"
)

// CreatePoll persists a new poll and its options in one transaction.
func (s *SQLiteStore) CreatePoll(ctx context.Context, poll *models.Poll) error {
	if poll.ID == "" {
		poll.ID = uuid.New().String()
	}
	if poll.CreatedAt == 0 {
		poll.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO polls (id, group_id, question, created_by, is_closed, created_at) VALUES (?, ?, ?, ?, 0, ?)",
		poll.ID, poll.GroupID, poll.Question, poll.CreatedBy, poll.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	for i := range poll.Options {
		opt := &poll.Options[i]
		if opt.ID == "" {
			opt.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO poll_options (id, poll_id, date, start_time, end_time, position) VALUES (?, ?, ?, ?, ?, ?)",
			opt.ID, poll.ID, opt.Date, opt.StartTime, opt.EndTime, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert poll option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPoll retrieves a poll by ID, including options and their vote sets.
func (s *SQLiteStore) GetPoll(ctx context.Context, pollID string) (*models.Poll, error) {
	poll := &models.Poll{}
	var winning sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, question, created_by, is_closed, winning_option_id, created_at FROM polls WHERE id = ?",
		pollID,
	).Scan(&poll.ID, &poll.GroupID, &poll.Question, &poll.CreatedBy, &poll.IsClosed, &winning, &poll.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "poll", ID: pollID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	poll.WinningOptionID = winning.String

	if err := s.loadPollOptions(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

// loadPollOptions fills in a poll's options, in submission order, and the
// vote set of each option.
func (s *SQLiteStore) loadPollOptions(ctx context.Context, poll *models.Poll) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, start_time, end_time FROM poll_options WHERE poll_id = ? ORDER BY position",
		poll.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query poll options: %w", err)
	}
	defer rows.Close()

	poll.Options = nil
	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.Date, &opt.StartTime, &opt.EndTime); err != nil {
			return fmt.Errorf("failed to scan poll option: %w", err)
		}
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating poll options: %w", err)
	}

	voteRows, err := s.db.QueryContext(ctx,
		"SELECT option_id, user_id FROM poll_votes WHERE poll_id = ? ORDER BY user_id",
		poll.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query poll votes: %w", err)
	}
	defer voteRows.Close()

	votes := make(map[string][]string)
	for voteRows.Next() {
		var optionID, userID string
		if err := voteRows.Scan(&optionID, &userID); err != nil {
			return fmt.Errorf("failed to scan poll vote: %w", err)
		}
		votes[optionID] = append(votes[optionID], userID)
	}
	if err := voteRows.Err(); err != nil {
		return fmt.Errorf("error iterating poll votes: %w", err)
	}

	for i := range poll.Options {
		poll.Options[i].Votes = votes[poll.Options[i].ID]
	}

	return nil
}

// ListPollsByGroup returns the group's polls, newest first.
func (s *SQLiteStore) ListPollsByGroup(ctx context.Context, groupID string) ([]*models.Poll, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, group_id, question, created_by, is_closed, winning_option_id, created_at FROM polls WHERE group_id = ? ORDER BY created_at DESC, id DESC",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []*models.Poll
	for rows.Next() {
		poll := &models.Poll{}
		var winning sql.NullString
		if err := rows.Scan(&poll.ID, &poll.GroupID, &poll.Question, &poll.CreatedBy, &poll.IsClosed, &winning, &poll.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		poll.WinningOptionID = winning.String
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	for _, poll := range polls {
		if err := s.loadPollOptions(ctx, poll); err != nil {
			return nil, err
		}
	}

	return polls, nil
}

// DeletePoll deletes a poll; options and votes cascade.
func (s *SQLiteStore) DeletePoll(ctx context.Context, pollID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM polls WHERE id = ?", pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &models.NotFoundError{Entity: "poll", ID: pollID}
	}
	return nil
}

// AppendVoteIfAbsent records a vote as one atomic check-and-append.
//
// The open-poll check and the insert run in a single transaction, and the
// primary key on poll_votes (poll_id, user_id) rejects a second vote by the
// same user no matter which option it targets. Concurrent votes from the
// same user therefore resolve to exactly one success; the naive
// load-check-append-save sequence is never used.
func (s *SQLiteStore) AppendVoteIfAbsent(ctx context.Context, pollID, userID, optionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var isClosed bool
	err = tx.QueryRowContext(ctx, "SELECT is_closed FROM polls WHERE id = ?", pollID).Scan(&isClosed)
	if err == sql.ErrNoRows {
		return &models.NotFoundError{Entity: "poll", ID: pollID}
	}
	if err != nil {
		return fmt.Errorf("failed to get poll state: %w", err)
	}
	if isClosed {
		return &models.ConflictError{Reason: "poll is closed"}
	}

	var optionExists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM poll_options WHERE id = ? AND poll_id = ?)",
		optionID, pollID,
	).Scan(&optionExists)
	if err != nil {
		return fmt.Errorf("failed to check poll option: %w", err)
	}
	if !optionExists {
		return &models.NotFoundError{Entity: "poll option", ID: optionID}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO poll_votes (poll_id, user_id, option_id) VALUES (?, ?, ?)",
		pollID, userID, optionID,
	)
	if isUniqueViolation(err) {
		return &models.ConflictError{Reason: "user already voted"}
	}
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ClosePoll transitions the poll to closed, conditional on it still being
// open. The WHERE clause is the compare-and-set: zero rows affected means
// the poll was already closed (or absent, which the caller has ruled out).
func (s *SQLiteStore) ClosePoll(ctx context.Context, pollID, winningOptionID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE polls SET is_closed = 1, winning_option_id = ? WHERE id = ? AND is_closed = 0",
		winningOptionID, pollID,
	)
	if err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return &models.ConflictError{Reason: "poll is already closed"}
	}

	return nil
}
