package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kjkhy9/perfectplan/internal/models"
)

// CreateEvent persists a new event to the database.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, group_id, title, description, start_time, end_time, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		event.ID, event.GroupID, event.Title, event.Description,
		event.StartTime.Unix(), event.EndTime.Unix(), event.CreatedBy, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	var start, end int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, title, description, start_time, end_time, created_by, created_at FROM events WHERE id = ?",
		eventID,
	).Scan(&event.ID, &event.GroupID, &event.Title, &event.Description, &start, &end, &event.CreatedBy, &event.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "event", ID: eventID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event.StartTime = time.Unix(start, 0).UTC()
	event.EndTime = time.Unix(end, 0).UTC()
	return event, nil
}

// DeleteEvent deletes an event by ID.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &models.NotFoundError{Entity: "event", ID: eventID}
	}
	return nil
}

// ListEventsByGroup returns the group's events ascending by start time.
func (s *SQLiteStore) ListEventsByGroup(ctx context.Context, groupID string) ([]*models.Event, error) {
	return s.listEvents(ctx,
		"SELECT id, group_id, title, description, start_time, end_time, created_by, created_at FROM events WHERE group_id = ? ORDER BY start_time, id",
		groupID,
	)
}

// ListEventsByGroups returns events across the given groups, ascending by
// start time.
func (s *SQLiteStore) ListEventsByGroups(ctx context.Context, groupIDs []string) ([]*models.Event, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	query := "SELECT id, group_id, title, description, start_time, end_time, created_by, created_at FROM events WHERE group_id IN (?" +
		repeatPlaceholder(len(groupIDs)-1) + ") ORDER BY start_time, id"

	args := make([]interface{}, len(groupIDs))
	for i, id := range groupIDs {
		args[i] = id
	}

	return s.listEvents(ctx, query, args...)
}

func (s *SQLiteStore) listEvents(ctx context.Context, query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		var start, end int64
		if err := rows.Scan(&event.ID, &event.GroupID, &event.Title, &event.Description, &start, &end, &event.CreatedBy, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.StartTime = time.Unix(start, 0).UTC()
		event.EndTime = time.Unix(end, 0).UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}
