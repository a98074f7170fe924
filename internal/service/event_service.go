package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kjkhy9/perfectplan/internal/models"
	"github.com/kjkhy9/perfectplan/internal/storage"
)

// EventService creates, lists and deletes events scoped to a group. Only
// the group's creator may create or delete.
type EventService struct {
	store storage.Store
}

// NewEventService creates a new EventService with the given storage backend.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store}
}

// CreateEvent creates an event in the group. Only the group creator may
// create events; start and end are required and start must precede end.
func (s *EventService) CreateEvent(ctx context.Context, groupID, title, description string, start, end time.Time, userID string) (*models.Event, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != userID {
		return nil, &models.AuthorizationError{Reason: "only the group owner can create events"}
	}

	if strings.TrimSpace(title) == "" {
		return nil, &models.ValidationError{Reason: "event title is required"}
	}
	if start.IsZero() || end.IsZero() {
		return nil, &models.ValidationError{Reason: "start time and end time are required"}
	}
	if !start.Before(end) {
		return nil, &models.ValidationError{Reason: "end time must be after start time"}
	}

	event := &models.Event{
		GroupID:     groupID,
		Title:       title,
		Description: description,
		StartTime:   start,
		EndTime:     end,
		CreatedBy:   userID,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	slog.Info("event created", "event_id", event.ID, "group_id", groupID)
	return event, nil
}

// ListGroupEvents returns the group's events ascending by start time, with
// the creator's display handle attached.
func (s *EventService) ListGroupEvents(ctx context.Context, groupID string) ([]*models.EventView, error) {
	events, err := s.store.ListEventsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, events, nil)
}

// ListUserEvents is the planner view: every event across every group where
// the user is a member, ascending by start time, annotated with the group's
// name.
func (s *EventService) ListUserEvents(ctx context.Context, userID string) ([]*models.EventView, error) {
	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	groupIDs := make([]string, 0, len(groups))
	groupNames := make(map[string]string, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
		groupNames[g.ID] = g.Name
	}

	events, err := s.store.ListEventsByGroups(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, events, groupNames)
}

// DeleteEvent deletes an event. The check that the caller owns the event's
// group mirrors the one on creation; deletion is no less privileged.
func (s *EventService) DeleteEvent(ctx context.Context, eventID, userID string) error {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	group, err := s.store.GetGroup(ctx, event.GroupID)
	if err != nil {
		return err
	}
	if group.CreatorID != userID {
		return &models.AuthorizationError{Reason: "only the group owner can delete events"}
	}

	if err := s.store.DeleteEvent(ctx, eventID); err != nil {
		return err
	}

	slog.Info("event deleted", "event_id", eventID, "group_id", event.GroupID)
	return nil
}

// hydrate attaches creator handles, and group names when provided, to events.
func (s *EventService) hydrate(ctx context.Context, events []*models.Event, groupNames map[string]string) ([]*models.EventView, error) {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.CreatedBy)
	}

	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*models.EventView, 0, len(events))
	for _, e := range events {
		view := &models.EventView{Event: e}
		if u, ok := users[e.CreatedBy]; ok {
			view.CreatorName = u.Username
		}
		if groupNames != nil {
			view.GroupName = groupNames[e.GroupID]
		}
		views = append(views, view)
	}

	return views, nil
}
