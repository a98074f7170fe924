package models

import "time"

// Event is a scheduled meeting within a group. Events are created by the
// group owner, never updated in place, and deleted by identifier.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string `json:"id"`

	// GroupID is the group this event belongs to.
	GroupID string `json:"groupId"`

	// Title is a short name for the event.
	Title string `json:"title"`

	// Description is optional free text.
	Description string `json:"description"`

	// StartTime and EndTime bound the event. Both are required and
	// StartTime must be strictly before EndTime.
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	// CreatedBy is the user who created the event. Always the group's
	// creator at creation time.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64 `json:"createdAt"`
}

// EventView is an event annotated with display context: the creator's handle
// and, for cross-group planner listings, the owning group's name.
type EventView struct {
	Event       *Event `json:"event"`
	CreatorName string `json:"creatorName"`
	GroupName   string `json:"groupName,omitempty"`
}
