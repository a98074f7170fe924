package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kjkhy9/perfectplan/internal/middleware"
	"github.com/kjkhy9/perfectplan/internal/models"
	"github.com/kjkhy9/perfectplan/internal/service"
)

// EventHandler serves event scheduling endpoints.
type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type createEventRequest struct {
	GroupID     string `json:"groupId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	start, err := parseRFC3339(req.StartTime, "startTime")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseRFC3339(req.EndTime, "endTime")
	if err != nil {
		writeError(w, err)
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), req.GroupID, req.Title, req.Description, start, end, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListGroupEvents(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// ListMine returns every event across the calling user's groups.
func (h *EventHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	events, err := h.eventService.ListUserEvents(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.eventService.DeleteEvent(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func parseRFC3339(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &models.ValidationError{Reason: field + " is required"}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &models.ValidationError{Reason: field + " must be an RFC 3339 timestamp"}
	}
	return t, nil
}
