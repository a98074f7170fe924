package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kjkhy9/perfectplan/internal/middleware"
	"github.com/kjkhy9/perfectplan/internal/service"
)

// PollHandler serves poll lifecycle and voting endpoints.
type PollHandler struct {
	pollService *service.PollService
}

func NewPollHandler(pollService *service.PollService) *PollHandler {
	return &PollHandler{pollService: pollService}
}

type createPollRequest struct {
	GroupID  string                    `json:"groupId"`
	Question string                    `json:"question"`
	Options  []service.PollOptionInput `json:"options"`
}

type voteRequest struct {
	PollID   string `json:"pollId"`
	OptionID string `json:"optionId"`
}

func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req createPollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	poll, err := h.pollService.CreatePoll(r.Context(), req.GroupID, req.Question, req.Options, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	poll, err := h.pollService.Vote(r.Context(), req.PollID, userID, req.OptionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	poll, err := h.pollService.ClosePoll(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollService.ListGroupPolls(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.pollService.DeletePoll(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
