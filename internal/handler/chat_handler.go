package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kjkhy9/perfectplan/internal/middleware"
	"github.com/kjkhy9/perfectplan/internal/service"
)

// ChatHandler serves message history endpoints. Live delivery goes through
// the relay; this is the persistence path.
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type sendMessageRequest struct {
	GroupID string `json:"groupId"`
	Text    string `json:"text"`
	PollID  string `json:"pollId,omitempty"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), req.GroupID, userID, req.Text, req.PollID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatService.ListGroupMessages(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
