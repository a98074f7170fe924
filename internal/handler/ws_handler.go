package handler

import (
	"net/http"

	"github.com/kjkhy9/perfectplan/internal/middleware"
	"github.com/kjkhy9/perfectplan/internal/models"
	"github.com/kjkhy9/perfectplan/internal/relay"
)

// WSHandler attaches authenticated websocket clients to the relay hub. The
// channel is the group id; membership is not checked here, invite-code
// possession is the access boundary and the relay carries no history.
type WSHandler struct {
	hub *relay.Hub
}

func NewWSHandler(hub *relay.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	group := r.URL.Query().Get("group")
	if group == "" {
		writeError(w, &models.ValidationError{Reason: "group query parameter is required"})
		return
	}

	relay.ServeWS(h.hub, w, r, group, userID)
}
