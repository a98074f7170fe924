// Package handler wires the HTTP surface: JSON endpoints for groups,
// events, polls, and chat history, plus the websocket attach point and the
// operational endpoints.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kjkhy9/perfectplan/internal/auth"
	"github.com/kjkhy9/perfectplan/internal/metrics"
	"github.com/kjkhy9/perfectplan/internal/middleware"
	"github.com/kjkhy9/perfectplan/internal/relay"
	"github.com/kjkhy9/perfectplan/internal/service"
)

// Deps carries everything the router needs. Nil RequestObserver and
// Gatherer are allowed, which keeps tests free of metrics plumbing.
type Deps struct {
	AuthService  *service.AuthService
	GroupService *service.GroupService
	EventService *service.EventService
	PollService  *service.PollService
	ChatService  *service.ChatService
	Hub          *relay.Hub
	JWTManager   *auth.JWTManager
	Observer     middleware.RequestObserver
	Gatherer     prometheus.Gatherer
	AuthLimiter  *middleware.RateLimiter
}

// NewRouter builds the full route tree.
func NewRouter(d Deps) http.Handler {
	authHandler := NewAuthHandler(d.AuthService)
	groupHandler := NewGroupHandler(d.GroupService)
	eventHandler := NewEventHandler(d.EventService)
	pollHandler := NewPollHandler(d.PollService)
	chatHandler := NewChatHandler(d.ChatService)
	wsHandler := NewWSHandler(d.Hub)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(d.Observer))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(d.AuthLimiter.Middleware)
			}
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.JWTManager))

			r.Post("/groups", groupHandler.Create)
			r.Post("/groups/join", groupHandler.Join)
			r.Post("/groups/leave", groupHandler.Leave)
			r.Get("/groups", groupHandler.ListMine)

			r.Post("/events", eventHandler.Create)
			r.Get("/events", eventHandler.ListMine)
			r.Get("/events/group/{groupID}", eventHandler.ListByGroup)
			r.Delete("/events/{id}", eventHandler.Delete)

			r.Post("/polls", pollHandler.Create)
			r.Post("/polls/vote", pollHandler.Vote)
			r.Post("/polls/{id}/close", pollHandler.Close)
			r.Get("/polls/group/{groupID}", pollHandler.ListByGroup)
			r.Delete("/polls/{id}", pollHandler.Delete)

			r.Post("/messages", chatHandler.Send)
			r.Get("/messages/group/{groupID}", chatHandler.ListByGroup)
		})
	})

	// Websocket clients authenticate via the token query parameter.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.JWTManager))
		r.Get("/ws", wsHandler.Serve)
	})

	return r
}
