// Package relay implements the realtime fan-out layer: one broadcast
// channel per group, distributing chat and poll notifications to every
// other connected client of that group.
//
// The relay is not a source of truth. Payloads are relayed verbatim as
// supplied by the publishing client, which is trusted to have already
// performed the authoritative mutation through the HTTP API. The relay
// keeps no history; a reconnecting client re-fetches state through the
// normal read endpoints.
package relay

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Payload kinds relayed between clients.
const (
	TypeChatMessage = "chatMessage"
	TypeNewPoll     = "newPoll"
	TypePollUpdate  = "pollUpdate"
)

// Envelope is the wire format on the websocket, both directions. Payload is
// opaque to the relay.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// validType reports whether t is one of the relayed payload kinds.
func validType(t string) bool {
	return t == TypeChatMessage || t == TypeNewPoll || t == TypePollUpdate
}

// Publisher relays a payload to every other subscriber of a channel.
// Publishing is fire-and-forget: there is no acknowledgment and no error,
// and publishing to a channel with no subscribers is a no-op. The interface
// is the trust-boundary seam: a hardening pass can wrap it with server-side
// revalidation without touching subscriber code.
type Publisher interface {
	Publish(channel string, from *Client, data []byte)
}

// Metrics receives relay instrumentation events. Implementations must be
// safe for concurrent use.
type Metrics interface {
	ConnectionOpened()
	ConnectionClosed()
	PayloadRelayed(kind string)
}

type nopMetrics struct{}

func (nopMetrics) ConnectionOpened()          {}
func (nopMetrics) ConnectionClosed()          {}
func (nopMetrics) PayloadRelayed(kind string) {}

// Hub is the per-process channel registry, keyed by group identifier. It is
// constructed at startup and passed by handle into the components that need
// it; there is no ambient global registry, so tests can run several
// isolated hubs side by side.
type Hub struct {
	metrics Metrics

	mu       sync.Mutex
	channels map[string]map[*Client]struct{}
	closed   bool
}

var _ Publisher = (*Hub)(nil)

// NewHub creates an empty hub. metrics may be nil.
func NewHub(metrics Metrics) *Hub {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Hub{
		metrics:  metrics,
		channels: make(map[string]map[*Client]struct{}),
	}
}

// subscribe registers the client on its channel.
func (h *Hub) subscribe(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	subs, ok := h.channels[c.channel]
	if !ok {
		subs = make(map[*Client]struct{})
		h.channels[c.channel] = subs
	}
	subs[c] = struct{}{}
	h.metrics.ConnectionOpened()
	return true
}

// unsubscribe removes the client; the channel entry is dropped once empty.
func (h *Hub) unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.channels[c.channel]
	if !ok {
		return
	}
	if _, ok := subs[c]; !ok {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.channels, c.channel)
	}
	close(c.send)
	h.metrics.ConnectionClosed()
}

// Publish delivers data to every current subscriber of the channel except
// the publisher itself. A subscriber whose send buffer is full is skipped;
// the relay is lossy by contract.
func (h *Hub) Publish(channel string, from *Client, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.channels[channel] {
		if c == from {
			continue
		}
		select {
		case c.send <- data:
		default:
			slog.Warn("dropping relay payload, subscriber buffer full", "channel", channel)
		}
	}
}

// SubscriberCount returns the number of clients currently subscribed to the
// channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels[channel])
}

// Close disconnects every client and rejects further subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for channel, subs := range h.channels {
		for c := range subs {
			close(c.send)
			h.metrics.ConnectionClosed()
		}
		delete(h.channels, channel)
	}
}
