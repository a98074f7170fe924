package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead; pings go out at pingPeriod to keep it alive.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 16 * 1024

	// sendBufferSize is the per-client outbound queue. When it fills, the
	// client starts losing payloads rather than stalling the hub.
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The HTTP layer has its own CORS policy; the relay carries no
	// authoritative state, so cross-origin sockets are acceptable.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket subscription to one channel.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	channel string
	userID  string
	send    chan []byte
}

// ServeWS upgrades the request to a websocket and subscribes it to the
// channel, blocking until the connection goes away. The caller has already
// authenticated userID and chosen the channel.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, channel, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &Client{
		hub:     hub,
		conn:    conn,
		channel: channel,
		userID:  userID,
		send:    make(chan []byte, sendBufferSize),
	}

	if !hub.subscribe(c) {
		conn.Close()
		return
	}
	slog.Info("client subscribed", "channel", channel, "user_id", userID)

	go c.writePump()
	c.readPump()
}

// readPump relays every well-formed envelope from this client to the other
// subscribers of its channel. Runs on the request goroutine; returning
// unsubscribes the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unsubscribe(c)
		c.conn.Close()
		slog.Info("client unsubscribed", "channel", c.channel, "user_id", c.userID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "channel", c.channel, "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || !validType(env.Type) {
			// Malformed or unknown payloads are dropped, not fatal.
			slog.Warn("ignoring malformed relay payload", "channel", c.channel)
			continue
		}

		c.hub.metrics.PayloadRelayed(env.Type)
		c.hub.Publish(c.channel, c, data)
	}
}

// writePump drains the send queue onto the socket and keeps the connection
// alive with pings. Exits when the hub closes the send channel or a write
// fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
