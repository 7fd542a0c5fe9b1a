// Package hub fans realtime events out to every connected websocket client.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/realtime"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
	maxFrameSize = 64 << 10
)

// Publisher is what services use to announce changes.
type Publisher interface {
	Publish(ev realtime.Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(realtime.Event) {}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

type Hub struct {
	log      logging.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

func New(log logging.Logger) *Hub {
	if log == nil {
		log = logging.Nop()
	}
	return &Hub{
		log: log.With("module", "hub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Publish encodes ev once and queues it for every client. A client whose
// queue is full is dropped.
func (h *Hub) Publish(ev realtime.Event) {
	f, err := realtime.Encode(ev)
	if err != nil {
		h.log.Error(context.Background(), "encode event", "event", ev.Name(), "error", err)
		return
	}
	payload, err := json.Marshal(f)
	if err != nil {
		h.log.Error(context.Background(), "marshal frame", "event", ev.Name(), "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.log.Warn(context.Background(), "dropping slow client", "user_id", c.userID)
			h.removeLocked(c)
		}
	}
}

// Count is the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request and blocks until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), userID: userID}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return conn.Close()
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	ctx := r.Context()
	h.log.Info(ctx, "client connected", "user_id", userID)

	go h.writeLoop(c)
	h.readLoop(ctx, c)

	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
	h.log.Info(ctx, "client disconnected", "user_id", userID)
	return nil
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	c.conn.SetReadLimit(maxFrameSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var f realtime.Frame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		if f.Event == realtime.EventJoin {
			var join struct {
				UserID string `json:"userId"`
			}
			_ = json.Unmarshal(f.Data, &join)
			h.log.Debug(ctx, "join", "user_id", c.userID, "claimed", join.UserID)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// removeLocked closes the client's queue, which ends its write loop and
// the connection with it.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}
