// Package realtime carries the change feed: repositories publish an Event
// after every write, and both in-process subscribers (the prediction watcher)
// and connected websocket clients receive the events for tables they follow.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event describes a single table change. JobID is set for rows keyed to a
// job (match analyses, company research, mock sessions) so watchers can fan
// out to that job's interviews without a lookup.
type Event struct {
	Table    string `json:"table"`
	Action   string `json:"action"` // "create", "update", "delete"
	RecordID string `json:"record_id"`
	UserID   string `json:"user_id,omitempty"`
	JobID    string `json:"job_id,omitempty"`
}

type subscriber struct {
	id uuid.UUID
	fn func(Event)
}

type Hub struct {
	clients     map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	events      chan Event
	subscribers map[string][]subscriber // table -> in-process callbacks
	mu          sync.RWMutex
}

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
	tables map[string]bool
	mu     sync.RWMutex
}

// clientFrame is the inbound control message from a websocket client.
type clientFrame struct {
	Type  string `json:"type"` // "subscribe", "unsubscribe"
	Table string `json:"table"`
}

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		events:      make(chan Event, 64),
		subscribers: make(map[string][]subscriber),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Client registered", "user_id", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			slog.Info("Client unregistered", "user_id", client.UserID)

		case event := <-h.events:
			h.dispatch(event)
		}
	}
}

// Publish queues an event for delivery. Called by repositories after every
// successful write; never blocks the writer beyond the channel buffer.
func (h *Hub) Publish(event Event) {
	select {
	case h.events <- event:
	default:
		// Drop rather than stall a database write path. Watchers recover
		// on the next event for the same record.
		slog.Warn("Change feed full, dropping event", "table", event.Table, "record_id", event.RecordID)
	}
}

// Subscribe registers an in-process callback for a table's events. The
// returned cancel function removes the subscription; calling it more than
// once is safe.
func (h *Hub) Subscribe(table string, fn func(Event)) func() {
	sub := subscriber{id: uuid.New(), fn: fn}

	h.mu.Lock()
	h.subscribers[table] = append(h.subscribers[table], sub)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			subs := h.subscribers[table]
			for i, s := range subs {
				if s.id == sub.id {
					h.subscribers[table] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

func (h *Hub) dispatch(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "error", err)
		return
	}

	h.mu.RLock()
	subs := make([]subscriber, len(h.subscribers[event.Table]))
	copy(subs, h.subscribers[event.Table])

	var stale []*Client
	for client := range h.clients {
		if !client.follows(event.Table) {
			continue
		}
		if client.UserID != "" && event.UserID != "" && client.UserID != event.UserID {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	// Clients with a full send buffer are dropped under the write lock, with
	// a presence check in case the run loop unregistered them first.
	if len(stale) > 0 {
		h.mu.Lock()
		for _, client := range stale {
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
		}
		h.mu.Unlock()
	}

	// Callbacks run outside the hub lock; a slow watcher must not hold up
	// websocket delivery.
	for _, s := range subs {
		s.fn(event)
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, userID string) *Client {
	client := &Client{
		Hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
		tables: make(map[string]bool),
	}

	h.register <- client
	return client
}

func (c *Client) follows(table string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables[table]
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(messageBytes, &frame); err != nil {
			slog.Error("Failed to unmarshal client frame", "error", err)
			continue
		}

		switch frame.Type {
		case "subscribe":
			c.mu.Lock()
			c.tables[frame.Table] = true
			c.mu.Unlock()
			slog.Info("Client subscribed", "user_id", c.UserID, "table", frame.Table)
		case "unsubscribe":
			c.mu.Lock()
			delete(c.tables, frame.Table)
			c.mu.Unlock()
		default:
			slog.Warn("Unknown frame type", "type", frame.Type)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
