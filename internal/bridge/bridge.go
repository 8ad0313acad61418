// Package bridge exposes the engine to external editor tools over a websocket. Engine
// notifications are broadcast to every client as JSON; messages from clients are queued
// and handed to the tick goroutine, which is the only place they are applied.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/event"
)

const (
	inboxSize   = 64
	sendSize    = 64
	writeWait   = 5 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = pongWait * 9 / 10
	maxReadSize = 1 << 16
)

// Message is one frame sent to clients.
type Message struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Message types.
const (
	TypeEvent  = "event"
	TypeResult = "result"
	TypeInfo   = "info"
)

type entityInfo struct {
	Type     entity.Tag `json:"type"`
	Name     string     `json:"name"`
	Position mgl32.Vec3 `json:"position"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients. Broadcast and Drain are safe to call from the tick
// goroutine while connections come and go.
type Hub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger
	inbox    chan []byte

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// New returns a hub with no clients.
func New(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     log,
		inbox:   make(chan []byte, inboxSize),
		clients: make(map[*client]struct{}),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("bridge: upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendSize)}
	h.sendTo(c, Message{Type: TypeInfo, Payload: "connected"})

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Info("bridge: client connected", "remote", conn.RemoteAddr())

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(maxReadSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("bridge: read failed", "err", err)
			}
			return
		}
		select {
		case h.inbox <- data:
		default:
			h.log.Warn("bridge: inbox full, dropping message")
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.log.Info("bridge: client disconnected", "remote", c.conn.RemoteAddr())
}

// Broadcast sends msg to every client. Slow clients miss messages rather than block.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("bridge: cannot encode message", "type", msg.Type, "name", msg.Name, "err", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) sendTo(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Forward broadcasts every notification of em except the per-tick GameTick. The returned
// func stops forwarding.
func (h *Hub) Forward(em *event.Emitter) (off func()) {
	return em.OnAll(func(ev event.Event) {
		if ev.Name == event.GameTick {
			return
		}
		h.Broadcast(Message{Type: TypeEvent, Name: string(ev.Name), Payload: describe(ev.Payload)})
	})
}

// describe turns notification payloads into JSON-friendly values.
func describe(v any) any {
	switch p := v.(type) {
	case entity.Entity:
		a := p.Base()
		return entityInfo{Type: p.Tag(), Name: a.Name(), Position: a.Position()}
	case error:
		return p.Error()
	}
	return v
}

// Drain hands every queued client message to apply and broadcasts each non-empty result.
// It never blocks; call it once per tick.
func (h *Hub) Drain(apply func(message []byte) string) int {
	n := 0
	for {
		select {
		case data := <-h.inbox:
			n++
			if res := apply(data); res != "" {
				h.Broadcast(Message{Type: TypeResult, Payload: res})
			}
		default:
			return n
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ListenAndServe serves the hub at path on addr until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	h.log.Info("bridge: listening", "addr", addr, "path", path)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		h.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
