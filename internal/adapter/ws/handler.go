// Package ws pushes daemon events to connected dashboards over WebSocket.
// Clients only listen; every message originates server side.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/devdeck/devdeck/internal/adapter/otel"
)

// writeTimeout bounds a single frame write so one stalled client cannot
// hold up a broadcast.
const writeTimeout = 5 * time.Second

// Message is the wire envelope. Payload stays raw so the hub never decodes
// what it merely forwards.
type Message struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// conn pairs a socket with the context that keeps it alive.
type conn struct {
	ws     *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

// Hub tracks live connections and fans messages out to them.
type Hub struct {
	mu      sync.RWMutex
	conns   map[*conn]struct{}
	metrics *otel.Metrics
}

// NewHub returns an empty hub. metrics may be nil.
func NewHub(metrics *otel.Metrics) *Hub {
	return &Hub{
		conns:   make(map[*conn]struct{}),
		metrics: metrics,
	}
}

// HandleWS upgrades the request and registers the connection. The socket
// lives until the client goes away or the hub sheds it.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origin is enforced by the CORS middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}

	// The request context is canceled as soon as this handler returns, even
	// on a hijacked connection; the hub owns the connection lifetime instead.
	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{ws: sock, ctx: ctx, cancel: cancel}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.AddWSClient(ctx, 1)

	slog.Info("websocket connected", "remote", r.RemoteAddr)

	// Clients never send application data; the read loop exists to notice
	// disconnects and answer control frames.
	go func() {
		defer func() {
			h.remove(c)
			_ = sock.Close(websocket.StatusNormalClosure, "")
		}()
		for {
			if _, _, err := sock.Read(ctx); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends msg to every connection. Each write runs against the
// connection's own context, so neither the caller's deadline nor one dead
// client takes the rest of the room down.
func (h *Hub) Broadcast(_ context.Context, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		wctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
		err := c.ws.Write(wctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			slog.Debug("websocket write failed", "error", err)
			h.remove(c)
		}
	}
}

// ConnectionCount reports how many clients are attached.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[c]; ok {
		c.cancel()
		delete(h.conns, c)
		h.metrics.AddWSClient(context.Background(), -1)
		slog.Info("websocket disconnected")
	}
}
