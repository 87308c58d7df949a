package devserver

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketvote/pollsync/internal/core/ports"
)

// hub tracks one websocket group per poll and pushes invalidation
// signals to every member, mirroring the product's per-poll channel
// groups.
type hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: map[string]map[*websocket.Conn]struct{}{},
	}
}

func (h *hub) serve(w http.ResponseWriter, r *http.Request, pollID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "poll_id", pollID, "error", err)
		return
	}

	h.mu.Lock()
	group := h.conns[pollID]
	if group == nil {
		group = map[*websocket.Conn]struct{}{}
		h.conns[pollID] = group
	}
	group[conn] = struct{}{}
	h.mu.Unlock()

	// subscribers never send anything meaningful; read until the peer
	// goes away so we notice the disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns[pollID], conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *hub) broadcast(pollID string, n ports.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[pollID] {
		if err := conn.WriteJSON(n); err != nil {
			conn.Close()
			delete(h.conns[pollID], conn)
		}
	}
}
