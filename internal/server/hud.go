package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// HUDHandler broadcasts the decision loop's per-tick output to HUD
// clients via WebSocket. The decision loop pushes into Update; a
// background ticker fans the latest state out at a display rate, so a
// slow client never backs up the control path.
type HUDHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex

	latestMu sync.Mutex
	latest   *app.FrameEvent
}

// NewHUDHandler creates a HUDHandler and starts its broadcast loop.
func NewHUDHandler() *HUDHandler {
	h := &HUDHandler{
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// Update records the newest frame event. Safe to call from the
// decision goroutine every tick; unsent states are simply replaced.
func (h *HUDHandler) Update(ev app.FrameEvent) {
	h.latestMu.Lock()
	h.latest = &ev
	h.latestMu.Unlock()
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *HUDHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends the latest frame event to all connected clients.
func (h *HUDHandler) broadcast() {
	ticker := time.NewTicker(33 * time.Millisecond) // ~30 FPS
	defer ticker.Stop()

	var lastSent int64

	for range ticker.C {
		h.mu.RLock()
		empty := len(h.clients) == 0
		h.mu.RUnlock()
		if empty {
			continue
		}

		h.latestMu.Lock()
		ev := h.latest
		h.latestMu.Unlock()
		if ev == nil || ev.Timestamp == lastSent {
			continue
		}
		lastSent = ev.Timestamp

		msg, err := json.Marshal(ev)
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
