// Package diag broadcasts receive-chain diagnostics (correlator peaks,
// decoded frames, pause/resume transitions) to connected websocket
// clients, for offline visualisation and debugging.
package diag

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is one broadcast event: {"type": "peak"|"frame"|"pause"|"resume", ...}.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// PeakPayload reports one underlay correlator peak.
type PeakPayload struct {
	Offset int     `json:"offset"`
	Coeff  float64 `json:"coeff"`
	Bit    int     `json:"bit"`
}

// FramePayload reports one decoded frame.
type FramePayload struct {
	Length int `json:"length"`
}

// Hub fans out diagnostic events to every connected websocket client.
type Hub struct {
	log     zerolog.Logger
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewHub builds an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:     log.With().Str("component", "diag_hub").Logger(),
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the request to a websocket connection and registers
// it as a broadcast client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.addClient(conn)

	go func() {
		defer h.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) addClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	h.log.Debug().Int("clients", len(h.clients)).Msg("diagnostic client connected")
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
	h.log.Debug().Int("clients", len(h.clients)).Msg("diagnostic client disconnected")
}

// Broadcast sends msg to every connected client, dropping any that error.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Msg("diagnostic message marshal failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			go h.removeClient(conn)
		}
	}
}

// Peak broadcasts one underlay correlator peak detection.
func (h *Hub) Peak(offset int, coeff float64, bit int) {
	h.Broadcast(Message{Type: "peak", Payload: PeakPayload{Offset: offset, Coeff: coeff, Bit: bit}})
}

// Frame broadcasts one decoded frame's length.
func (h *Hub) Frame(length int) {
	h.Broadcast(Message{Type: "frame", Payload: FramePayload{Length: length}})
}

// Pause broadcasts a receiver pause transition.
func (h *Hub) Pause() { h.Broadcast(Message{Type: "pause"}) }

// Resume broadcasts a receiver resume transition.
func (h *Hub) Resume() { h.Broadcast(Message{Type: "resume"}) }
