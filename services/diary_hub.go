package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/JohnZolton/Zynq/models"
)

// Event kinds pushed to connected presentation clients.
const (
	EventEntryLogged  = "entry.logged"
	EventEntryUpdated = "entry.updated"
	EventEntryDeleted = "entry.deleted"
	EventDateChanged  = "date.changed"
)

// DiaryEvent is one diary mutation broadcast over the websocket feed.
type DiaryEvent struct {
	Kind    string           `json:"kind"`
	Date    string           `json:"date,omitempty"`
	Entry   *models.LogEntry `json:"entry,omitempty"`
	EntryID int64            `json:"entry_id,omitempty"`
}

// DiaryHub fans diary events out to every connected client.
type DiaryHub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
}

func NewDiaryHub() *DiaryHub {
	return &DiaryHub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *DiaryHub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *DiaryHub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *DiaryHub) Broadcast(ev DiaryEvent) {
	msg, _ := json.Marshal(ev)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		_ = conn.WriteMessage(websocket.TextMessage, msg)
	}
}
