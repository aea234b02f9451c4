package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

type WSClient struct {
	DeviceToken string
	Conn        *websocket.Conn
}

// RealtimeHub fans alert lifecycle events out to websocket clients,
// keyed by the device token they subscribed with. It complements push
// delivery so an open app sees disruption state without polling.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.DeviceToken] == nil {
		h.clients[c.DeviceToken] = make(map[*WSClient]struct{})
	}
	h.clients[c.DeviceToken][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.DeviceToken]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.DeviceToken)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastAlert sends payload to every connection subscribed with
// the given token. Write failures drop silently; the push path is the
// delivery of record.
func (h *RealtimeHub) BroadcastAlert(deviceToken string, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[deviceToken] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
