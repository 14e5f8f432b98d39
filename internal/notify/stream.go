package notify

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Consider restricting this based on your use case
	},
}

// Hub tracks live websocket subscribers and pushes every terminal result to
// all of them. Subscribers that fail a write are dropped on the spot.
type Hub struct {
	mu          sync.Mutex
	connections []*websocket.Conn
	log         *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{log: log}
}

// Upgrade promotes the HTTP request to a websocket and registers the
// connection. The connection stays open until the peer closes it.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("websocket upgrade failed: %v", err)
		return err
	}

	h.mu.Lock()
	h.connections = append(h.connections, conn)
	h.mu.Unlock()
	h.log.Debugf("websocket subscriber connected, %d active", h.Count())

	go h.reap(conn)
	return nil
}

// reap blocks on reads so peer closes are noticed and the connection is
// removed promptly.
func (h *Hub) reap(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

// Broadcast pushes v as JSON to every subscriber.
func (h *Hub) Broadcast(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	alive := h.connections[:0]
	for _, conn := range h.connections {
		if err := conn.WriteJSON(v); err != nil {
			h.log.Errorf("websocket write failed, dropping subscriber: %v", err)
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	h.connections = alive
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, c := range h.connections {
		if c == conn {
			h.connections = append(h.connections[:i], h.connections[i+1:]...)
			break
		}
	}
	conn.Close()
}
