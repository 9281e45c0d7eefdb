package bridge

import (
	"sync"

	"github.com/nkarlsen/lyngctl/internal/logging"
	"go.uber.org/zap"
)

// hub tracks connected WebSocket clients and fans events out to them
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub() *hub {
	return &hub{
		clients: make(map[*client]struct{}),
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	logging.Info("WebSocket client connected",
		zap.String("remote_addr", c.remoteAddr),
		zap.Int("clients", count),
	)
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, present := h.clients[c]
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	if present {
		c.shutdown()
		logging.Info("WebSocket client disconnected",
			zap.String("remote_addr", c.remoteAddr),
			zap.Int("clients", count),
		)
	}
}

// broadcast queues a message for every client. A client whose send
// buffer is full is dropped; a stalled consumer must not block the
// processor's update stream.
func (h *hub) broadcast(message []byte) {
	h.mu.Lock()
	var stalled []*client
	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.Unlock()

	for _, c := range stalled {
		logging.Warn("Dropping stalled WebSocket client",
			zap.String("remote_addr", c.remoteAddr),
		)
		h.remove(c)
		c.conn.Close()
	}
}

// closeAll disconnects every client
func (h *hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
		c.conn.Close()
	}
}
