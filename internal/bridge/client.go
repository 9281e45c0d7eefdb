package bridge

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nkarlsen/lyngctl/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Per-client send buffer; pushed events beyond this drop the client
	sendBuffer = 64
)

// client is one WebSocket connection.
//
// The send channel is never closed: the hub's broadcast and this
// client's own readPump both queue into it concurrently, so shutdown
// is signalled through done instead.
type client struct {
	srv        *Server
	conn       *websocket.Conn
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	remoteAddr string
}

// shutdown signals writePump to stop. Safe to call more than once and
// concurrently with queued sends.
func (c *client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// readPump consumes command requests from the peer until the
// connection drops
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.srv.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("WebSocket read error",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}

		var req CommandRequest
		if err := json.Unmarshal(data, &req); err != nil {
			c.reply(CommandResponse{Type: "response", Error: "invalid request: " + err.Error()})
			continue
		}
		c.handleCommand(ctx, req)
	}
}

// handleCommand runs one command against the processor and sends the
// response back to this client only
func (c *client) handleCommand(ctx context.Context, req CommandRequest) {
	if req.Command == "" {
		c.reply(CommandResponse{Type: "response", ID: req.ID, Error: "empty command"})
		return
	}

	logging.Debug("WebSocket command",
		zap.String("remote_addr", c.remoteAddr),
		zap.String("command", req.Command),
	)

	reply, err := c.srv.commander.Raw(ctx, req.Command, req.Wait)
	resp := CommandResponse{Type: "response", ID: req.ID, Reply: reply}
	if err != nil {
		resp.Error = err.Error()
	}
	c.reply(resp)
}

// reply queues a response for this client
func (c *client) reply(resp CommandResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// writePump writes queued messages and keepalive pings to the peer
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
