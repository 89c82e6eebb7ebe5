package render

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client is one websocket connection. Each queued item is a batch of
// messages written back to back.
type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan [][]byte
	format Format
	id     string
	remote string
}

func newClient(hub *Hub, conn *websocket.Conn, format Format, remote string) *client {
	return &client{
		hub:    hub,
		conn:   conn,
		send:   make(chan [][]byte, sendBufferSize),
		format: format,
		id:     uuid.New().String(),
		remote: remote,
	}
}

// offer queues msgs without blocking and reports whether there was room.
func (c *client) offer(msgs ...[]byte) bool {
	select {
	case c.send <- msgs:
		return true
	default:
		return false
	}
}

// readPump discards client messages and keeps the read deadline moving on
// pongs. It unregisters the client when the connection fails.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("websocket read", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
	}
}

// writePump writes queued messages and pings until the hub closes send.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case batch, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			for _, msg := range batch {
				if err := c.conn.WriteMessage(c.format.MessageType(), msg); err != nil {
					return
				}
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
