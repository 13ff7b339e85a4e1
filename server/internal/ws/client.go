package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong before the connection counts
	// as dead. pingPeriod must stay below it.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16
)

// client is one connected WebSocket subscriber.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan []byte, sendBufSize)}
}

// enqueue queues msg without blocking and reports whether it fit.
func (c *client) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// writePump forwards queued summaries and pings to the connection until
// send is closed or a write fails.
func (c *client) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames, keeps the read deadline alive on pongs
// and returns once the connection is gone. Clients only listen.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
