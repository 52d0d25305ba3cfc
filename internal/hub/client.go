package hub

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1 << 20
)

// Client is one connected display or console. Outbound events go through a
// buffered send channel so a slow reader never blocks the hub's mutation
// path; when the buffer fills, the client is dropped and must resynchronize
// via snapshot on reconnect.
type Client struct {
	ID          string
	ConnectedAt time.Time

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger
}

func newClient(h *Hub, conn *websocket.Conn, bufferSize int) *Client {
	id := uuid.NewString()
	return &Client{
		ID:          id,
		ConnectedAt: time.Now().UTC(),
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, bufferSize),
		log:         h.log.With(slog.String("conn_id", id)),
	}
}

// enqueue hands an encoded event to the client's write pump without blocking.
// It reports false when the buffer is full; the hub drops the client then.
func (c *Client) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// readPump decodes inbound commands and dispatches them to the hub. It exits
// on the first read error, unregistering the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("client read error", slog.String("error", err.Error()))
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			c.log.Warn("malformed command ignored", slog.String("error", err.Error()))
			continue
		}
		c.hub.Dispatch(cmd, c)
	}
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
