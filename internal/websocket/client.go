package websocket

import (
	"context"
	"log"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/google/uuid"
)

const (
	// Maximum time to wait for a pong from the client
	pongWait = 60 * time.Second

	// Ping the client at this interval
	pingPeriod = (pongWait * 9) / 10

	writeWait = 10 * time.Second

	// Maximum frame size accepted from a client
	maxMessageSize = 512 * 1024

	// Outgoing message buffer size
	sendBufferSize = 256
)

// Client is a single WebSocket connection. Connections that arrive without a
// userId are served but never registered: they can send and receive the
// direct echo, but are unreachable as a delivery target.
type Client struct {
	ID         uuid.UUID
	UserID     int64
	conn       *websocket.Conn
	send       chan []byte
	registry   *Manager
	dispatcher *Dispatcher
	closeChan  chan struct{}
}

// NewClient wraps an upgraded connection.
func NewClient(userID int64, conn *websocket.Conn, registry *Manager, dispatcher *Dispatcher) *Client {
	return &Client{
		ID:         uuid.New(),
		UserID:     userID,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		registry:   registry,
		dispatcher: dispatcher,
		closeChan:  make(chan struct{}),
	}
}

// Deliver enqueues a payload for the write pump without blocking.
func (c *Client) Deliver(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Run registers the client and pumps the connection until it closes. It
// blocks for the lifetime of the connection, which is what the fasthttp
// upgrade handler expects.
func (c *Client) Run() {
	c.registry.Register(c.UserID, c.ID, c)
	go c.writePump()
	c.readPump()
}

// readPump reads frames sequentially, preserving per-connection message
// order, and hands each one to the dispatcher.
func (c *Client) readPump() {
	defer func() {
		c.registry.Unregister(c.UserID, c.ID)
		c.conn.Close()
		close(c.closeChan)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("websocket: unexpected close: %v", err)
			}
			break
		}
		c.dispatcher.HandleIncoming(context.Background(), c, message)
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("websocket: write failed: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closeChan:
			return
		}
	}
}
