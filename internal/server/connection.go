package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection wraps a WebSocket client with buffered sends and the set of
// games it subscribed to.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	service   *GameService

	mu    sync.RWMutex
	games map[string]bool // game ids this client watches
}

// NewConnection creates a connection wrapper.
func NewConnection(conn *websocket.Conn, logger *log.Logger, service *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 64),
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
		service: service,
		games:   make(map[string]bool),
	}
}

// Start begins the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Send queues a message for the client. A full buffer drops the client
// rather than blocking the game.
func (c *Connection) Send(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, dropping client")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// Done is closed when the connection shuts down.
func (c *Connection) Done() <-chan struct{} { return c.ctx.Done() }

// Watch subscribes the client to a game's events.
func (c *Connection) Watch(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games[gameID] = true
}

// Watching reports whether the client subscribed to a game.
func (c *Connection) Watching(gameID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.games[gameID]
}

func (c *Connection) writePump() {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write failed", "error", err)
				_ = c.Close()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.service.unregister(c)
		_ = c.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected close", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(msg.RequestID, "malformed message")
			continue
		}
		c.service.handleMessage(c, &msg)
	}
}

func (c *Connection) sendError(requestID, text string) {
	msg, err := NewMessage(MsgError, ErrorData{Error: text})
	if err != nil {
		return
	}
	msg.RequestID = requestID
	_ = c.Send(msg)
}
