package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/fairjack/internal/blackjack"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBuffer = 64
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection is one player's websocket session. Each connection owns its
// own engine; commands are applied in arrival order by the read loop.
type Connection struct {
	id        string
	conn      *websocket.Conn
	engine    *blackjack.Engine
	send      chan any
	done      chan struct{}
	closeOnce sync.Once
	logger    zerolog.Logger
}

func newConnection(id string, conn *websocket.Conn, engine *blackjack.Engine, logger zerolog.Logger) *Connection {
	return &Connection{
		id:     id,
		conn:   conn,
		engine: engine,
		send:   make(chan any, sendBuffer),
		done:   make(chan struct{}),
		logger: logger.With().Str("conn_id", id).Logger(),
	}
}

// ID returns the connection identifier
func (c *Connection) ID() string {
	return c.id
}

// Close closes the connection. It is safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// Send queues msg for the write loop. A full buffer closes the connection.
func (c *Connection) Send(msg any) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		c.logger.Warn().Msg("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages until the peer goes away
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error().Err(err).Msg("Unexpected WebSocket close error")
			}
			return
		}
		if err := c.Send(c.handle(data)); err != nil {
			return
		}
	}
}

// writePump writes queued messages and keeps the connection alive
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error().Err(err).Msg("Failed to write message")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// handle applies one client message and returns the reply
func (c *Connection) handle(data []byte) any {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		c.logger.Debug().Err(err).Msg("Malformed message")
		return newErrorMessage("malformed message: " + err.Error())
	}

	if req.Kind == CommandState {
		return newStateMessage(true, c.engine.Snapshot())
	}
	if err := req.Validate(); err != nil {
		return newErrorMessage(err.Error())
	}

	snap, ok := c.engine.Apply(req)
	c.logger.Debug().
		Str("command", string(req.Kind)).
		Bool("ok", ok).
		Stringer("phase", snap.Phase).
		Msg("Applied command")
	return newStateMessage(ok, snap)
}
