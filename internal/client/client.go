// Package client talks to a fairjack server over its websocket API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/server" // Reuse message types
)

const defaultTimeout = 10 * time.Second

// ErrRejected is returned when the table refuses a command
var ErrRejected = errors.New("command rejected")

// ServerError is an error message returned by the server
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server: " + e.Message
}

// reply decodes either server message
type reply struct {
	Type  server.MessageType `json:"type"`
	OK    bool               `json:"ok"`
	State blackjack.Snapshot `json:"state"`
	Error string             `json:"error"`
}

// Client is a connection to one table. Requests are answered in order, so
// calls are serialised.
type Client struct {
	conn      *websocket.Conn
	logger    *log.Logger
	mu        sync.Mutex
	closeOnce sync.Once
}

// WebSocketURL turns a server address into its websocket endpoint.
// http(s) schemes become ws(s) and an empty path becomes /ws.
func WebSocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Dial connects to the server at serverURL
func Dial(ctx context.Context, serverURL string, logger *log.Logger) (*Client, error) {
	wsURL, err := WebSocketURL(serverURL)
	if err != nil {
		return nil, err
	}
	logger = logger.WithPrefix("client")
	logger.Info("Connecting to server", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &Client{conn: conn, logger: logger}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = c.conn.Close()
		c.logger.Info("Disconnected from server")
	})
	return err
}

// Do sends cmd and returns the resulting public state and whether the table
// accepted it. Messages the server cannot parse return a *ServerError.
func (c *Client) Do(ctx context.Context, cmd server.Request) (blackjack.Snapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultTimeout)
	}
	_ = c.conn.SetWriteDeadline(deadline)
	_ = c.conn.SetReadDeadline(deadline)

	if err := c.conn.WriteJSON(cmd); err != nil {
		return blackjack.Snapshot{}, false, fmt.Errorf("send %s: %w", cmd.Kind, err)
	}

	var r reply
	if err := c.conn.ReadJSON(&r); err != nil {
		if ctx.Err() != nil {
			return blackjack.Snapshot{}, false, ctx.Err()
		}
		return blackjack.Snapshot{}, false, fmt.Errorf("read reply to %s: %w", cmd.Kind, err)
	}

	switch r.Type {
	case server.TypeState:
		c.logger.Debug("Received state", "command", cmd.Kind, "ok", r.OK, "phase", r.State.Phase)
		return r.State, r.OK, nil
	case server.TypeError:
		return blackjack.Snapshot{}, false, &ServerError{Message: r.Error}
	default:
		return blackjack.Snapshot{}, false, fmt.Errorf("unexpected message type %q", r.Type)
	}
}

// State returns the table state without changing it
func (c *Client) State(ctx context.Context) (blackjack.Snapshot, error) {
	snap, _, err := c.Do(ctx, server.Request{Kind: server.CommandState})
	return snap, err
}
