// Package server exposes blackjack tables over websockets, one table per
// connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/gameid"
	"github.com/lox/fairjack/internal/history"
)

// Config configures the tables a server deals
type Config struct {
	Addr         string
	Settings     blackjack.Settings
	HistoryLimit int
	// Recorder persists the fairness data of finished rounds. Optional.
	Recorder *history.Recorder
}

// Server is the websocket server
type Server struct {
	cfg      Config
	logger   zerolog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	http     *http.Server

	mu          sync.RWMutex
	connections map[*Connection]struct{}
}

// NewServer creates a server. The settings are validated up front so a bad
// table fails at startup rather than on the first connection.
func NewServer(cfg Config, logger zerolog.Logger) (*Server, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table settings: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger.With().Str("component", "server").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		mux:         http.NewServeMux(),
		connections: make(map[*Connection]struct{}),
	}
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.http = &http.Server{Addr: cfg.Addr, Handler: s.mux}
	return s, nil
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on the configured address until Shutdown
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.cfg.Addr).Msg("Starting WebSocket server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes the open ones
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return err
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

func (s *Server) newEngine(logger zerolog.Logger) (*blackjack.Engine, error) {
	opts := []blackjack.Option{blackjack.WithLogger(logger)}
	if s.cfg.HistoryLimit > 0 {
		opts = append(opts, blackjack.WithHistoryLimit(s.cfg.HistoryLimit))
	}
	if s.cfg.Recorder != nil {
		opts = append(opts, blackjack.WithObserver(s.cfg.Recorder.Observe))
	}
	return blackjack.NewEngine(s.cfg.Settings, opts...)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	id := gameid.Generate()
	engine, err := s.newEngine(s.logger.With().Str("conn_id", id).Logger())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create engine")
		_ = ws.Close()
		return
	}

	conn := newConnection(id, ws, engine, s.logger)
	s.register(conn)

	go conn.writePump()
	go func() {
		conn.readPump()
		s.unregister(conn)
	}()
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info().Str("conn_id", conn.ID()).Int("total", total).Msg("Client connected")
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info().Str("conn_id", conn.ID()).Int("total", total).Msg("Client disconnected")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
