package main

import (
	"context"
	"time"

	"github.com/lox/fairjack/cmd/fairjack/shared"
	"github.com/lox/fairjack/internal/history"
	"github.com/lox/fairjack/internal/server"
	"github.com/lox/fairjack/internal/store"
)

// ServeCmd runs the websocket server
type ServeCmd struct {
	Addr string `help:"Server address (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	level := g.LogLevel
	if level == "info" && cfg.Server.LogLevel != "" {
		level = cfg.Server.LogLevel
	}
	g.LogLevel = level
	logger, err := g.logger()
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	st, err := store.Open(ctx, cfg.Store.StoreSettings())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	recorder := history.NewRecorder(st, logger)
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to flush history")
		}
		stats := recorder.Stats()
		logger.Info().Int64("written", stats.Written).Int64("failed", stats.Failed).Msg("History recorder closed")
	}()

	settings := cfg.Table.Settings()
	s, err := server.NewServer(server.Config{
		Addr:         cfg.Server.Address,
		Settings:     settings,
		HistoryLimit: cfg.Server.HistoryLimit,
		Recorder:     recorder,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("address", cfg.Server.Address).
		Int("decks", settings.DeckCount).
		Int64("min_bet", int64(settings.MinBet)).
		Int64("max_bet", int64(settings.MaxBet)).
		Str("algorithm", string(settings.Algorithm)).
		Str("store", cfg.Store.Backend).
		Msg("Starting fairjack server")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- s.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
