package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/history"
	"github.com/lox/fairjack/internal/store"
	"github.com/lox/fairjack/internal/tui"
)

// PlayCmd runs the interactive table
type PlayCmd struct {
	Balance    int64  `help:"Starting balance (overrides config)"`
	ClientSeed string `help:"Client seed for the first shoe"`
	DebugLog   string `default:"fairjack-play.log" help:"File receiving debug logs"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	settings := cfg.Table.Settings()
	if c.Balance > 0 {
		settings.StartingBalance = blackjack.Money(c.Balance)
	}

	debugFile, err := os.OpenFile(c.DebugLog, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create debug log: %w", err)
	}
	defer func() {
		if err := debugFile.Close(); err != nil {
			log.Error("Failed to close debug file", "error", err)
		}
	}()

	logger := log.NewWithOptions(debugFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "PLAY",
		Level:           log.DebugLevel,
	})
	engineLogger := zerolog.New(debugFile).With().Timestamp().Logger()

	st, err := store.Open(context.Background(), cfg.Store.StoreSettings())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	recorder := history.NewRecorder(st, engineLogger)
	defer func() { _ = recorder.Close() }()

	engine, err := blackjack.NewEngine(settings,
		blackjack.WithLogger(engineLogger),
		blackjack.WithObserver(recorder.Observe),
		blackjack.WithHistoryLimit(cfg.Server.HistoryLimit),
	)
	if err != nil {
		return err
	}

	logger.Info("Starting table", "decks", settings.DeckCount, "balance", settings.StartingBalance, "store", cfg.Store.Backend)
	model := tui.New(engine, logger, c.ClientSeed)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	fmt.Fprintf(g.out(), "Finished with balance %d after %d rounds\n", engine.Balance(), engine.Snapshot().Rounds)
	return nil
}
