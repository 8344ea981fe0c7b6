package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/client"
	"github.com/lox/fairjack/internal/strategy"
)

// BotCmd plays against a running server with an automated strategy
type BotCmd struct {
	URL        string        `default:"http://localhost:8080" help:"Server URL"`
	Rounds     int           `default:"100" help:"Rounds to play"`
	Bet        int64         `default:"10" help:"Flat bet"`
	Strategy   string        `default:"basic" enum:"basic,mimic,never-bust" help:"Player strategy"`
	ClientSeed string        `help:"Client seed for every shoe (random when unset)"`
	Wait       time.Duration `help:"Wait up to this long for the server to become healthy"`
}

func (c *BotCmd) Run(g *Globals) error {
	level, err := log.ParseLevel(g.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level, ReportTimestamp: true})

	strat, err := strategy.ByName(c.Strategy)
	if err != nil {
		return err
	}

	if c.Wait > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), c.Wait)
		err := client.WaitForHealthy(ctx, c.URL)
		cancel()
		if err != nil {
			return err
		}
	}

	cli, err := client.Dial(context.Background(), c.URL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	bot := client.NewBot(cli, strat, blackjack.Money(c.Bet), c.ClientSeed, logger)
	stats, err := bot.Run(context.Background(), c.Rounds)
	if err != nil {
		return err
	}
	if stats.Rounds == 0 {
		return fmt.Errorf("no rounds played")
	}

	w := g.out()
	fmt.Fprintf(w, "\n=== BOT RESULTS ===\n")
	fmt.Fprintf(w, "Strategy: %s, Server: %s, Rounds: %d\n", strat.Name(), c.URL, stats.Rounds)
	printStats(w, stats)
	return nil
}
