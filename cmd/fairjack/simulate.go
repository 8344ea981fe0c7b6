package main

import (
	"fmt"
	"io"
	"time"

	"github.com/lox/fairjack/cmd/fairjack/shared"
	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/simulator"
	"github.com/lox/fairjack/internal/statistics"
	"github.com/lox/fairjack/internal/strategy"
)

// SimulateCmd plays rounds with an automated strategy
type SimulateCmd struct {
	Sessions int    `default:"4" help:"Independent sessions (each with its own shoe)"`
	Rounds   int    `default:"10000" help:"Rounds per session"`
	Bet      int64  `default:"0" help:"Flat bet (0 for the table minimum)"`
	Seed     *int64 `help:"Seed for a replayable run (random when unset)"`
	Parallel int    `default:"4" help:"Sessions run concurrently"`
	Strategy string `default:"basic" enum:"basic,mimic,never-bust" help:"Player strategy"`
	Balance  int64  `help:"Starting balance per session (overrides config)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	logger, err := g.logger()
	if err != nil {
		return err
	}
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	strat, err := strategy.ByName(c.Strategy)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info().Int64("seed", seed).Msg("Using deterministic seed")
	} else {
		logger.Info().Int64("seed", seed).Msg("Using random seed")
	}

	settings := cfg.Table.Settings()
	if c.Balance > 0 {
		settings.StartingBalance = blackjack.Money(c.Balance)
	}

	sim := simulator.New(simulator.Config{
		Sessions:    c.Sessions,
		Rounds:      c.Rounds,
		Bet:         blackjack.Money(c.Bet),
		Seed:        seed,
		Settings:    settings,
		Strategy:    strat,
		Parallelism: c.Parallel,
		Logger:      logger,
	})

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	res, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(g.out(), res, strat.Name(), seed)
	return nil
}

func printSummary(w io.Writer, res *simulator.Result, strategyName string, seed int64) {
	fmt.Fprintf(w, "\n=== SIMULATION RESULTS ===\n")
	fmt.Fprintf(w, "Strategy: %s, Seed: %d\n", strategyName, seed)
	fmt.Fprintf(w, "Rounds: %d across %d sessions (%.1fs)\n", res.Stats.Rounds, len(res.Sessions), res.Elapsed.Seconds())
	printStats(w, res.Stats)

	broke := 0
	for _, sess := range res.Sessions {
		if sess.Broke {
			broke++
		}
	}
	if broke > 0 {
		fmt.Fprintf(w, "Sessions out of chips: %d\n", broke)
	}
}

func printStats(w io.Writer, s *statistics.Statistics) {
	low, high := s.ConfidenceInterval95()
	fmt.Fprintf(w, "Mean: %+.4f bets/round ± %.4f SE\n", s.Mean(), s.StdError())
	fmt.Fprintf(w, "95%% CI: [%+.4f, %+.4f]\n", low, high)
	fmt.Fprintf(w, "Std dev: %.4f, Median: %+.2f, P5/P95: %+.2f/%+.2f\n", s.StdDev(), s.Median(), s.Percentile(0.05), s.Percentile(0.95))
	fmt.Fprintf(w, "House edge: %.3f%% of %d wagered (net %+d)\n", s.HouseEdge()*100, s.Wagered, s.NetChips)
	printOutcomes(w, s)
}

func printOutcomes(w io.Writer, s *statistics.Statistics) {
	o := s.Outcome
	pct := func(n int) float64 {
		if s.Hands == 0 {
			return 0
		}
		return float64(n) * 100 / float64(s.Hands)
	}
	fmt.Fprintf(w, "\nHands: %d (doubles %d, splits %d)\n", s.Hands, s.Doubles, s.Splits)
	fmt.Fprintf(w, "  Wins:       %6d (%5.2f%%)\n", o.Wins, pct(o.Wins))
	fmt.Fprintf(w, "  Blackjacks: %6d (%5.2f%%)\n", o.Blackjacks, pct(o.Blackjacks))
	fmt.Fprintf(w, "  Pushes:     %6d (%5.2f%%)\n", o.Pushes, pct(o.Pushes))
	fmt.Fprintf(w, "  Losses:     %6d (%5.2f%%)\n", o.Losses, pct(o.Losses))
	fmt.Fprintf(w, "  Surrenders: %6d (%5.2f%%)\n", o.Surrenders, pct(o.Surrenders))
	if s.InsuranceTaken > 0 {
		fmt.Fprintf(w, "Insurance: %d taken, %d won, net %+d\n", s.InsuranceTaken, s.InsuranceWon, s.InsuranceNet)
	}
}
