// Package simulator plays many blackjack rounds with an automated strategy
// and aggregates the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/gameid"
	"github.com/lox/fairjack/internal/randutil"
	"github.com/lox/fairjack/internal/statistics"
	"github.com/lox/fairjack/internal/strategy"
)

// maxActions bounds the decisions in one round. A legal round needs far
// fewer; hitting it means the strategy is looping.
const maxActions = 64

// Config holds configuration for running simulations
type Config struct {
	Sessions    int
	Rounds      int // per session
	Bet         blackjack.Money
	Seed        int64
	Settings    blackjack.Settings
	Strategy    strategy.Strategy
	Parallelism int
	Logger      zerolog.Logger
}

// SessionResult summarises one session
type SessionResult struct {
	Session      int
	Rounds       int
	Reshuffles   int
	FinalBalance blackjack.Money
	Broke        bool // stopped early because the bet could no longer be covered
}

// Result is the outcome of a simulation run
type Result struct {
	Stats    *statistics.Statistics
	Sessions []SessionResult
	Elapsed  time.Duration
}

// Simulator runs blackjack simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Sessions < 1 {
		config.Sessions = 1
	}
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	if config.Strategy == nil {
		config.Strategy = strategy.Basic{}
	}
	if config.Bet == 0 {
		config.Bet = config.Settings.MinBet
	}
	return &Simulator{config: config}
}

// Run plays every session and returns merged statistics. Sessions are
// independent and merged in session order, so a run replays identically
// for the same seed regardless of parallelism.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg := s.config
	if cfg.Rounds < 1 {
		return nil, fmt.Errorf("rounds must be positive, got %d", cfg.Rounds)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if cfg.Bet < cfg.Settings.MinBet || cfg.Bet > cfg.Settings.MaxBet {
		return nil, fmt.Errorf("bet %d outside table limits %d-%d", cfg.Bet, cfg.Settings.MinBet, cfg.Settings.MaxBet)
	}

	start := time.Now()
	sessionStats := make([]*statistics.Statistics, cfg.Sessions)
	sessions := make([]SessionResult, cfg.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for i := range cfg.Sessions {
		g.Go(func() error {
			stats, res, err := s.playSession(ctx, i)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			sessionStats[i] = stats
			sessions[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &statistics.Statistics{}
	for _, st := range sessionStats {
		merged.Merge(st)
	}
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	cfg.Logger.Info().
		Int("sessions", cfg.Sessions).
		Int("rounds", merged.Rounds).
		Float64("house_edge", merged.HouseEdge()).
		Dur("elapsed", time.Since(start)).
		Msg("Simulation complete")

	return &Result{Stats: merged, Sessions: sessions, Elapsed: time.Since(start)}, nil
}

func (s *Simulator) playSession(ctx context.Context, session int) (*statistics.Statistics, SessionResult, error) {
	cfg := s.config
	logger := cfg.Logger.With().Int("session", session).Logger()
	src := randutil.NewSource(randutil.SessionSeed(cfg.Seed, session))
	ids := gameid.NewGenerator(src)

	engine, err := blackjack.NewEngine(cfg.Settings,
		blackjack.WithLogger(logger),
		blackjack.WithServerSeedGenerator(src.SeedGenerator()),
		blackjack.WithGameIDGenerator(ids.Generate),
		blackjack.WithHistoryLimit(1),
	)
	if err != nil {
		return nil, SessionResult{}, err
	}

	stats := &statistics.Statistics{}
	res := SessionResult{Session: session}
	lastGame := ""

	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, res, err
		}
		if engine.Balance() < cfg.Bet {
			res.Broke = true
			logger.Debug().Int("round", round).Msg("Session out of chips")
			break
		}

		result, err := s.playRound(engine, src.Hex(16))
		if err != nil {
			return nil, res, fmt.Errorf("round %d: %w", round, err)
		}
		stats.Add(result, cfg.Bet)
		res.Rounds++
		if result.GameID != lastGame {
			res.Reshuffles++
			lastGame = result.GameID
		}
	}

	res.FinalBalance = engine.Balance()
	if res.Rounds == 0 {
		return nil, res, errors.New("no rounds played")
	}
	return stats, res, nil
}

func (s *Simulator) playRound(engine *blackjack.Engine, clientSeed string) (blackjack.RoundResult, error) {
	snap, ok := engine.Apply(blackjack.Command{Kind: blackjack.CommandStart, Bet: s.config.Bet, ClientSeed: clientSeed})
	if !ok {
		return blackjack.RoundResult{}, fmt.Errorf("start rejected in phase %s", snap.Phase)
	}

	for range maxActions {
		if snap.Phase != blackjack.PlayerTurn {
			break
		}
		action := s.config.Strategy.Decide(snap)
		snap, ok = engine.Apply(blackjack.ActionCommand(action))
		if !ok {
			return blackjack.RoundResult{}, fmt.Errorf("%s chose illegal action %s", s.config.Strategy.Name(), action)
		}
	}

	if snap.Phase != blackjack.Finished || snap.Result == nil {
		return blackjack.RoundResult{}, fmt.Errorf("round did not finish, phase %s", snap.Phase)
	}
	result := *snap.Result
	if !engine.ResetForNewRound() {
		return blackjack.RoundResult{}, errors.New("reset rejected")
	}
	return result, nil
}
