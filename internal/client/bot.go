package client

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/statistics"
	"github.com/lox/fairjack/internal/strategy"
)

// maxActions bounds the decisions in one remote round
const maxActions = 64

// Bot plays rounds against a remote table with a strategy
type Bot struct {
	client     *Client
	strategy   strategy.Strategy
	bet        blackjack.Money
	clientSeed string
	logger     *log.Logger
}

// NewBot creates a bot. clientSeed keys every shoe the bot's rounds open;
// blank lets the server pick.
func NewBot(c *Client, strat strategy.Strategy, bet blackjack.Money, clientSeed string, logger *log.Logger) *Bot {
	return &Bot{
		client:     c,
		strategy:   strat,
		bet:        bet,
		clientSeed: clientSeed,
		logger:     logger.WithPrefix("bot"),
	}
}

// Run plays up to rounds rounds and returns their statistics. It stops
// early, without error, once the balance no longer covers the bet.
func (b *Bot) Run(ctx context.Context, rounds int) (*statistics.Statistics, error) {
	stats := &statistics.Statistics{}

	snap, err := b.client.State(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Phase == blackjack.Finished {
		if snap, err = b.do(ctx, blackjack.Command{Kind: blackjack.CommandReset}); err != nil {
			return nil, err
		}
	}
	if snap.Phase != blackjack.Betting {
		return nil, fmt.Errorf("table is mid-round in phase %s", snap.Phase)
	}

	for round := 0; round < rounds; round++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if snap.Player.Balance < b.bet {
			b.logger.Info("Out of chips", "balance", snap.Player.Balance, "rounds", round)
			break
		}

		result, err := b.playRound(ctx)
		if err != nil {
			return stats, fmt.Errorf("round %d: %w", round, err)
		}
		stats.Add(result, b.bet)
		b.logger.Debug("Round finished", "round", result.Round, "net", result.NetWinnings, "balance", result.BalanceAfter)

		if snap, err = b.do(ctx, blackjack.Command{Kind: blackjack.CommandReset}); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (b *Bot) playRound(ctx context.Context) (blackjack.RoundResult, error) {
	snap, err := b.do(ctx, blackjack.Command{Kind: blackjack.CommandStart, Bet: b.bet, ClientSeed: b.clientSeed})
	if err != nil {
		return blackjack.RoundResult{}, err
	}

	for range maxActions {
		if snap.Phase != blackjack.PlayerTurn {
			break
		}
		action := b.strategy.Decide(snap)
		if snap, err = b.do(ctx, blackjack.ActionCommand(action)); err != nil {
			return blackjack.RoundResult{}, err
		}
	}

	if snap.Phase != blackjack.Finished || snap.Result == nil {
		return blackjack.RoundResult{}, fmt.Errorf("round did not finish, phase %s", snap.Phase)
	}
	return *snap.Result, nil
}

func (b *Bot) do(ctx context.Context, cmd blackjack.Command) (blackjack.Snapshot, error) {
	snap, ok, err := b.client.Do(ctx, cmd)
	if err != nil {
		return snap, err
	}
	if !ok {
		return snap, fmt.Errorf("%s: %w", cmd.Kind, ErrRejected)
	}
	return snap, nil
}
