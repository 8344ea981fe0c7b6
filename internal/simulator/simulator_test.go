package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/strategy"
)

func testConfig() Config {
	settings := blackjack.DefaultSettings()
	settings.StartingBalance = 1_000_000
	return Config{
		Sessions:    3,
		Rounds:      200,
		Bet:         10,
		Seed:        12345,
		Settings:    settings,
		Strategy:    strategy.Basic{},
		Parallelism: 2,
	}
}

func TestNewDefaults(t *testing.T) {
	sim := New(Config{Settings: blackjack.DefaultSettings()})
	assert.Equal(t, 1, sim.config.Sessions)
	assert.Equal(t, 1, sim.config.Parallelism)
	assert.Equal(t, blackjack.Money(10), sim.config.Bet)
	assert.Equal(t, "basic", sim.config.Strategy.Name())
}

func TestRun(t *testing.T) {
	res, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 600, res.Stats.Rounds)
	assert.NoError(t, res.Stats.Validate())
	require.Len(t, res.Sessions, 3)
	for i, s := range res.Sessions {
		assert.Equal(t, i, s.Session)
		assert.Equal(t, 200, s.Rounds)
		assert.False(t, s.Broke)
		assert.GreaterOrEqual(t, s.Reshuffles, 1)
	}
}

func TestRunLedgerMatchesBalances(t *testing.T) {
	res, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)

	var net int64
	for _, s := range res.Sessions {
		net += int64(s.FinalBalance) - 1_000_000
	}
	assert.Equal(t, res.Stats.NetChips, net)
}

func TestRunReplaysForSeed(t *testing.T) {
	cfg := testConfig()
	first, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	cfg.Parallelism = 1
	second, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Stats.Values, second.Stats.Values)
	assert.Equal(t, first.Stats.NetChips, second.Stats.NetChips)

	cfg.Seed++
	third, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Stats.Values, third.Stats.Values)
}

func TestRunEveryStrategy(t *testing.T) {
	for _, name := range strategy.Names() {
		t.Run(name, func(t *testing.T) {
			st, err := strategy.ByName(name)
			require.NoError(t, err)
			cfg := testConfig()
			cfg.Strategy = st
			cfg.Sessions = 1
			res, err := New(cfg).Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, res.Stats.Rounds)
		})
	}
}

func TestRunStopsWhenBroke(t *testing.T) {
	cfg := testConfig()
	cfg.Sessions = 1
	cfg.Rounds = 10_000
	cfg.Settings.StartingBalance = 50
	res, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	s := res.Sessions[0]
	if s.Broke {
		assert.Less(t, s.FinalBalance, cfg.Bet)
		assert.Less(t, s.Rounds, cfg.Rounds)
	} else {
		assert.Equal(t, cfg.Rounds, s.Rounds)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Rounds = 0
	_, err := New(cfg).Run(context.Background())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Bet = 5
	_, err = New(cfg).Run(context.Background())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Settings.DeckCount = 0
	_, err = New(cfg).Run(context.Background())
	assert.Error(t, err)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testConfig()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
