package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/fairness"
	"github.com/lox/fairjack/internal/store"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, blackjack.DefaultSettings(), cfg.Table.Settings())
	assert.Equal(t, store.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "localhost:8080", cfg.Server.Address)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fairjack.hcl")
	src := `
table {
  decks               = 2
  min_bet             = 5
  max_bet             = 500
  penetration         = 0.6
  dealer_hits_soft_17 = true
  double_after_split  = false
  surrender           = false
  blackjack_payout    = 1.2
  starting_balance    = 250
  algorithm           = "hmac-sha256"
  reveal              = "shoe"
}

store {
  backend = "sqlite"
  path    = "data/games.db"
}

server {
  address   = ":9000"
  log_level = "debug"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	s := cfg.Table.Settings()
	assert.Equal(t, 2, s.DeckCount)
	assert.Equal(t, blackjack.Money(5), s.MinBet)
	assert.Equal(t, blackjack.Money(500), s.MaxBet)
	assert.Equal(t, 0.6, s.PenetrationThreshold)
	assert.True(t, s.DealerHitsSoft17)
	assert.False(t, s.DoubleAfterSplit)
	assert.False(t, s.SurrenderAllowed)
	assert.True(t, s.InsuranceAllowed, "unset keeps default")
	assert.Equal(t, 1.2, s.BlackjackPayout)
	assert.Equal(t, blackjack.Money(250), s.StartingBalance)
	assert.Equal(t, fairness.AlgorithmHMAC, s.Algorithm)
	assert.Equal(t, blackjack.RevealOnShoeEnd, s.RevealPolicy)

	assert.Equal(t, store.Config{Backend: "sqlite", Path: "data/games.db"}, cfg.Store.StoreSettings())
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 100, cfg.Server.HistoryLimit)
}

func TestParseStoreDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`store { backend = "file" }`), "inline.hcl")
	require.NoError(t, err)
	assert.Equal(t, "games", cfg.Store.Path)
	require.NoError(t, cfg.Validate())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`table {`), "broken.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`table { unknown = 1 }`), "unknown.hcl")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad table", `table { decks = -1 }`},
		{"bad algorithm", `table { algorithm = "dice" }`},
		{"unknown backend", `store { backend = "etcd" }`},
		{"postgres without dsn", `store { backend = "postgres" }`},
		{"redis without address", `store { backend = "redis" }`},
		{"negative history", `server { history_limit = -1 }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.src), "test.hcl")
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}
