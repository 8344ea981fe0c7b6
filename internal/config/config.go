// Package config loads the fairjack HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/fairness"
	"github.com/lox/fairjack/internal/store"
)

// Config represents the complete configuration
type Config struct {
	Table  TableConfig
	Store  StoreConfig
	Server ServerConfig
}

// file is the decoding target; every block is optional
type file struct {
	Table  *TableConfig  `hcl:"table,block"`
	Store  *StoreConfig  `hcl:"store,block"`
	Server *ServerConfig `hcl:"server,block"`
}

// TableConfig holds the table rules. Unset values keep the defaults of
// blackjack.DefaultSettings.
type TableConfig struct {
	Decks            int     `hcl:"decks,optional"`
	MinBet           int64   `hcl:"min_bet,optional"`
	MaxBet           int64   `hcl:"max_bet,optional"`
	Penetration      float64 `hcl:"penetration,optional"`
	DealerHitsSoft17 *bool   `hcl:"dealer_hits_soft_17,optional"`
	DoubleAfterSplit *bool   `hcl:"double_after_split,optional"`
	Surrender        *bool   `hcl:"surrender,optional"`
	Insurance        *bool   `hcl:"insurance,optional"`
	BlackjackPayout  float64 `hcl:"blackjack_payout,optional"`
	StartingBalance  int64   `hcl:"starting_balance,optional"`
	Algorithm        string  `hcl:"algorithm,optional"`
	Reveal           string  `hcl:"reveal,optional"`
}

// StoreConfig selects where verification entries are kept
type StoreConfig struct {
	Backend       string `hcl:"backend,optional"`
	Path          string `hcl:"path,optional"`
	DSN           string `hcl:"dsn,optional"`
	RedisAddr     string `hcl:"redis_addr,optional"`
	RedisPassword string `hcl:"redis_password,optional"`
	RedisDB       int    `hcl:"redis_db,optional"`
	Prefix        string `hcl:"prefix,optional"`
}

// ServerConfig contains websocket server settings
type ServerConfig struct {
	Address      string `hcl:"address,optional"`
	LogLevel     string `hcl:"log_level,optional"`
	HistoryLimit int    `hcl:"history_limit,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var decoded file
	if diags := gohcl.DecodeBody(f.Body, nil, &decoded); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := &Config{}
	if decoded.Table != nil {
		cfg.Table = *decoded.Table
	}
	if decoded.Store != nil {
		cfg.Store = *decoded.Store
	}
	if decoded.Server != nil {
		cfg.Server = *decoded.Server
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendMemory
	}
	if c.Store.Path == "" {
		switch c.Store.Backend {
		case store.BackendFile:
			c.Store.Path = "games"
		case store.BackendSQLite:
			c.Store.Path = "fairjack.db"
		}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost:8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.HistoryLimit == 0 {
		c.Server.HistoryLimit = 100
	}
}

// Settings returns the table rules layered over the defaults
func (t TableConfig) Settings() blackjack.Settings {
	s := blackjack.DefaultSettings()
	if t.Decks != 0 {
		s.DeckCount = t.Decks
	}
	if t.MinBet != 0 {
		s.MinBet = blackjack.Money(t.MinBet)
	}
	if t.MaxBet != 0 {
		s.MaxBet = blackjack.Money(t.MaxBet)
	}
	if t.Penetration != 0 {
		s.PenetrationThreshold = t.Penetration
	}
	if t.DealerHitsSoft17 != nil {
		s.DealerHitsSoft17 = *t.DealerHitsSoft17
	}
	if t.DoubleAfterSplit != nil {
		s.DoubleAfterSplit = *t.DoubleAfterSplit
	}
	if t.Surrender != nil {
		s.SurrenderAllowed = *t.Surrender
	}
	if t.Insurance != nil {
		s.InsuranceAllowed = *t.Insurance
	}
	if t.BlackjackPayout != 0 {
		s.BlackjackPayout = t.BlackjackPayout
	}
	if t.StartingBalance != 0 {
		s.StartingBalance = blackjack.Money(t.StartingBalance)
	}
	if t.Algorithm != "" {
		s.Algorithm = fairness.Algorithm(t.Algorithm)
	}
	if t.Reveal != "" {
		s.RevealPolicy = blackjack.RevealPolicy(t.Reveal)
	}
	return s
}

// StoreSettings converts the store block for store.Open
func (s StoreConfig) StoreSettings() store.Config {
	return store.Config{
		Backend:       s.Backend,
		Path:          s.Path,
		DSN:           s.DSN,
		RedisAddr:     s.RedisAddr,
		RedisPassword: s.RedisPassword,
		RedisDB:       s.RedisDB,
		Prefix:        s.Prefix,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Table.Settings().Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendFile, store.BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store: %s backend requires path", c.Store.Backend)
		}
	case store.BackendPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store: postgres backend requires dsn")
		}
	case store.BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store: redis backend requires redis_addr")
		}
	default:
		return fmt.Errorf("store: unknown backend %q", c.Store.Backend)
	}
	if c.Server.HistoryLimit < 0 {
		return fmt.Errorf("server: history_limit must not be negative")
	}
	return nil
}
