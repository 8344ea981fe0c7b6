// Package store persists fairness verification entries keyed by game
// identifier.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lox/fairjack/internal/deck"
	"github.com/lox/fairjack/internal/fairness"
)

var (
	// ErrNotFound is returned when no entry exists for a game identifier.
	ErrNotFound = errors.New("store: entry not found")
	// ErrInvalidEntry is returned for entries without a game identifier.
	ErrInvalidEntry = errors.New("store: entry has no game id")
)

// Entry is the persisted verification data of one shoe: its fairness record
// and the cards dealt from it so far.
type Entry struct {
	Record    fairness.Record `json:"record"`
	Dealt     []string        `json:"dealt"`
	Rounds    int             `json:"rounds"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// GameID returns the key the entry is stored under
func (e Entry) GameID() string {
	return e.Record.GameID
}

// Verify replays the shoe from the record and checks the dealt cards against
// it. Entries whose server seed has not been revealed cannot be verified.
func (e Entry) Verify() (bool, error) {
	if !e.Record.Revealed() {
		return false, fmt.Errorf("game %s: server seed not revealed", e.GameID())
	}
	cards, err := deck.ParseCards(e.Dealt)
	if err != nil {
		return false, fmt.Errorf("game %s: %w", e.GameID(), err)
	}
	return deck.VerifyDeal(e.Record, cards), nil
}

// Store is a key-value store of entries
type Store interface {
	// Put inserts or replaces the entry for its game identifier.
	Put(ctx context.Context, entry Entry) error
	// Get returns ErrNotFound when no entry exists.
	Get(ctx context.Context, gameID string) (Entry, error)
	// List returns every stored game identifier in ascending order.
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Backend names
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config selects and configures a backend
type Config struct {
	Backend string
	// Path is the directory of the file backend or the SQLite database file.
	Path string
	// DSN is the PostgreSQL connection string.
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Prefix namespaces Redis keys.
	Prefix string
}

// Open creates the backend named by cfg.Backend
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory, "mem":
		return NewMemory(), nil
	case BackendFile:
		return NewFile(cfg.Path)
	case BackendSQLite:
		return NewSQLite(ctx, cfg.Path)
	case BackendPostgres, "postgresql":
		return NewPostgres(ctx, cfg.DSN)
	case BackendRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("store: unknown backend %q (supported: %s, %s, %s, %s, %s)",
			cfg.Backend, BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendRedis)
	}
}

func validate(entry Entry) error {
	if strings.TrimSpace(entry.GameID()) == "" {
		return ErrInvalidEntry
	}
	return nil
}
