package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS fairness_entries (
    game_id       TEXT PRIMARY KEY,
    record        TEXT NOT NULL,
    dealt         TEXT NOT NULL,
    rounds        INTEGER NOT NULL,
    updated_at_ms BIGINT NOT NULL
)`

const upsertEntry = `
INSERT INTO fairness_entries (game_id, record, dealt, rounds, updated_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (game_id) DO UPDATE SET
    record = excluded.record,
    dealt = excluded.dealt,
    rounds = excluded.rounds,
    updated_at_ms = excluded.updated_at_ms`

const selectEntry = `
SELECT record, dealt, rounds, updated_at_ms
FROM fairness_entries
WHERE game_id = ?`

const selectIDs = `SELECT game_id FROM fairness_entries ORDER BY game_id`

// SQL stores entries in a SQLite or PostgreSQL table
type SQL struct {
	db       *sql.DB
	postgres bool
}

// NewSQLite opens (creating if needed) a SQLite database at path. ":memory:"
// gives a private in-memory database.
func NewSQLite(ctx context.Context, path string) (*SQL, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, fmt.Errorf("store: create %s: %w", parent, err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA journal_mode = WAL`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	return newSQL(ctx, db, false)
}

// NewPostgres connects to PostgreSQL with dsn
func NewPostgres(ctx context.Context, dsn string) (*SQL, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("store: empty postgres dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return newSQL(ctx, db, true)
}

func newSQL(ctx context.Context, db *sql.DB, postgres bool) (*SQL, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQL{db: db, postgres: postgres}, nil
}

// rebind rewrites ? placeholders as $n for PostgreSQL
func (s *SQL) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *SQL) Put(ctx context.Context, entry Entry) error {
	if err := validate(entry); err != nil {
		return err
	}
	record, err := json.Marshal(entry.Record)
	if err != nil {
		return fmt.Errorf("store: encode record: %w", err)
	}
	dealt := entry.Dealt
	if dealt == nil {
		dealt = []string{}
	}
	dealtJSON, err := json.Marshal(dealt)
	if err != nil {
		return fmt.Errorf("store: encode dealt cards: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(upsertEntry),
		entry.GameID(), string(record), string(dealtJSON), entry.Rounds, entry.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("store: put %s: %w", entry.GameID(), err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, gameID string) (Entry, error) {
	var (
		record, dealt string
		entry         Entry
		updatedMs     int64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(selectEntry), gameID).Scan(&record, &dealt, &entry.Rounds, &updatedMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("store: get %s: %w", gameID, err)
	}
	if err := json.Unmarshal([]byte(record), &entry.Record); err != nil {
		return Entry{}, fmt.Errorf("store: decode record %s: %w", gameID, err)
	}
	if err := json.Unmarshal([]byte(dealt), &entry.Dealt); err != nil {
		return Entry{}, fmt.Errorf("store: decode dealt cards %s: %w", gameID, err)
	}
	entry.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return entry, nil
}

func (s *SQL) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, selectIDs)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
