// Package history persists the fairness record of every finished round.
package history

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/deck"
	"github.com/lox/fairjack/internal/store"
)

const (
	defaultQueueSize    = 256
	defaultWriteTimeout = 5 * time.Second
)

// Stats counts recorder activity
type Stats struct {
	Written int64
	Failed  int64
}

// Recorder is an engine observer that writes a verification entry to a
// store each time a round finishes. Writes happen on a background goroutine
// in the order rounds finished.
type Recorder struct {
	store        store.Store
	logger       zerolog.Logger
	clock        quartz.Clock
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan store.Entry
	wg     sync.WaitGroup

	written atomic.Int64
	failed  atomic.Int64
}

// Option configures a Recorder
type Option func(*Recorder)

// WithClock sets the clock used for entry timestamps
func WithClock(clock quartz.Clock) Option {
	return func(r *Recorder) { r.clock = clock }
}

// WithQueueSize sets how many entries may wait to be written before
// observers block.
func WithQueueSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.queue = make(chan store.Entry, n)
		}
	}
}

// WithWriteTimeout bounds each store write
func WithWriteTimeout(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.writeTimeout = d
		}
	}
}

// NewRecorder creates and starts a recorder writing to st
func NewRecorder(st store.Store, logger zerolog.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		store:        st,
		logger:       logger.With().Str("component", "history").Logger(),
		clock:        quartz.NewReal(),
		writeTimeout: defaultWriteTimeout,
		queue:        make(chan store.Entry, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Observe implements blackjack.Observer. Only finished rounds dealt from a
// recorded shoe are persisted.
func (r *Recorder) Observe(snap blackjack.Snapshot) {
	if snap.Phase != blackjack.Finished || snap.Fairness == nil {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.logger.Warn().Str("game_id", snap.Fairness.GameID).Msg("Recorder closed, dropping round")
		return
	}

	entry := store.Entry{
		Record:    *snap.Fairness,
		Dealt:     deck.Strings(snap.Shoe.Dealt),
		Rounds:    snap.Shoe.Rounds,
		UpdatedAt: r.clock.Now().UTC(),
	}
	r.queue <- entry
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for entry := range r.queue {
		r.write(entry)
	}
}

func (r *Recorder) write(entry store.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.store.Put(ctx, entry); err != nil {
		r.failed.Add(1)
		r.logger.Error().Err(err).Str("game_id", entry.GameID()).Msg("Failed to record round")
		return
	}
	r.written.Add(1)
	r.logger.Debug().
		Str("game_id", entry.GameID()).
		Int("rounds", entry.Rounds).
		Int("dealt", len(entry.Dealt)).
		Msg("Recorded round")
}

// Stats returns the number of entries written and failed so far
func (r *Recorder) Stats() Stats {
	return Stats{Written: r.written.Load(), Failed: r.failed.Load()}
}

// Close stops accepting rounds and waits for queued writes. It does not close
// the store.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
	stats := r.Stats()
	r.logger.Info().Int64("written", stats.Written).Int64("failed", stats.Failed).Msg("History recorder closed")
	return nil
}
