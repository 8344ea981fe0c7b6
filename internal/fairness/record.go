package fairness

import (
	"fmt"

	"github.com/coder/quartz"
)

// Record is the fairness data of one shoe. It is created once per reshuffle
// and never mutated afterwards.
type Record struct {
	ServerSeed     string    `json:"serverSeed"`
	ServerSeedHash string    `json:"serverSeedHash"`
	ClientSeed     string    `json:"clientSeed"`
	CombinedHash   string    `json:"combinedHash"`
	Timestamp      int64     `json:"timestamp"`
	GameID         string    `json:"gameId"`
	DeckCount      int       `json:"deckCount"`
	Algorithm      Algorithm `json:"algorithm"`
}

// Revealed reports whether the record carries its server seed.
func (r Record) Revealed() bool {
	return r.ServerSeed != ""
}

// Redacted returns a copy without the server seed, safe to show while the
// shoe is still in play.
func (r Record) Redacted() Record {
	r.ServerSeed = ""
	return r
}

// Verify checks the commitment and the combined hash of a revealed record.
func (r Record) Verify() bool {
	if !VerifyCommitment(r.ServerSeed, r.ServerSeedHash) {
		return false
	}
	return r.CombinedHash == "" || r.CombinedHash == Combine(r.ServerSeed, r.ClientSeed)
}

// Source returns the generator the record's shoe was shuffled with.
func (r Record) Source() FloatSource {
	return Source(r.Algorithm, r.ServerSeed, r.ClientSeed)
}

type recordOptions struct {
	clock      quartz.Clock
	serverSeed func() (string, error)
	clientSeed func() (string, error)
}

// RecordOption customises NewRecord.
type RecordOption func(*recordOptions)

// WithClock sets the clock used for the record timestamp.
func WithClock(clock quartz.Clock) RecordOption {
	return func(o *recordOptions) { o.clock = clock }
}

// WithServerSeedGenerator replaces GenerateServerSeed, e.g. for replayable
// simulations.
func WithServerSeedGenerator(gen func() (string, error)) RecordOption {
	return func(o *recordOptions) { o.serverSeed = gen }
}

// WithClientSeedGenerator replaces GenerateClientSeed for blank client seeds.
func WithClientSeedGenerator(gen func() (string, error)) RecordOption {
	return func(o *recordOptions) { o.clientSeed = gen }
}

// NewRecord materialises the fairness data for a new shoe. A blank clientSeed
// is replaced by a generated one.
func NewRecord(gameID, clientSeed string, deckCount int, alg Algorithm, opts ...RecordOption) (Record, error) {
	o := recordOptions{
		clock:      quartz.NewReal(),
		serverSeed: GenerateServerSeed,
		clientSeed: GenerateClientSeed,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if deckCount <= 0 {
		return Record{}, fmt.Errorf("fairness: deck count must be positive, got %d", deckCount)
	}
	if alg == "" {
		alg = AlgorithmSeeded
	}

	serverSeed, err := o.serverSeed()
	if err != nil {
		return Record{}, fmt.Errorf("fairness: generate server seed: %w", err)
	}
	if clientSeed == "" {
		clientSeed, err = o.clientSeed()
		if err != nil {
			return Record{}, fmt.Errorf("fairness: generate client seed: %w", err)
		}
	}

	return Record{
		ServerSeed:     serverSeed,
		ServerSeedHash: Hash(serverSeed),
		ClientSeed:     clientSeed,
		CombinedHash:   Combine(serverSeed, clientSeed),
		Timestamp:      o.clock.Now().UnixMilli(),
		GameID:         gameID,
		DeckCount:      deckCount,
		Algorithm:      alg,
	}, nil
}
