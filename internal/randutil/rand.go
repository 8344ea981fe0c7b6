// Package randutil provides deterministic randomness for replayable
// simulations. Nothing here is suitable for live games; those draw their
// seeds from crypto/rand.
package randutil

import (
	"encoding/binary"
	"encoding/hex"
	rand "math/rand/v2"
	"sync"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG generator whose two state words are derived from seed
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// SessionSeed derives the seed of one simulation session from the run seed,
// so neighbouring sessions do not share streams.
func SessionSeed(seed int64, session int) int64 {
	return int64(mix(uint64(seed) + uint64(session+1)*goldenRatio64))
}

// mix is the splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Source produces hex seed strings and raw bytes from one generator. It is
// safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource creates a source seeded with seed
func NewSource(seed int64) *Source {
	return &Source{rng: New(seed)}
}

// Read fills p from the generator. It never fails.
func (s *Source) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], s.rng.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// Hex returns n random bytes encoded as lowercase hex
func (s *Source) Hex(n int) string {
	b := make([]byte, n)
	_, _ = s.Read(b)
	return hex.EncodeToString(b)
}

// SeedGenerator returns a generator of 32-byte hex seeds, shaped like the
// ones fairness records use.
func (s *Source) SeedGenerator() func() (string, error) {
	return func() (string, error) {
		return s.Hex(32), nil
	}
}
