package fairness

import "unicode/utf16"

// LCG constants of the synchronous shuffle generator.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// SeededRandom is the fast synchronous generator the shoe is shuffled with.
// It is keyed by a 32-bit string hash of "serverSeed:clientSeed" and steps a
// linear congruential generator, so published records from earlier shoes keep
// replaying to the same order.
type SeededRandom struct {
	state int64
}

// NewSeededRandom creates the generator for a seed pair.
func NewSeededRandom(serverSeed, clientSeed string) *SeededRandom {
	return &SeededRandom{state: stringHash(serverSeed + ":" + clientSeed)}
}

// Float64 returns the next draw in [0, 1).
func (r *SeededRandom) Float64() float64 {
	r.state = (r.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.state) / lcgModulus
}

// stringHash is the h = h*31 + c hash over UTF-16 code units with 32-bit
// wraparound, returned as an absolute value.
func stringHash(s string) int64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
