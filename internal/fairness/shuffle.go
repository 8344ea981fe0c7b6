package fairness

import (
	"fmt"
	"math"
)

// Algorithm names the generator a shoe was shuffled with.
type Algorithm string

const (
	// AlgorithmSeeded shuffles with SeededRandom.
	AlgorithmSeeded Algorithm = "seeded"
	// AlgorithmHMAC shuffles with the HMAC Stream.
	AlgorithmHMAC Algorithm = "hmac-sha256"
)

// ParseAlgorithm parses an algorithm name. The empty string selects
// AlgorithmSeeded.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", AlgorithmSeeded:
		return AlgorithmSeeded, nil
	case AlgorithmHMAC:
		return AlgorithmHMAC, nil
	default:
		return "", fmt.Errorf("fairness: unknown algorithm %q", s)
	}
}

// Source returns the FloatSource for alg keyed by the seed pair. Unknown
// algorithms fall back to AlgorithmSeeded.
func Source(alg Algorithm, serverSeed, clientSeed string) FloatSource {
	if alg == AlgorithmHMAC {
		return NewStream(serverSeed, clientSeed)
	}
	return NewSeededRandom(serverSeed, clientSeed)
}

// Shuffle performs a Fisher-Yates shuffle of items in place, drawing
// j = floor(draw * (i+1)) for i from len-1 down to 1.
func Shuffle[T any](items []T, src FloatSource) {
	for i := len(items) - 1; i > 0; i-- {
		j := int(math.Floor(src.Float64() * float64(i+1)))
		// the HMAC stream can return exactly 1.0
		if j > i {
			j = i
		}
		items[i], items[j] = items[j], items[i]
	}
}
