package fairness

import (
	"crypto/subtle"
	"strings"
)

// VerifyCommitment reports whether Hash(serverSeed) equals the published
// commitment. Hex case is ignored.
func VerifyCommitment(serverSeed, serverSeedHash string) bool {
	if serverSeed == "" || serverSeedHash == "" {
		return false
	}
	got := Hash(serverSeed)
	want := strings.ToLower(strings.TrimSpace(serverSeedHash))
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// VerifyOrder checks the commitment, then shuffles a copy of fresh (the
// unshuffled shoe) with the seed pair and reports whether dealt is a prefix of
// the result.
func VerifyOrder[T comparable](serverSeed, serverSeedHash, clientSeed string, alg Algorithm, fresh, dealt []T) bool {
	if !VerifyCommitment(serverSeed, serverSeedHash) {
		return false
	}
	if len(dealt) > len(fresh) {
		return false
	}

	order := make([]T, len(fresh))
	copy(order, fresh)
	Shuffle(order, Source(alg, serverSeed, clientSeed))

	for i, item := range dealt {
		if order[i] != item {
			return false
		}
	}
	return true
}
