// Package fairness implements the provably-fair seed protocol used to shuffle
// the shoe.
//
// Before a shoe is used the operator publishes Hash(serverSeed). The shoe order
// is derived from the server seed together with a client-chosen seed, so the
// operator cannot pick a favourable order after seeing the client seed. Once
// the seed is revealed anyone can recompute the commitment and replay the
// shuffle.
package fairness

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	serverSeedBytes = 32
	clientSeedBytes = 16
)

// GenerateServerSeed returns 32 cryptographically random bytes, hex encoded.
func GenerateServerSeed() (string, error) {
	return randomHex(serverSeedBytes)
}

// GenerateClientSeed returns 16 cryptographically random bytes, hex encoded.
func GenerateClientSeed() (string, error) {
	return randomHex(clientSeedBytes)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("fairness: read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Hash returns the hex SHA-256 of the seed's UTF-8 bytes. This is the
// commitment published before play.
func Hash(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// Combine returns HMAC-SHA-256 keyed by serverSeed over "serverSeed:clientSeed",
// hex encoded.
func Combine(serverSeed, clientSeed string) string {
	mac := hmac.New(sha256.New, []byte(serverSeed))
	mac.Write([]byte(serverSeed + ":" + clientSeed))
	return hex.EncodeToString(mac.Sum(nil))
}
