// Package gameid generates the identifiers fairness records are stored under.
// IDs are UUIDv7 values written as 26 lowercase Crockford base32 characters,
// so they sort by creation time.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet, as used by TypeID
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the length of an encoded ID
const Length = 26

// Generator creates game IDs from a configurable entropy source
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator reading entropy from r. A nil reader uses
// crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a new game ID from crypto/rand entropy
func Generate() string {
	id, err := NewGenerator(nil).Generate()
	if err != nil {
		panic("gameid: " + err.Error())
	}
	return id
}

// Generate creates a new game ID
func (g *Generator) Generate() (string, error) {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return Encode(id), nil
}

// Encode writes a UUID as 26 base32 characters. The 128 bits are left-padded
// with two zero bits, so the first character is always 0-7.
func Encode(id uuid.UUID) string {
	out := make([]byte, Length)
	for i := range out {
		var v byte
		for b := 0; b < 5; b++ {
			bit := i*5 + b - 2
			v <<= 1
			if bit >= 0 && id[bit/8]&(0x80>>(bit%8)) != 0 {
				v |= 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

// Decode parses an encoded ID back into a UUID
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}
	for i := 0; i < Length; i++ {
		v := byte(strings.IndexByte(alphabet, s[i]))
		for b := 0; b < 5; b++ {
			bit := i*5 + b - 2
			if bit < 0 {
				continue
			}
			if v&(0x10>>b) != 0 {
				id[bit/8] |= 0x80 >> (bit % 8)
			}
		}
	}
	return id, nil
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}

	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
