package fairness

import (
	"crypto/sha256"
	"encoding/binary"
	"iter"
	"strconv"
)

// FloatSource produces draws in [0, 1].
type FloatSource interface {
	Float64() float64
}

// Stream is the HMAC-rooted deterministic random stream. Draw i is the first
// 32 bits of SHA-256("<combined>:<i>") divided by 0xFFFFFFFF.
type Stream struct {
	combined string
	index    uint64
}

// NewStream creates a stream positioned at index 0.
func NewStream(serverSeed, clientSeed string) *Stream {
	return &Stream{combined: Combine(serverSeed, clientSeed)}
}

// Next returns the next draw and advances the stream.
func (s *Stream) Next() float64 {
	f := drawAt(s.combined, s.index)
	s.index++
	return f
}

// Float64 implements FloatSource.
func (s *Stream) Float64() float64 { return s.Next() }

// Index returns the index of the next draw.
func (s *Stream) Index() uint64 { return s.index }

// Reset restarts the stream from index 0.
func (s *Stream) Reset() { s.index = 0 }

// Floats returns the stream as an infinite sequence. Every range over the
// returned sequence starts again from index 0.
func Floats(serverSeed, clientSeed string) iter.Seq[float64] {
	combined := Combine(serverSeed, clientSeed)
	return func(yield func(float64) bool) {
		for i := uint64(0); ; i++ {
			if !yield(drawAt(combined, i)) {
				return
			}
		}
	}
}

func drawAt(combined string, i uint64) float64 {
	sum := sha256.Sum256([]byte(combined + ":" + strconv.FormatUint(i, 10)))
	return float64(binary.BigEndian.Uint32(sum[:4])) / 0xFFFFFFFF
}
