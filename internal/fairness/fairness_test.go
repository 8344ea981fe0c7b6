package fairness

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testServerSeed = "server-seed"
	testClientSeed = "client-seed"
	// SHA-256("server-seed")
	testServerSeedHash = "91024ec49c5bec0b689e42892526320fce08337205c91de94c7a588c20d08eeb"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Hash("abc"))
	assert.Equal(t, testServerSeedHash, Hash(testServerSeed))
	assert.Equal(t, Hash("seed"), Hash("seed"), "hash must be stable")
}

func TestCombine(t *testing.T) {
	assert.Equal(t,
		"e203c71e98e8069dd45ae6b6d34b196435a44211a73db9e32fd8b32534ddd9b2",
		Combine(testServerSeed, testClientSeed))
	assert.NotEqual(t, Combine(testServerSeed, testClientSeed), Combine(testServerSeed, "other"))
}

func TestGenerateSeeds(t *testing.T) {
	server, err := GenerateServerSeed()
	require.NoError(t, err)
	raw, err := hex.DecodeString(server)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	client, err := GenerateClientSeed()
	require.NoError(t, err)
	raw, err = hex.DecodeString(client)
	require.NoError(t, err)
	assert.Len(t, raw, 16)

	other, err := GenerateServerSeed()
	require.NoError(t, err)
	assert.NotEqual(t, server, other)
}

func TestStreamKnownValues(t *testing.T) {
	s := NewStream(testServerSeed, testClientSeed)
	want := []float64{0.03772609425655708, 0.361219973853142, 0.420413020164802}
	for i, w := range want {
		assert.Equal(t, uint64(i), s.Index())
		assert.InDelta(t, w, s.Next(), 1e-12)
	}
}

func TestStreamReplay(t *testing.T) {
	a := NewStream(testServerSeed, testClientSeed)
	b := NewStream(testServerSeed, testClientSeed)

	first := make([]float64, 100)
	for i := range first {
		first[i] = a.Next()
		assert.Equal(t, first[i], b.Next())
		assert.GreaterOrEqual(t, first[i], 0.0)
		assert.LessOrEqual(t, first[i], 1.0)
	}

	a.Reset()
	for i := range first {
		assert.Equal(t, first[i], a.Next(), "draw %d after reset", i)
	}
}

func TestFloatsRestartable(t *testing.T) {
	seq := Floats(testServerSeed, testClientSeed)
	take := func() []float64 {
		var out []float64
		for f := range seq {
			out = append(out, f)
			if len(out) == 10 {
				break
			}
		}
		return out
	}

	first := take()
	second := take()
	assert.Equal(t, first, second)

	s := NewStream(testServerSeed, testClientSeed)
	for _, f := range first {
		assert.Equal(t, s.Next(), f)
	}
}

func TestSeededRandomKnownValues(t *testing.T) {
	assert.Equal(t, int64(1672916212), stringHash(testServerSeed+":"+testClientSeed))

	r := NewSeededRandom(testServerSeed, testClientSeed)
	want := []float64{0.03356052812071331, 0.35779320987654323, 0.04596622085048011}
	for _, w := range want {
		assert.InDelta(t, w, r.Float64(), 1e-12)
	}
}

func TestSeededRandomReplay(t *testing.T) {
	a := NewSeededRandom("s", "c")
	b := NewSeededRandom("s", "c")
	for i := 0; i < 1000; i++ {
		f := a.Float64()
		require.Equal(t, f, b.Float64())
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestStringHashWraps(t *testing.T) {
	assert.Equal(t, int64(0), stringHash(""))
	assert.Equal(t, int64('a'), stringHash("a"))
	// Long inputs overflow 32 bits; result must stay non-negative.
	long := ""
	for i := 0; i < 200; i++ {
		long += "ff"
	}
	assert.GreaterOrEqual(t, stringHash(long), int64(0))
}

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func TestShuffleClampsUpperBound(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}
	Shuffle(items, constSource(1.0))
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, items)
	// a draw of 1.0 swaps each element with itself
	assert.Equal(t, []int{0, 1, 2, 3, 4}, items)
}

func TestShuffleDeterministic(t *testing.T) {
	mk := func() []int {
		items := make([]int, 52)
		for i := range items {
			items[i] = i
		}
		return items
	}

	a, b := mk(), mk()
	Shuffle(a, NewSeededRandom(testServerSeed, testClientSeed))
	Shuffle(b, NewSeededRandom(testServerSeed, testClientSeed))
	assert.Equal(t, a, b)
	assert.NotEqual(t, mk(), a)
	assert.ElementsMatch(t, mk(), a)

	c := mk()
	Shuffle(c, NewSeededRandom(testServerSeed, "other"))
	assert.NotEqual(t, a, c)
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmSeeded, alg)

	alg, err = ParseAlgorithm("hmac-sha256")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmHMAC, alg)

	_, err = ParseAlgorithm("mt19937")
	assert.Error(t, err)
}

func TestNewRecord(t *testing.T) {
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))

	rec, err := NewRecord("game-1", testClientSeed, 6, "",
		WithClock(clock),
		WithServerSeedGenerator(func() (string, error) { return testServerSeed, nil }),
	)
	require.NoError(t, err)

	assert.Equal(t, testServerSeed, rec.ServerSeed)
	assert.Equal(t, testServerSeedHash, rec.ServerSeedHash)
	assert.Equal(t, testClientSeed, rec.ClientSeed)
	assert.Equal(t, Combine(testServerSeed, testClientSeed), rec.CombinedHash)
	assert.Equal(t, clock.Now().UnixMilli(), rec.Timestamp)
	assert.Equal(t, "game-1", rec.GameID)
	assert.Equal(t, 6, rec.DeckCount)
	assert.Equal(t, AlgorithmSeeded, rec.Algorithm)
	assert.True(t, rec.Verify())
}

func TestNewRecordGeneratesClientSeed(t *testing.T) {
	rec, err := NewRecord("game-2", "", 1, AlgorithmHMAC)
	require.NoError(t, err)
	assert.Len(t, rec.ClientSeed, 32)
	assert.Len(t, rec.ServerSeed, 64)
	assert.True(t, rec.Verify())
}

func TestNewRecordRejectsBadDeckCount(t *testing.T) {
	_, err := NewRecord("game-3", "c", 0, AlgorithmSeeded)
	assert.Error(t, err)
}

func TestRecordRedacted(t *testing.T) {
	rec, err := NewRecord("game-4", "c", 1, AlgorithmSeeded)
	require.NoError(t, err)
	red := rec.Redacted()
	assert.False(t, red.Revealed())
	assert.True(t, rec.Revealed())
	assert.Equal(t, rec.ServerSeedHash, red.ServerSeedHash)
	assert.False(t, red.Verify())
}

func TestVerifyCommitment(t *testing.T) {
	assert.True(t, VerifyCommitment(testServerSeed, testServerSeedHash))
	assert.True(t, VerifyCommitment(testServerSeed, "91024EC49C5BEC0B689E42892526320FCE08337205C91DE94C7A588C20D08EEB"))
	assert.False(t, VerifyCommitment("tampered", testServerSeedHash))
	assert.False(t, VerifyCommitment(testServerSeed, "00"))
	assert.False(t, VerifyCommitment("", ""))
}

func TestVerifyOrder(t *testing.T) {
	fresh := make([]int, 52)
	for i := range fresh {
		fresh[i] = i
	}
	order := make([]int, len(fresh))
	copy(order, fresh)
	Shuffle(order, NewSeededRandom(testServerSeed, testClientSeed))

	assert.True(t, VerifyOrder(testServerSeed, testServerSeedHash, testClientSeed, AlgorithmSeeded, fresh, order[:10]))
	assert.True(t, VerifyOrder(testServerSeed, testServerSeedHash, testClientSeed, AlgorithmSeeded, fresh, nil))

	tampered := append([]int{}, order[:10]...)
	tampered[3], tampered[4] = tampered[4], tampered[3]
	assert.False(t, VerifyOrder(testServerSeed, testServerSeedHash, testClientSeed, AlgorithmSeeded, fresh, tampered))
	assert.False(t, VerifyOrder(testServerSeed, testServerSeedHash, "other", AlgorithmSeeded, fresh, order[:10]))
	assert.False(t, VerifyOrder(testServerSeed, testServerSeedHash, testClientSeed, AlgorithmHMAC, fresh, order[:10]))
	assert.False(t, VerifyOrder("x", testServerSeedHash, testClientSeed, AlgorithmSeeded, fresh, order[:10]))
	assert.False(t, VerifyOrder(testServerSeed, testServerSeedHash, testClientSeed, AlgorithmSeeded, fresh[:5], order[:10]))
}
