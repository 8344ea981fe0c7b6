package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dealTo(t *testing.T, p *Player, codes ...string) {
	t.Helper()
	hand, ok := p.CurrentHand()
	require.True(t, ok)
	for _, c := range mustCards(t, codes...) {
		hand.AddCard(c)
	}
}

func TestPlayerPlaceBet(t *testing.T) {
	p := NewPlayer(1000)
	assert.False(t, p.PlaceBet(0))
	assert.False(t, p.PlaceBet(1001))
	require.True(t, p.PlaceBet(100))
	assert.Equal(t, Money(900), p.Balance())
	assert.False(t, p.PlaceBet(100), "one bet per round")
	assert.Equal(t, Money(100), p.TotalWagered())
}

func TestPlayerSplit(t *testing.T) {
	p := NewPlayer(1000)
	require.True(t, p.PlaceBet(100))
	dealTo(t, p, "8C", "8D")

	require.True(t, p.SplitHand())
	assert.Equal(t, Money(800), p.Balance())

	hands := p.Hands()
	require.Len(t, hands, 2)
	for _, h := range hands {
		assert.Equal(t, 1, h.Len())
		assert.True(t, h.IsSplit())
		assert.Equal(t, Money(100), h.Bet())
		assert.Equal(t, 8, h.Value())
	}
	assert.Equal(t, 0, p.CurrentIndex())
	assert.False(t, p.SplitHand(), "single card cannot split")
	assert.Equal(t, Money(200), p.TotalWagered())
}

func TestPlayerSplitRequiresBalance(t *testing.T) {
	p := NewPlayer(150)
	require.True(t, p.PlaceBet(100))
	dealTo(t, p, "8C", "8D")
	assert.False(t, p.SplitHand())
	assert.Equal(t, Money(50), p.Balance())
	assert.Len(t, p.Hands(), 1)
}

func TestPlayerSplitInsertsAfterCurrent(t *testing.T) {
	p := NewPlayer(1000)
	require.True(t, p.PlaceBet(10))
	dealTo(t, p, "8C", "8D")
	require.True(t, p.SplitHand())

	// Give the second hand a marker card and check ordering after advancing.
	p.hands[1].AddCard(mustCards(t, "2S")[0])
	require.True(t, p.NextHand())
	hand, ok := p.CurrentHand()
	require.True(t, ok)
	assert.Equal(t, 10, hand.Value())
	assert.False(t, p.HasMoreHands())
	assert.False(t, p.NextHand())
}

func TestPlayerDoubleDown(t *testing.T) {
	p := NewPlayer(1000)
	require.True(t, p.PlaceBet(100))
	dealTo(t, p, "5C", "6D")
	require.True(t, p.DoubleDown())
	assert.Equal(t, Money(800), p.Balance())
	hand, _ := p.CurrentHand()
	assert.Equal(t, Money(200), hand.Bet())
	assert.False(t, p.DoubleDown())
}

func TestPlayerDoubleDownRequiresBalance(t *testing.T) {
	p := NewPlayer(150)
	require.True(t, p.PlaceBet(100))
	dealTo(t, p, "5C", "6D")
	assert.False(t, p.DoubleDown())
	assert.Equal(t, Money(50), p.Balance())
}

func TestPlayerInsurance(t *testing.T) {
	p := NewPlayer(1000)
	require.True(t, p.PlaceBet(100))
	dealTo(t, p, "10C", "9D")

	assert.False(t, p.PlaceInsurance(0))
	assert.False(t, p.PlaceInsurance(51), "more than half the bet")
	require.True(t, p.PlaceInsurance(50))
	assert.Equal(t, Money(850), p.Balance())
	assert.Equal(t, Money(50), p.Insurance())
	assert.False(t, p.PlaceInsurance(10), "once per round")

	require.True(t, p.Win(150))
	assert.Equal(t, Money(1000), p.Balance())
	assert.False(t, p.Win(-1))
}

func TestPlayerSurrender(t *testing.T) {
	p := NewPlayer(1000)
	require.True(t, p.PlaceBet(100))
	dealTo(t, p, "10C", "6D")
	require.True(t, p.Surrender())
	assert.Equal(t, Money(950), p.Balance())
	assert.Empty(t, p.ActiveHands())
	assert.False(t, p.Surrender())
}

func TestPlayerResetHands(t *testing.T) {
	p := NewPlayer(1000)
	require.True(t, p.PlaceBet(100))
	dealTo(t, p, "10C", "6D")
	require.True(t, p.PlaceInsurance(50))
	p.ResetHands()

	assert.Empty(t, p.Hands())
	assert.Equal(t, Money(0), p.Insurance())
	_, ok := p.CurrentHand()
	assert.False(t, ok)
	assert.Equal(t, Money(850), p.Balance())
}
