package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairjack/internal/deck"
)

func mustCards(t *testing.T, codes ...string) []deck.Card {
	t.Helper()
	cards, err := deck.ParseCards(codes)
	require.NoError(t, err)
	return cards
}

func handOf(t *testing.T, codes ...string) *Hand {
	t.Helper()
	h := NewHand(10)
	for _, c := range mustCards(t, codes...) {
		h.AddCard(c)
	}
	return h
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name      string
		cards     []string
		value     int
		soft      bool
		blackjack bool
		status    HandStatus
	}{
		{name: "pair of aces", cards: []string{"AS", "AH"}, value: 12, soft: true, status: StatusActive},
		// Soft means an ace still counts 11 after softening (11+1+9), the
		// definition the dealer-hits-soft-17 rule reads.
		{name: "two aces and nine", cards: []string{"AS", "AH", "9C"}, value: 21, soft: true, status: StatusActive},
		{name: "natural", cards: []string{"10D", "AS"}, value: 21, soft: true, blackjack: true, status: StatusBlackjack},
		{name: "three card 21", cards: []string{"5C", "6D", "QH"}, value: 21, status: StatusActive},
		{name: "soft 17", cards: []string{"AC", "6D"}, value: 17, soft: true, status: StatusActive},
		{name: "hard 17", cards: []string{"AC", "6D", "KS"}, value: 17, status: StatusActive},
		{name: "busted", cards: []string{"KC", "QD", "5H"}, value: 25, status: StatusBusted},
		{name: "four aces", cards: []string{"AC", "AD", "AH", "AS"}, value: 14, soft: true, status: StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handOf(t, tt.cards...)
			assert.Equal(t, tt.value, h.Value())
			value, soft := h.SoftValue()
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.soft, soft)
			assert.Equal(t, tt.soft, h.IsSoft())
			assert.Equal(t, tt.blackjack, h.IsBlackjack())
			assert.Equal(t, tt.status, h.Status())
			assert.Equal(t, tt.value > 21, h.IsBusted())
			assert.Equal(t, len(tt.cards), h.Len())
		})
	}
}

func TestSplitHandIsNeverBlackjack(t *testing.T) {
	h := NewHand(10)
	h.split = true
	for _, c := range mustCards(t, "AS", "KD") {
		h.AddCard(c)
	}
	assert.Equal(t, 21, h.Value())
	assert.False(t, h.IsBlackjack())
	assert.Equal(t, StatusActive, h.Status())
}

func TestHandPredicates(t *testing.T) {
	pair := handOf(t, "8C", "8D")
	assert.True(t, pair.CanHit())
	assert.True(t, pair.CanDouble())
	assert.True(t, pair.CanSplit())
	assert.True(t, pair.CanSurrender())

	mixed := handOf(t, "KC", "QD")
	assert.False(t, mixed.CanSplit(), "different ranks")

	three := handOf(t, "2C", "3D", "4H")
	assert.True(t, three.CanHit())
	assert.False(t, three.CanDouble())
	assert.False(t, three.CanSurrender())

	twentyOne := handOf(t, "7C", "7D", "7H")
	assert.False(t, twentyOne.CanHit())

	doubled := handOf(t, "5C", "6D")
	doubled.double()
	assert.Equal(t, Money(20), doubled.Bet())
	assert.True(t, doubled.IsDoubled())
	assert.False(t, doubled.CanHit())
	assert.False(t, doubled.CanDouble())
}

func TestHandStatusMonotonic(t *testing.T) {
	h := handOf(t, "10C", "6D")
	h.Stand()
	assert.Equal(t, StatusStanding, h.Status())

	h.Surrender()
	assert.Equal(t, StatusStanding, h.Status(), "surrender after stand is a no-op")

	busted := handOf(t, "10C", "6D", "9S")
	busted.Stand()
	assert.Equal(t, StatusBusted, busted.Status())

	natural := handOf(t, "AC", "KD")
	natural.Stand()
	assert.Equal(t, StatusBlackjack, natural.Status())
}

func TestHandCardsIsCopy(t *testing.T) {
	h := handOf(t, "AC", "KD")
	cards := h.Cards()
	cards[0] = deck.NewCard(deck.Two, deck.Clubs)
	assert.Equal(t, 21, h.Value())

	c, ok := h.Card(1)
	require.True(t, ok)
	assert.Equal(t, "KD", c.String())
	_, ok = h.Card(2)
	assert.False(t, ok)
}

func TestHandString(t *testing.T) {
	assert.Equal(t, "AS 7D (18)", handOf(t, "AS", "7D").String())
}
