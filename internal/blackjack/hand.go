package blackjack

import (
	"strconv"
	"strings"

	"github.com/lox/fairjack/internal/deck"
)

// Hand is one set of cards with its own wager. The player may hold several
// after splitting; the dealer holds exactly one.
type Hand struct {
	cards   []deck.Card
	status  HandStatus
	bet     Money
	doubled bool
	split   bool
}

// NewHand creates an empty active hand carrying bet
func NewHand(bet Money) *Hand {
	return &Hand{bet: bet, cards: make([]deck.Card, 0, 4)}
}

// AddCard appends a card and recomputes the status. A hand over 21 busts; two
// cards totalling 21 on a hand that was not split is a natural.
func (h *Hand) AddCard(c deck.Card) {
	h.cards = append(h.cards, c)
	if h.status != StatusActive {
		return
	}
	switch {
	case h.Value() > 21:
		h.status = StatusBusted
	case h.IsBlackjack():
		h.status = StatusBlackjack
	}
}

// Cards returns a copy of the hand's cards
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards in the hand
func (h *Hand) Len() int { return len(h.cards) }

// Card returns the i-th card
func (h *Hand) Card(i int) (deck.Card, bool) {
	if i < 0 || i >= len(h.cards) {
		return deck.Card{}, false
	}
	return h.cards[i], true
}

func (h *Hand) Status() HandStatus { return h.status }
func (h *Hand) Bet() Money         { return h.bet }
func (h *Hand) IsDoubled() bool    { return h.doubled }
func (h *Hand) IsSplit() bool      { return h.split }

// total returns the best total and how many aces still count as 11
func (h *Hand) total() (int, int) {
	value, aces := 0, 0
	for _, c := range h.cards {
		value += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value, aces
}

// Value returns the best total: aces count 11 and are softened to 1 one at a
// time while the total exceeds 21.
func (h *Hand) Value() int {
	v, _ := h.total()
	return v
}

// SoftValue returns the total and true when at least one ace still counts 11
func (h *Hand) SoftValue() (int, bool) {
	v, soft := h.total()
	return v, soft > 0
}

// IsSoft returns true if an ace in the hand counts as 11
func (h *Hand) IsSoft() bool {
	_, soft := h.SoftValue()
	return soft
}

// IsBlackjack returns true for a two-card 21 on a hand that was not split
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && !h.split && h.Value() == 21
}

// IsBusted returns true if the hand is over 21
func (h *Hand) IsBusted() bool { return h.Value() > 21 }

// CanHit returns true if the hand may take another card
func (h *Hand) CanHit() bool {
	return h.status == StatusActive && !h.doubled && h.Value() < 21
}

// CanDouble returns true if the hand may be doubled. Balance and table rules
// are checked by the player and engine.
func (h *Hand) CanDouble() bool {
	return h.status == StatusActive && len(h.cards) == 2 && !h.doubled
}

// CanSplit returns true for an active pair of equal rank that has not already
// been split.
func (h *Hand) CanSplit() bool {
	return h.status == StatusActive && len(h.cards) == 2 && !h.split && !h.doubled &&
		h.cards[0].Rank == h.cards[1].Rank
}

// CanSurrender returns true before the hand has drawn a third card
func (h *Hand) CanSurrender() bool {
	return h.status == StatusActive && len(h.cards) == 2 && !h.split && !h.doubled
}

// Stand freezes an active hand. It is a no-op once the hand is settled.
func (h *Hand) Stand() {
	if h.status == StatusActive {
		h.status = StatusStanding
	}
}

// Surrender forfeits an active hand. It is a no-op once the hand is settled.
func (h *Hand) Surrender() {
	if h.status == StatusActive {
		h.status = StatusSurrendered
	}
}

func (h *Hand) double() {
	h.bet *= 2
	h.doubled = true
}

func (h *Hand) clone() *Hand {
	c := *h
	c.cards = h.Cards()
	return &c
}

// String returns the cards of the hand and its value (e.g., "AS 7D (18)")
func (h *Hand) String() string {
	var sb strings.Builder
	for i, c := range h.cards {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	sb.WriteString(" (")
	sb.WriteString(strconv.Itoa(h.Value()))
	sb.WriteByte(')')
	return sb.String()
}
