// Package deck provides cards and the multi-deck shoe they are dealt from.
package deck

import (
	"github.com/lox/fairjack/internal/fairness"
)

// CardsPerDeck is the size of one standard deck.
const CardsPerDeck = 52

// DefaultPenetration is the fraction of the shoe dealt before a reshuffle.
const DefaultPenetration = 0.75

// Shoe is an ordered multi-deck shoe. A cursor separates dealt cards from
// undealt ones; dealing never reorders the shoe.
type Shoe struct {
	cards     []Card
	dealt     int
	deckCount int
}

// NewShoe creates an ordered, unshuffled shoe of deckCount decks. Counts below
// one are treated as one.
func NewShoe(deckCount int) *Shoe {
	if deckCount < 1 {
		deckCount = 1
	}
	s := &Shoe{deckCount: deckCount}
	s.Reset()
	return s
}

// NewStackedShoe creates a shoe that deals cards in exactly the given order.
// It is used to replay recorded deals and to arrange deals in tests.
func NewStackedShoe(cards []Card) *Shoe {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{
		cards:     stacked,
		deckCount: (len(cards) + CardsPerDeck - 1) / CardsPerDeck,
	}
}

// Reset rebuilds the ordered, unshuffled shoe: per deck, suits in Suits order,
// ranks in Ranks order.
func (s *Shoe) Reset() {
	s.cards = freshOrder(s.deckCount, s.cards[:0])
	s.dealt = 0
}

func freshOrder(deckCount int, buf []Card) []Card {
	if cap(buf) < deckCount*CardsPerDeck {
		buf = make([]Card, 0, deckCount*CardsPerDeck)
	}
	for d := 0; d < deckCount; d++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				buf = append(buf, NewCard(rank, suit))
			}
		}
	}
	return buf
}

// Shuffle shuffles the whole shoe with the seeded generator keyed by the seed
// pair and rewinds the cursor.
func (s *Shoe) Shuffle(serverSeed, clientSeed string) {
	s.ShuffleWith(fairness.NewSeededRandom(serverSeed, clientSeed))
}

// ShuffleWith shuffles the whole shoe from src and rewinds the cursor.
func (s *Shoe) ShuffleWith(src fairness.FloatSource) {
	fairness.Shuffle(s.cards, src)
	s.dealt = 0
}

// Deal returns the next undealt card. It returns false once the shoe is
// exhausted, on every call, until Reset.
func (s *Shoe) Deal() (Card, bool) {
	if s.dealt >= len(s.cards) {
		return Card{}, false
	}
	card := s.cards[s.dealt]
	s.dealt++
	return card, true
}

// Len returns the total number of cards in the shoe
func (s *Shoe) Len() int {
	return len(s.cards)
}

// DeckCount returns the number of decks the shoe was built from
func (s *Shoe) DeckCount() int {
	return s.deckCount
}

// Dealt returns the number of cards dealt since the last shuffle
func (s *Shoe) Dealt() int {
	return s.dealt
}

// CardsRemaining returns the number of cards left to deal
func (s *Shoe) CardsRemaining() int {
	return len(s.cards) - s.dealt
}

// Penetration returns the fraction of the shoe already dealt
func (s *Shoe) Penetration() float64 {
	if len(s.cards) == 0 {
		return 1
	}
	return float64(s.dealt) / float64(len(s.cards))
}

// NeedsReshuffle reports whether penetration has reached threshold
func (s *Shoe) NeedsReshuffle(threshold float64) bool {
	return s.Penetration() >= threshold
}

// DealtCards returns a copy of the cards dealt since the last shuffle, in
// dealing order
func (s *Shoe) DealtCards() []Card {
	out := make([]Card, s.dealt)
	copy(out, s.cards[:s.dealt])
	return out
}

// Cards returns a copy of the full shoe order
func (s *Shoe) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Clone returns an independent copy of the shoe, cursor included
func (s *Shoe) Clone() *Shoe {
	return &Shoe{cards: s.Cards(), dealt: s.dealt, deckCount: s.deckCount}
}
