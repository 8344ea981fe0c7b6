package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

// Suits are declared in shoe construction order.
const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists every suit in shoe construction order
var Suits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

// String returns the single-letter code of a suit
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	default:
		return "?"
	}
}

// Symbol returns the unicode symbol of a suit
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank in shoe construction order
var Ranks = [...]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten:
		return fmt.Sprintf("%d", int(r))
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Value returns the blackjack point value of the rank. Aces count 11 here;
// hands soften them to 1 as needed.
func (r Rank) Value() int {
	switch r {
	case Ace:
		return 11
	case Jack, Queen, King:
		return 10
	default:
		return int(r)
	}
}

// Color is the printed colour of a card
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the record form of a card (e.g., "10H", "AS")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Unicode returns the display form of a card (e.g., "10♥")
func (c Card) Unicode() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Value returns the blackjack point value of the card
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Color returns the printed colour of the card
func (c Card) Color() Color {
	if c.IsRed() {
		return Red
	}
	return Black
}

// IsValid reports whether rank and suit are in range. The zero Card is invalid.
func (c Card) IsValid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Clubs && c.Suit <= Spades
}

// ParseCard parses the record form produced by Card.String. Ranks also accept
// "T" for ten; matching is case-insensitive.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	rankPart, suitPart := s[:len(s)-1], s[len(s)-1:]

	var suit Suit
	switch suitPart {
	case "C":
		suit = Clubs
	case "D":
		suit = Diamonds
	case "H":
		suit = Hearts
	case "S":
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}

	var rank Rank
	switch rankPart {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = Rank(rankPart[0] - '0')
	case "10", "T":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}

	return NewCard(rank, suit), nil
}

// MarshalText implements encoding.TextMarshaler using the record form
func (c Card) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid card %d/%d", c.Rank, c.Suit)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCards parses a list of record-form cards
func ParseCards(codes []string) ([]Card, error) {
	cards := make([]Card, 0, len(codes))
	for _, code := range codes {
		card, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Strings returns the record form of each card
func Strings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
