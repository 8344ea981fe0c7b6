package blackjack

import (
	"slices"

	"github.com/lox/fairjack/internal/deck"
	"github.com/lox/fairjack/internal/fairness"
)

// HandView is a read-only copy of a hand
type HandView struct {
	Cards   []deck.Card `json:"cards"`
	Value   int         `json:"value"`
	Soft    bool        `json:"soft"`
	Status  HandStatus  `json:"status"`
	Bet     Money       `json:"bet"`
	Doubled bool        `json:"doubled"`
	Split   bool        `json:"split"`
	Hidden  int         `json:"hidden,omitempty"`
}

func viewHand(h *Hand) HandView {
	value, soft := h.SoftValue()
	return HandView{
		Cards:   h.Cards(),
		Value:   value,
		Soft:    soft,
		Status:  h.status,
		Bet:     h.bet,
		Doubled: h.doubled,
		Split:   h.split,
	}
}

func (v HandView) clone() HandView {
	v.Cards = slices.Clone(v.Cards)
	return v
}

// IsBlackjack returns true if the view shows a natural
func (v HandView) IsBlackjack() bool {
	return v.Status == StatusBlackjack
}

// PlayerView is a read-only copy of the player
type PlayerView struct {
	Balance     Money      `json:"balance"`
	Hands       []HandView `json:"hands"`
	CurrentHand int        `json:"currentHand"`
	Insurance   Money      `json:"insurance"`
}

// ShoeView describes the shoe without exposing undealt cards. Rounds counts
// the rounds settled from it.
type ShoeView struct {
	DeckCount   int         `json:"deckCount"`
	Size        int         `json:"size"`
	Remaining   int         `json:"remaining"`
	Penetration float64     `json:"penetration"`
	Dealt       []deck.Card `json:"dealt,omitempty"`
	Rounds      int         `json:"rounds"`
}

// Snapshot is a deep copy of the engine state. Mutating it never affects the
// engine. It is the operator view: the dealer's hole card and the server seed
// are included. Use Public before handing it to a player.
type Snapshot struct {
	Phase            Phase            `json:"phase"`
	Player           PlayerView       `json:"player"`
	Dealer           HandView         `json:"dealer"`
	Shoe             ShoeView         `json:"shoe"`
	Settings         Settings         `json:"settings"`
	Fairness         *fairness.Record `json:"fairness,omitempty"`
	PreviousFairness *fairness.Record `json:"previousFairness,omitempty"`
	History          []RoundResult    `json:"history"`
	Result           *RoundResult     `json:"result,omitempty"`
	Actions          []Action         `json:"actions"`
	Rounds           int              `json:"rounds"`
}

// CurrentHand returns the hand the player is acting on
func (s Snapshot) CurrentHand() (HandView, bool) {
	if s.Player.CurrentHand < 0 || s.Player.CurrentHand >= len(s.Player.Hands) {
		return HandView{}, false
	}
	return s.Player.Hands[s.Player.CurrentHand], true
}

// DealerUpCard returns the dealer's face-up card
func (s Snapshot) DealerUpCard() (deck.Card, bool) {
	if len(s.Dealer.Cards) == 0 {
		return deck.Card{}, false
	}
	return s.Dealer.Cards[0], true
}

// Can returns true if action is currently available
func (s Snapshot) Can(action Action) bool {
	return slices.Contains(s.Actions, action)
}

// holeHidden reports whether the dealer's second card is still face down
func (s Snapshot) holeHidden() bool {
	return s.Phase == Dealing || s.Phase == PlayerTurn
}

// Public returns a copy safe to show the player: the dealer's hole card and
// the dealt-card list are withheld while the hand is live, and the server seed
// is withheld until the reveal policy allows it. A player natural still in
// PlayerTurn implies a dealer natural, since an unmatched one settles at once.
func (s Snapshot) Public() Snapshot {
	out := s.clone()
	if out.holeHidden() && len(out.Dealer.Cards) > 1 {
		hidden := len(out.Dealer.Cards) - 1
		out.Dealer.Cards = out.Dealer.Cards[:1]
		out.Dealer.Value = out.Dealer.Cards[0].Value()
		out.Dealer.Soft = out.Dealer.Cards[0].IsAce()
		out.Dealer.Status = StatusActive
		out.Dealer.Hidden = hidden
		out.Shoe.Dealt = nil
	}
	if out.Fairness != nil && !s.seedRevealable() {
		redacted := out.Fairness.Redacted()
		out.Fairness = &redacted
	}
	return out
}

func (s Snapshot) seedRevealable() bool {
	switch s.Settings.RevealPolicy {
	case RevealOnShoeEnd:
		return false
	default:
		return s.Phase == Finished
	}
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Player.Hands = make([]HandView, len(s.Player.Hands))
	for i, h := range s.Player.Hands {
		out.Player.Hands[i] = h.clone()
	}
	out.Dealer = s.Dealer.clone()
	out.Shoe.Dealt = slices.Clone(s.Shoe.Dealt)
	if s.Fairness != nil {
		rec := *s.Fairness
		out.Fairness = &rec
	}
	if s.PreviousFairness != nil {
		rec := *s.PreviousFairness
		out.PreviousFairness = &rec
	}
	out.History = make([]RoundResult, len(s.History))
	for i, r := range s.History {
		out.History[i] = r.clone()
	}
	if s.Result != nil {
		res := s.Result.clone()
		out.Result = &res
	}
	out.Actions = slices.Clone(s.Actions)
	return out
}
