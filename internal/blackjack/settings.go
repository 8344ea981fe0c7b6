package blackjack

import (
	"errors"
	"fmt"

	"github.com/lox/fairjack/internal/fairness"
)

// Settings are the table rules of an engine
type Settings struct {
	DeckCount            int                `json:"deckCount"`
	MinBet               Money              `json:"minBet"`
	MaxBet               Money              `json:"maxBet"`
	PenetrationThreshold float64            `json:"penetrationThreshold"`
	DealerHitsSoft17     bool               `json:"dealerHitsSoft17"`
	DoubleAfterSplit     bool               `json:"doubleAfterSplit"`
	SurrenderAllowed     bool               `json:"surrenderAllowed"`
	InsuranceAllowed     bool               `json:"insuranceAllowed"`
	BlackjackPayout      float64            `json:"blackjackPayout"`
	StartingBalance      Money              `json:"startingBalance"`
	Algorithm            fairness.Algorithm `json:"algorithm"`
	RevealPolicy         RevealPolicy       `json:"revealPolicy"`
}

// DefaultSettings returns a six-deck, dealer-stands-soft-17, 3:2 table
func DefaultSettings() Settings {
	return Settings{
		DeckCount:            6,
		MinBet:               10,
		MaxBet:               1000,
		PenetrationThreshold: 0.75,
		DealerHitsSoft17:     false,
		DoubleAfterSplit:     true,
		SurrenderAllowed:     true,
		InsuranceAllowed:     true,
		BlackjackPayout:      1.5,
		StartingBalance:      1000,
		Algorithm:            fairness.AlgorithmSeeded,
		RevealPolicy:         RevealOnShoeEnd,
	}
}

// Validate checks the rules for consistency
func (s Settings) Validate() error {
	var errs []error
	if s.DeckCount < 1 {
		errs = append(errs, fmt.Errorf("deck count must be at least 1, got %d", s.DeckCount))
	}
	if s.MinBet < 1 {
		errs = append(errs, fmt.Errorf("min bet must be positive, got %d", s.MinBet))
	}
	if s.MaxBet < s.MinBet {
		errs = append(errs, fmt.Errorf("max bet %d is below min bet %d", s.MaxBet, s.MinBet))
	}
	if s.PenetrationThreshold <= 0 || s.PenetrationThreshold > 1 {
		errs = append(errs, fmt.Errorf("penetration threshold must be in (0, 1], got %g", s.PenetrationThreshold))
	}
	if s.BlackjackPayout <= 0 {
		errs = append(errs, fmt.Errorf("blackjack payout must be positive, got %g", s.BlackjackPayout))
	}
	if s.StartingBalance < 0 {
		errs = append(errs, fmt.Errorf("starting balance must not be negative, got %d", s.StartingBalance))
	}
	if _, err := fairness.ParseAlgorithm(string(s.Algorithm)); err != nil {
		errs = append(errs, err)
	}
	switch s.RevealPolicy {
	case RevealOnRoundEnd, RevealOnShoeEnd:
	default:
		errs = append(errs, fmt.Errorf("unknown reveal policy %q", s.RevealPolicy))
	}
	return errors.Join(errs...)
}
