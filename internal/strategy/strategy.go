// Package strategy provides automated players for simulations.
package strategy

import (
	"fmt"

	"github.com/lox/fairjack/internal/blackjack"
)

// Strategy chooses an action from the engine's current snapshot. It is only
// consulted during PlayerTurn, and must return one of snap.Actions.
type Strategy interface {
	Decide(snap blackjack.Snapshot) blackjack.Action
	Name() string
}

// ByName returns the strategy registered under name
func ByName(name string) (Strategy, error) {
	switch name {
	case "", "basic":
		return Basic{}, nil
	case "mimic":
		return Mimic{}, nil
	case "never-bust":
		return NeverBust{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// Names lists the registered strategies
func Names() []string {
	return []string{"basic", "mimic", "never-bust"}
}

// Mimic plays like the dealer: hit below 17, stand otherwise
type Mimic struct{}

func (Mimic) Name() string { return "mimic" }

func (Mimic) Decide(snap blackjack.Snapshot) blackjack.Action {
	hand, ok := snap.CurrentHand()
	if ok && hand.Value < 17 && snap.Can(blackjack.Hit) {
		return blackjack.Hit
	}
	return blackjack.Stand
}

// NeverBust stands on any total that could bust with one more card
type NeverBust struct{}

func (NeverBust) Name() string { return "never-bust" }

func (NeverBust) Decide(snap blackjack.Snapshot) blackjack.Action {
	hand, ok := snap.CurrentHand()
	if ok && (hand.Value < 12 || hand.Soft && hand.Value < 18) && snap.Can(blackjack.Hit) {
		return blackjack.Hit
	}
	return blackjack.Stand
}
