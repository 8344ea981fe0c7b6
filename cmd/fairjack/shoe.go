package main

import (
	"fmt"
	"strings"

	"github.com/lox/fairjack/internal/deck"
	"github.com/lox/fairjack/internal/fairness"
)

// ShoeCmd prints the shoe a seed pair produces
type ShoeCmd struct {
	ServerSeed string `required:"" help:"Server seed"`
	ClientSeed string `required:"" help:"Client seed"`
	Decks      int    `default:"6" help:"Decks in the shoe"`
	Algorithm  string `default:"seeded" enum:"seeded,hmac-sha256" help:"Shuffle algorithm"`
	Limit      int    `default:"52" help:"Cards to print (0 for the whole shoe)"`
}

func (c *ShoeCmd) Run(g *Globals) error {
	if c.Decks < 1 {
		return fmt.Errorf("decks must be at least 1, got %d", c.Decks)
	}
	alg, err := fairness.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}

	rec := fairness.Record{
		ServerSeed:     c.ServerSeed,
		ServerSeedHash: fairness.Hash(c.ServerSeed),
		ClientSeed:     c.ClientSeed,
		DeckCount:      c.Decks,
		Algorithm:      alg,
	}
	shoe, ok := deck.Replay(rec)
	if !ok {
		return fmt.Errorf("could not replay shoe")
	}

	cards := shoe.Cards()
	if c.Limit > 0 && c.Limit < len(cards) {
		cards = cards[:c.Limit]
	}

	w := g.out()
	fmt.Fprintf(w, "Commitment: %s\n", rec.ServerSeedHash)
	fmt.Fprintf(w, "Combined:   %s\n", fairness.Combine(c.ServerSeed, c.ClientSeed))
	codes := deck.Strings(cards)
	for i := 0; i < len(codes); i += 13 {
		end := min(i+13, len(codes))
		fmt.Fprintf(w, "%4d: %s\n", i+1, strings.Join(codes[i:end], " "))
	}
	return nil
}
