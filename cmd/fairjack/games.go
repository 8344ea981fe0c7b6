package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lox/fairjack/internal/store"
)

// GamesCmd lists the stored games
type GamesCmd struct {
	Verify bool `help:"Verify every revealed game"`
}

func (c *GamesCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Store.StoreSettings())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ids, err := st.List(ctx)
	if err != nil {
		return err
	}

	w := g.out()
	failed := 0
	for _, id := range ids {
		entry, err := st.Get(ctx, id)
		if err != nil {
			return err
		}
		status := "hidden"
		if entry.Record.Revealed() {
			status = "revealed"
		}
		if c.Verify && entry.Record.Revealed() {
			ok, err := entry.Verify()
			switch {
			case err != nil:
				status = "error: " + err.Error()
				failed++
			case ok:
				status = "verified"
			default:
				status = "FAILED"
				failed++
			}
		}
		fmt.Fprintf(w, "%s  %s  %3d rounds  %3d cards  %s\n",
			id, entry.UpdatedAt.Format(time.DateTime), entry.Rounds, len(entry.Dealt), status)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d games failed verification: %w", failed, len(ids), errVerificationFailed)
	}
	return nil
}
