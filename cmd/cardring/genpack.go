package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/lox/cardring/internal/game"
	"github.com/lox/cardring/internal/pack"
	"github.com/lox/cardring/internal/randutil"
)

// GenPackCmd writes a valid, shuffled pack for a number of players
type GenPackCmd struct {
	Players int    `arg:"" help:"Number of players the pack is for"`
	Output  string `short:"o" help:"Pack file to write" default:"pack.txt"`
	Seed    *int64 `help:"Seed for the shuffle (random when unset)"`
}

func (c *GenPackCmd) Run() error {
	if c.Players < game.MinPlayers {
		return fmt.Errorf("%w: got %d", game.ErrTooFewPlayers, c.Players)
	}
	if filepath.Ext(c.Output) != ".txt" {
		return fmt.Errorf("%w: %s", pack.ErrExtension, c.Output)
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	values := pack.Generate(randutil.New(seed), c.Players)
	if err := pack.WriteFile(c.Output, values); err != nil {
		return fmt.Errorf("failed to write pack: %w", err)
	}

	fmt.Printf("Wrote %d cards for %d players to %s\n", len(values), c.Players, c.Output)
	return nil
}
