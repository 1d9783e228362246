package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/cardring/cmd/cardring/shared"
	"github.com/lox/cardring/internal/card"
	"github.com/lox/cardring/internal/config"
	"github.com/lox/cardring/internal/eventlog"
	"github.com/lox/cardring/internal/game"
	"github.com/lox/cardring/internal/pack"
)

// PlayCmd runs a single game
type PlayCmd struct {
	Config    string `short:"c" help:"HCL config file" default:"${config_file}" env:"CARDRING_CONFIG"`
	Players   int    `short:"n" help:"Number of players (prompted when unset)" env:"CARDRING_PLAYERS"`
	Pack      string `short:"p" help:"Pack file, one card value per line (prompted when unset)" env:"CARDRING_PACK"`
	OutputDir string `short:"o" help:"Directory for player and deck output files" env:"CARDRING_OUTPUT_DIR"`
	Seed      *int64 `help:"Seed for discard choices (random when unset)" env:"CARDRING_SEED"`
	Timeout   string `help:"Abort the game if nobody has won after this long, e.g. 30s" env:"CARDRING_TIMEOUT"`
	LogLevel  string `help:"Log level (debug, info, warn, error)" env:"CARDRING_LOG_LEVEL"`
}

// settings is the run configuration after flags and the config file are merged
type settings struct {
	Players   int
	Pack      string
	OutputDir string
	Seed      int64
	Timeout   time.Duration
	LogLevel  string
}

// resolve merges flags over the config file. Flags left unset fall back to
// the file's values.
func (c *PlayCmd) resolve(cfg *config.Config, now time.Time) (settings, error) {
	s := settings{
		Players:   cfg.Game.Players,
		Pack:      cfg.Game.Pack,
		OutputDir: cfg.Game.OutputDir,
		Seed:      cfg.Game.Seed,
		LogLevel:  cfg.Game.LogLevel,
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return s, err
	}
	s.Timeout = timeout

	if c.Players != 0 {
		if c.Players < game.MinPlayers {
			return s, fmt.Errorf("%w: got %d", game.ErrTooFewPlayers, c.Players)
		}
		s.Players = c.Players
	}
	if c.Pack != "" {
		s.Pack = c.Pack
	}
	if c.OutputDir != "" {
		s.OutputDir = c.OutputDir
	}
	if c.Seed != nil {
		s.Seed = *c.Seed
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return s, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
		if d < 0 {
			return s, fmt.Errorf("invalid timeout %q: must not be negative", c.Timeout)
		}
		s.Timeout = d
	}
	if c.LogLevel != "" {
		s.LogLevel = c.LogLevel
	}

	if s.Seed == 0 {
		s.Seed = now.UnixNano()
	}
	return s, nil
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	s, err := c.resolve(cfg, time.Now())
	if err != nil {
		return err
	}

	logger, err := shared.SetupLogger(os.Stderr, s.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}

	prompt := newPrompter(os.Stdin, os.Stdout)
	if s.Players == 0 {
		if s.Players, err = prompt.Players(); err != nil {
			return err
		}
	}

	var cards []*card.Card
	if s.Pack == "" {
		if s.Pack, cards, err = prompt.Pack(s.Players); err != nil {
			return err
		}
	} else if cards, err = pack.LoadFile(s.Pack, s.Players); err != nil {
		return err
	}

	store, err := eventlog.NewFileStore(s.OutputDir)
	if err != nil {
		return err
	}

	table, err := game.NewTable(game.Config{
		Players: s.Players,
		Seed:    s.Seed,
		Timeout: s.Timeout,
		Store:   store,
		Logger:  logger,
	}, cards)
	if err != nil {
		return err
	}

	ctx, stop := shared.SetupSignalHandler(logger)
	defer stop()

	logger.Info("Playing", "game", table.ID(), "players", s.Players, "pack", s.Pack, "seed", s.Seed)
	result, err := table.Run(ctx)
	if result != nil {
		fmt.Println(renderSummary(result, store))
	}
	if err != nil {
		logger.Error("Game ended without a clean finish", "error", err)
		return err
	}

	logger.Debug("Done", "duration", result.Duration)
	return nil
}
