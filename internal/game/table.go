package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/cardring/internal/card"
	"github.com/lox/cardring/internal/deck"
	"github.com/lox/cardring/internal/eventlog"
	"github.com/lox/cardring/internal/gameid"
	"github.com/lox/cardring/internal/pack"
	"github.com/lox/cardring/internal/randutil"
)

// MinPlayers is the smallest ring that can be played
const MinPlayers = 2

var (
	// ErrTooFewPlayers is returned for a table of fewer than MinPlayers
	ErrTooFewPlayers = fmt.Errorf("a game needs at least %d players", MinPlayers)
	// ErrTimeout is returned when the watchdog ends a game with no winner
	ErrTimeout = errors.New("game timed out without a winner")
	// ErrAlreadyStarted is returned when Run is called more than once
	ErrAlreadyStarted = errors.New("game already started")
)

// Config holds everything a table needs besides the cards
type Config struct {
	Players int
	Seed    int64
	// Timeout aborts the game if nobody has won by then. Zero disables it.
	Timeout time.Duration
	Store   eventlog.Store
	Clock   quartz.Clock
	Logger  *log.Logger
}

// Result describes a finished game
type Result struct {
	GameID   string
	Winner   int
	Duration time.Duration
	// Hands and Decks are indexed by player and deck number minus one
	Hands [][]int
	Decks [][]int
	Draws []int
}

// CardCount returns the number of cards across every hand and deck
func (r *Result) CardCount() int {
	total := 0
	for _, h := range r.Hands {
		total += len(h)
	}
	for _, d := range r.Decks {
		total += len(d)
	}
	return total
}

// Table owns the ring of decks and players and decides the winner.
type Table struct {
	id      string
	config  Config
	clock   quartz.Clock
	logger  *log.Logger
	decks   []*deck.Deck
	players []*Player
	sinks   []eventlog.Sink

	mu       sync.Mutex
	state    TableState
	winner   int
	started  bool
	abortErr error
	runCtx   context.Context
	stop     context.CancelFunc
}

// NewTable builds the ring for cfg.Players players and deals cards onto it.
// The pack must hold exactly eight cards per player.
func NewTable(cfg Config, cards []*card.Card) (*Table, error) {
	if cfg.Players < MinPlayers {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPlayers, cfg.Players)
	}
	if err := pack.CheckSize(len(cards), cfg.Players); err != nil {
		return nil, err
	}
	for i, c := range cards {
		if c == nil {
			return nil, fmt.Errorf("card %d: %w", i+1, deck.ErrNilCard)
		}
	}
	if cfg.Store == nil {
		cfg.Store = eventlog.NewMemoryStore()
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	id := gameid.Generate()
	t := &Table{
		id:     id,
		config: cfg,
		clock:  cfg.Clock,
		logger: cfg.Logger.WithPrefix("table").With("game", id),
		state:  TableSetup,
	}

	t.decks = make([]*deck.Deck, cfg.Players)
	for i := range t.decks {
		t.decks[i] = deck.New(i + 1)
	}

	t.players = make([]*Player, cfg.Players)
	t.sinks = make([]eventlog.Sink, cfg.Players)
	for i := range t.players {
		sink, err := cfg.Store.Open(i + 1)
		if err != nil {
			t.closeSinks()
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		t.sinks[i] = sink

		left := t.decks[i]
		right := t.decks[(i+1)%cfg.Players]
		rng := randutil.ForStream(cfg.Seed, i+1)
		t.players[i] = NewPlayer(i+1, left, right, t, sink, rng, cfg.Logger.With("game", id))
	}

	t.deal(cards)
	return t, nil
}

// deal hands out four rounds of one card per player, then four rounds of one
// card per deck
func (t *Table) deal(cards []*card.Card) {
	t.setState(TableDealing)

	next := 0
	for round := 0; round < HandSize; round++ {
		for _, p := range t.players {
			p.deal(cards[next])
			next++
		}
	}
	for round := 0; round < pack.CardsPerPlayer-HandSize; round++ {
		for _, d := range t.decks {
			// cards were checked for nil above
			_ = d.Append(cards[next])
			next++
		}
	}

	t.logger.Debug("Dealt cards", "players", len(t.players), "cards", next)
}

// ID returns the game identifier
func (t *Table) ID() string {
	return t.id
}

// Players returns the players in id order
func (t *Table) Players() []*Player {
	return t.players
}

// Decks returns the decks in id order
func (t *Table) Decks() []*deck.Deck {
	return t.decks
}

// State returns the table's lifecycle state
func (t *Table) State() TableState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Winner returns the committed winner, if any
func (t *Table) Winner() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.winner, t.winner != 0
}

// IsOver reports whether the game has been won or aborted
func (t *Table) IsOver() bool {
	return t.State().Over()
}

// DeclareWin commits id as the winner if nobody has won yet. Exactly one
// call succeeds; every later call, from any player, returns false, as does
// any call made after the game's context is done. The committing call stops
// the game and tells every other player who won.
func (t *Table) DeclareWin(id int) bool {
	t.mu.Lock()
	if t.state != TableRunning || (t.runCtx != nil && t.runCtx.Err() != nil) {
		t.mu.Unlock()
		return false
	}
	t.winner = id
	t.state = TableWon
	stop := t.stop
	t.mu.Unlock()

	t.logger.Info("Winner declared", "player", id)

	stop()
	for _, p := range t.players {
		p.NotifyLoss(id)
	}
	return true
}

// abort ends the game without a winner. reason is what Run will return.
func (t *Table) abort(reason error) bool {
	t.mu.Lock()
	if t.state.Over() {
		t.mu.Unlock()
		return false
	}
	t.state = TableAborted
	t.abortErr = reason
	stop := t.stop
	t.mu.Unlock()

	t.logger.Warn("Game aborted", "reason", reason)
	if stop != nil {
		stop()
	}
	return true
}

// Run starts every player on its own goroutine and waits for the game to
// end. When a winner is committed the final deck contents are dumped once all
// players have stopped. Cancelling ctx aborts the game.
func (t *Table) Run(ctx context.Context) (*Result, error) {
	gameCtx, stop := context.WithCancel(ctx)
	defer stop()

	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	t.started = true
	t.runCtx = gameCtx
	t.stop = stop
	t.mu.Unlock()
	defer t.closeSinks()

	started := t.clock.Now()
	if t.config.Timeout > 0 {
		watchdog := t.clock.AfterFunc(t.config.Timeout, func() {
			t.abort(ErrTimeout)
		}, "watchdog")
		defer watchdog.Stop()
	}

	t.mu.Lock()
	if t.state == TableDealing {
		t.state = TableRunning
	}
	t.mu.Unlock()

	// Cancelling ctx ends the game without a winner, including before the
	// first player starts.
	stopCancelWatch := context.AfterFunc(ctx, func() {
		t.abort(context.Cause(ctx))
	})
	defer stopCancelWatch()
	if ctx.Err() != nil {
		t.abort(context.Cause(ctx))
	}

	t.logger.Info("Starting game", "players", len(t.players), "seed", t.config.Seed)

	// The group has no shared context: a player defect aborts the table
	// itself, which stops the others the same way a timeout does.
	var g errgroup.Group
	for _, p := range t.players {
		g.Go(func() error {
			err := p.Run(gameCtx)
			if err != nil && !errors.Is(err, ErrAborted) {
				t.abort(err)
			}
			return err
		})
	}
	playerErr := g.Wait()

	if t.State() == TableRunning {
		if ctx.Err() != nil {
			t.abort(ctx.Err())
		} else {
			t.abort(fmt.Errorf("every player stopped without a winner: %w", playerErr))
		}
	}

	result := t.result(started)

	t.mu.Lock()
	state, abortErr := t.state, t.abortErr
	t.mu.Unlock()

	if state == TableAborted {
		return result, abortErr
	}

	if err := t.finalize(result.Winner); err != nil {
		return result, err
	}
	if playerErr != nil && !errors.Is(playerErr, ErrAborted) {
		return result, playerErr
	}
	return result, nil
}

// finalize dumps every deck exactly once and marks the table finalized
func (t *Table) finalize(winner int) error {
	var errs []error
	for _, d := range t.decks {
		if err := t.config.Store.DumpDeck(d.ID(), d.Values()); err != nil {
			t.logger.Error("Failed to dump deck", "deck", d.ID(), "error", err)
			errs = append(errs, err)
		}
	}
	t.setState(TableFinalized)
	t.logger.Info("Game finalized", "winner", winner)
	return errors.Join(errs...)
}

func (t *Table) result(started time.Time) *Result {
	winner, _ := t.Winner()
	r := &Result{
		GameID:   t.id,
		Winner:   winner,
		Duration: t.clock.Since(started),
		Hands:    make([][]int, len(t.players)),
		Decks:    make([][]int, len(t.decks)),
		Draws:    make([]int, len(t.players)),
	}
	for i, p := range t.players {
		r.Hands[i] = p.hand.Values()
		r.Draws[i] = p.Draws()
	}
	for i, d := range t.decks {
		r.Decks[i] = d.Values()
	}
	return r
}

func (t *Table) setState(s TableState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
}

func (t *Table) closeSinks() {
	for _, s := range t.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				t.logger.Warn("Failed to close event log", "error", err)
			}
		}
	}
}
