package game

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/lox/cardring/internal/card"
	"github.com/lox/cardring/internal/deck"
	"github.com/lox/cardring/internal/eventlog"
)

// ErrAborted is returned by a player whose game ended without a winner
var ErrAborted = errors.New("game aborted without a winner")

// Arbiter decides which player wins. DeclareWin must commit at most one
// winner no matter how many players call it concurrently.
type Arbiter interface {
	// DeclareWin claims the win for id and reports whether the claim committed
	DeclareWin(id int) bool
	// Winner returns the committed winner, if any
	Winner() (int, bool)
}

// Player is one agent in the ring. It reads cards from its left deck and
// discards to its right deck until it holds four of a kind or learns that
// another player has won. Only the player's own goroutine touches its hand.
type Player struct {
	id        int
	preferred int
	hand      Hand
	left      *deck.Deck
	right     *deck.Deck
	arbiter   Arbiter
	events    eventlog.Sink
	rng       *rand.Rand
	choose    discardPolicy
	logger    *log.Logger

	state      atomic.Int32
	draws      atomic.Int64
	notice     chan int
	noticeOnce sync.Once
}

// NewPlayer creates a player wired to its two decks. The preferred value is
// the player's id.
func NewPlayer(id int, left, right *deck.Deck, arbiter Arbiter, events eventlog.Sink, rng *rand.Rand, logger *log.Logger) *Player {
	return &Player{
		id:        id,
		preferred: id,
		hand:      make(Hand, 0, HandSize+1),
		left:      left,
		right:     right,
		arbiter:   arbiter,
		events:    events,
		rng:       rng,
		choose:    chooseDiscard,
		logger:    logger.WithPrefix("player").With("id", id),
		notice:    make(chan int, 1),
	}
}

// ID returns the player's number
func (p *Player) ID() int {
	return p.id
}

// State returns the player's current lifecycle state
func (p *Player) State() PlayerState {
	return PlayerState(p.state.Load())
}

// Draws returns how many cards the player has taken from its left deck
func (p *Player) Draws() int {
	return int(p.draws.Load())
}

// Hand returns a copy of the player's hand. It is only safe to call before
// Run starts or after it returns.
func (p *Player) Hand() Hand {
	return append(Hand(nil), p.hand...)
}

// deal adds a card to the hand during setup
func (p *Player) deal(c *card.Card) {
	p.hand = append(p.hand, c)
}

// NotifyLoss tells the player who won. Only the first call has any effect
// and a player is never told it lost to itself.
func (p *Player) NotifyLoss(winnerID int) {
	if winnerID == p.id {
		return
	}
	p.noticeOnce.Do(func() {
		p.notice <- winnerID
	})
}

// Run plays until the game is decided. It returns nil once the player has
// won or acknowledged a loss, ErrAborted if the game ended without a winner,
// and any other error when the player hit a defect and had to stop.
func (p *Player) Run(ctx context.Context) error {
	defer p.setState(PlayerStopped)

	p.setState(PlayerCheckingInitial)
	p.emit("player %d initial hand %s", p.id, p.hand)

	if p.hand.Uniform() {
		return p.claim()
	}

	p.setState(PlayerRunning)
	for {
		if _, over := p.arbiter.Winner(); over {
			return p.lose()
		}
		if ctx.Err() != nil {
			return p.stop(ctx.Err())
		}

		drawn, err := p.left.Take(ctx)
		if err != nil {
			return p.stop(err)
		}

		if err := p.turn(drawn); err != nil {
			p.logger.Error("Player stopped on defect", "error", err)
			p.emit("player %d exits", p.id)
			p.emit("player %d final hand: %s", p.id, p.hand)
			return fmt.Errorf("player %d: %w", p.id, err)
		}

		if p.hand.Uniform() {
			return p.claim()
		}
	}
}

// turn adds the drawn card to the hand and discards one card to the right
func (p *Player) turn(drawn *card.Card) error {
	p.draws.Add(1)
	p.hand = append(p.hand, drawn)
	p.emit("player %d draws a %s from deck %d", p.id, drawn, p.left.ID())

	discard := p.choose(p.hand, p.preferred, p.rng)
	if err := p.hand.Discard(discard); err != nil {
		return err
	}
	if err := p.right.Append(discard); err != nil {
		return err
	}

	p.emit("player %d discards a %s to deck %d", p.id, discard, p.right.ID())
	p.emit("player %d current hand is %s", p.id, p.hand)
	return nil
}

// claim asks the arbiter for the win; a rejected claim means someone else
// got there first.
func (p *Player) claim() error {
	if !p.arbiter.DeclareWin(p.id) {
		if _, ok := p.arbiter.Winner(); !ok {
			return p.abort(nil)
		}
		return p.lose()
	}

	p.setState(PlayerWon)
	p.logger.Info("Won", "hand", p.hand.String(), "draws", p.Draws())
	p.emit("player %d wins", p.id)
	p.emit("player %d exits", p.id)
	p.emit("player %d final hand: %s", p.id, p.hand)
	return nil
}

// lose waits for the table's notice and records the loss
func (p *Player) lose() error {
	p.setState(PlayerLost)

	winner := <-p.notice
	p.emit("player %d has informed player %d that player %d has won", winner, p.id, winner)
	p.emit("player %d exits", p.id)
	p.emit("player %d final hand: %s", p.id, p.hand)
	return nil
}

// stop ends play once the game context is done. The winner is read after the
// cancellation was observed: the arbiter refuses claims once the context is
// done, so a winner committed earlier is always seen here.
func (p *Player) stop(reason error) error {
	if _, over := p.arbiter.Winner(); over {
		return p.lose()
	}
	return p.abort(reason)
}

// abort stops a player whose game ended before anyone won
func (p *Player) abort(reason error) error {
	p.logger.Debug("Stopping without a winner", "reason", reason)
	p.emit("player %d exits", p.id)
	p.emit("player %d final hand: %s", p.id, p.hand)
	return fmt.Errorf("player %d: %w", p.id, ErrAborted)
}

// emit records an event line. A failed write is logged and otherwise ignored.
func (p *Player) emit(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	p.logger.Debug(line)

	if err := p.events.Emit(line); err != nil {
		p.logger.Warn("Failed to record event", "error", err, "event", line)
	}
}

func (p *Player) setState(s PlayerState) {
	p.state.Store(int32(s))
}
