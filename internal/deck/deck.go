// Package deck implements the shared card queues that sit between players.
package deck

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/lox/cardring/internal/card"
)

// ErrNilCard is returned when appending an absent card
var ErrNilCard = errors.New("cannot append a nil card")

// Deck is an unbounded FIFO queue of cards. Every operation runs in a single
// critical section, so a deck is safe for any number of concurrent callers.
type Deck struct {
	id    int
	mu    sync.Mutex
	cards []*card.Card
	ready chan struct{} // wakes a reader blocked in Take
}

// New creates an empty deck with the given 1-based id
func New(id int) *Deck {
	return &Deck{
		id:    id,
		ready: make(chan struct{}, 1),
	}
}

// ID returns the deck number used in events and dump file names
func (d *Deck) ID() int {
	return d.id
}

// Append adds a card to the bottom of the deck
func (d *Deck) Append(c *card.Card) error {
	if c == nil {
		return ErrNilCard
	}

	d.mu.Lock()
	d.cards = append(d.cards, c)
	d.mu.Unlock()

	d.signal()
	return nil
}

// TakeFront removes and returns the top card. It never blocks; the boolean is
// false when the deck is empty.
func (d *Deck) TakeFront() (*card.Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.cards) == 0 {
		return nil, false
	}

	c := d.cards[0]
	d.cards[0] = nil
	d.cards = d.cards[1:]
	return c, true
}

// Take removes and returns the top card, waiting for one to be appended if
// the deck is empty. It returns ctx.Err() if ctx is done first.
func (d *Deck) Take(ctx context.Context) (*card.Card, error) {
	for {
		if c, ok := d.TakeFront(); ok {
			// Another waiter may have missed a coalesced wake-up.
			if !d.IsEmpty() {
				d.signal()
			}
			return c, nil
		}

		select {
		case <-d.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// IsEmpty reports whether the deck holds no cards
func (d *Deck) IsEmpty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards) == 0
}

// Len returns the number of cards in the deck
func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards)
}

// Values returns a snapshot of the card values from top to bottom
func (d *Deck) Values() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return card.Values(d.cards)
}

// String renders the deck contents top to bottom, separated by spaces
func (d *Deck) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	parts := make([]string, len(d.cards))
	for i, c := range d.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func (d *Deck) signal() {
	select {
	case d.ready <- struct{}{}:
	default:
	}
}
