package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/lox/cardring/internal/card"
)

// HandSize is the number of cards a player holds between turns
const HandSize = 4

// ErrNotInHand is returned when removing a card the player does not hold
var ErrNotInHand = errors.New("card is not in hand")

// Hand is an ordered set of cards owned by a single player
type Hand []*card.Card

// Values returns the card values in hand order
func (h Hand) Values() []int {
	return card.Values(h)
}

// String renders the hand as space separated values, e.g. "1 1 2 3"
func (h Hand) String() string {
	return FormatValues(h.Values())
}

// FormatValues renders card values the way hands appear in event lines
func FormatValues(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// Uniform reports whether the hand is a full hand of one value
func (h Hand) Uniform() bool {
	if len(h) != HandSize {
		return false
	}
	for _, c := range h[1:] {
		if c.Value() != h[0].Value() {
			return false
		}
	}
	return true
}

// Remove takes the card at index i out of the hand
func (h *Hand) Remove(i int) (*card.Card, error) {
	if i < 0 || i >= len(*h) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNotInHand, i, len(*h))
	}
	c := (*h)[i]
	*h = append((*h)[:i], (*h)[i+1:]...)
	return c, nil
}

// Discard removes the given card, matched by identity
func (h *Hand) Discard(c *card.Card) error {
	for i, held := range *h {
		if held == c {
			_, err := h.Remove(i)
			return err
		}
	}
	if c == nil {
		return fmt.Errorf("%w: nil card", ErrNotInHand)
	}
	return fmt.Errorf("%w: %s", ErrNotInHand, c)
}

// discardPolicy picks the card a player gives away from its five-card hand
type discardPolicy func(h Hand, preferred int, rng *rand.Rand) *card.Card

// chooseDiscard picks the card to give away. Cards that are not the
// preferred value are candidates and one is chosen uniformly at random.
// When every card is the preferred value the newest card is returned, which
// leaves a uniform hand of the remaining four.
func chooseDiscard(h Hand, preferred int, rng *rand.Rand) *card.Card {
	candidates := make([]*card.Card, 0, len(h))
	for _, c := range h {
		if c.Value() != preferred {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return h[len(h)-1]
	}
	return candidates[rng.IntN(len(candidates))]
}
