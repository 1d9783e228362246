// Package card defines the immutable card value passed around the ring.
package card

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidValue is returned when a card is built from a negative value.
var ErrInvalidValue = errors.New("card value must be a non-negative integer")

// Card is a single card with a fixed non-negative value.
// Cards are shared by pointer so each physical card has one identity as it
// moves between hands and decks.
type Card struct {
	value int
}

// New creates a card with the given value
func New(value int) (*Card, error) {
	if value < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidValue, value)
	}
	return &Card{value: value}, nil
}

// MustNew is like New but panics on an invalid value
func MustNew(value int) *Card {
	c, err := New(value)
	if err != nil {
		panic(err)
	}
	return c
}

// FromValues builds one card per value, failing on the first invalid one
func FromValues(values []int) ([]*Card, error) {
	cards := make([]*Card, 0, len(values))
	for i, v := range values {
		c, err := New(v)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Value returns the card's value
func (c *Card) Value() int {
	return c.value
}

// String returns the decimal value of the card
func (c *Card) String() string {
	return strconv.Itoa(c.value)
}

// Values returns the values of cards in order
func Values(cards []*Card) []int {
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = c.value
	}
	return values
}
