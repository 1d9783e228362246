// Package eventlog records what each player does and what the decks held when
// the game ended.
//
// A Store hands out one Sink per player and receives one dump per deck. The
// file store writes player<P>_output.txt and deck<D>_output.txt into a
// directory; the memory store keeps everything in memory for tests.
package eventlog

//go:generate mockgen -package=mocks -destination=mocks/mock_eventlog.go github.com/lox/cardring/internal/eventlog Sink,Store

// Sink receives the event lines of a single player, in order.
type Sink interface {
	Emit(line string) error
}

// Store opens player sinks and persists end-of-game deck contents.
type Store interface {
	// Open returns the sink for a player, discarding any previous content.
	Open(playerID int) (Sink, error)
	// DumpDeck records the final contents of a deck, top to bottom.
	DumpDeck(deckID int, values []int) error
}
