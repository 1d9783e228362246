// Package game implements the ring-exchange card game.
//
// N players sit in a ring with one deck between each pair of neighbours.
// Player i draws from deck i and discards to deck i+1 (wrapping around), each
// trying to collect four cards of its own number. Every player runs on its own
// goroutine; the Table deals the cards, starts the players and commits
// exactly one winner.
//
// # Basic Usage
//
//	cards, err := pack.LoadFile("four.txt", 4)
//	if err != nil {
//	    return err
//	}
//	table, err := game.NewTable(game.Config{Players: 4, Store: store, Logger: logger}, cards)
//	if err != nil {
//	    return err
//	}
//	result, err := table.Run(ctx)
//
// # Dealing
//
// Cards are dealt in two passes: four rounds of one card to each player in id
// order, then four rounds of one card to each deck in id order. The same pack
// therefore always produces the same starting hands and decks.
//
// # Winning
//
// A player checks its hand before its first draw and after every discard.
// When all four cards match it calls Table.DeclareWin, which commits the
// first claim under the table's lock and rejects every later one. The
// committing call cancels the game context, waking any player blocked on an
// empty deck, and sends every other player a loss notice. Players finish the
// turn they are in, record the loss and stop. The table then dumps each deck.
// Cancelling the context passed to Run ends the game without a winner; no
// claim is accepted after that.
//
// # Discards
//
// A player discards a random card that is not its own number. If it holds
// nothing else, it discards the card it just drew.
package game
