package game

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lox/cardring/internal/card"
	"github.com/lox/cardring/internal/deck"
	"github.com/lox/cardring/internal/eventlog"
	"github.com/lox/cardring/internal/eventlog/mocks"
	"github.com/lox/cardring/internal/pack"
	"github.com/lox/cardring/internal/randutil"
)

func mustCards(t *testing.T, values ...int) []*card.Card {
	t.Helper()
	cards, err := card.FromValues(values)
	require.NoError(t, err)
	return cards
}

func seq(from, to int) []int {
	var out []int
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

func newTestTable(t *testing.T, players int, values []int, store eventlog.Store) *Table {
	t.Helper()
	table, err := NewTable(Config{
		Players: players,
		Seed:    1,
		Store:   store,
		Logger:  testLogger(),
	}, mustCards(t, values...))
	require.NoError(t, err)
	return table
}

func runTable(t *testing.T, table *Table) (*Result, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	return table.Run(ctx)
}

func TestNewTableValidation(t *testing.T) {
	t.Run("too few players", func(t *testing.T) {
		_, err := NewTable(Config{Players: 1}, mustCards(t, seq(1, 8)...))
		require.ErrorIs(t, err, ErrTooFewPlayers)
	})

	t.Run("fifteen cards for two players", func(t *testing.T) {
		_, err := NewTable(Config{Players: 2}, mustCards(t, seq(1, 15)...))
		require.ErrorIs(t, err, pack.ErrPackSize)
	})

	t.Run("nil card", func(t *testing.T) {
		cards := mustCards(t, seq(1, 16)...)
		cards[5] = nil
		_, err := NewTable(Config{Players: 2}, cards)
		require.ErrorIs(t, err, deck.ErrNilCard)
	})

	t.Run("store failure aborts setup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		store.EXPECT().Open(1).Return(&eventlog.MemorySink{}, nil)
		store.EXPECT().Open(2).Return(nil, errors.New("permission denied"))

		_, err := NewTable(Config{Players: 2, Store: store}, mustCards(t, seq(1, 16)...))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})
}

func TestDealOrder(t *testing.T) {
	t.Run("round robin to hands then decks", func(t *testing.T) {
		table := newTestTable(t, 2, seq(1, 16), nil)

		assert.Equal(t, []int{1, 3, 5, 7}, table.Players()[0].Hand().Values())
		assert.Equal(t, []int{2, 4, 6, 8}, table.Players()[1].Hand().Values())
		assert.Equal(t, []int{9, 11, 13, 15}, table.Decks()[0].Values())
		assert.Equal(t, []int{10, 12, 14, 16}, table.Decks()[1].Values())
		assert.Equal(t, TableDealing, table.State())
	})

	t.Run("grouped pack is split across players", func(t *testing.T) {
		table := newTestTable(t, 2, []int{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}, nil)

		assert.Equal(t, []int{1, 1, 2, 2}, table.Players()[0].Hand().Values())
		assert.Equal(t, []int{1, 1, 2, 2}, table.Players()[1].Hand().Values())
		assert.Equal(t, []int{3, 3, 4, 4}, table.Decks()[0].Values())
		assert.Equal(t, []int{3, 3, 4, 4}, table.Decks()[1].Values())
	})

	t.Run("three players", func(t *testing.T) {
		table := newTestTable(t, 3, seq(1, 24), nil)

		assert.Equal(t, []int{1, 4, 7, 10}, table.Players()[0].Hand().Values())
		assert.Equal(t, []int{3, 6, 9, 12}, table.Players()[2].Hand().Values())
		assert.Equal(t, []int{13, 16, 19, 22}, table.Decks()[0].Values())
		assert.Equal(t, []int{15, 18, 21, 24}, table.Decks()[2].Values())
	})
}

func TestRingWiring(t *testing.T) {
	const n = 5
	table := newTestTable(t, n, pack.Generate(randutil.New(1), n), nil)

	for i, p := range table.Players() {
		assert.Equal(t, i+1, p.ID())
		assert.Equal(t, i+1, p.preferred)
		assert.Same(t, table.Decks()[i], p.left, "player %d reads deck %d", i+1, i+1)
		assert.Same(t, table.Decks()[(i+1)%n], p.right, "player %d writes the next deck", i+1)
	}
	assert.Equal(t, 1, table.Players()[n-1].right.ID(), "the last player discards to deck 1")
}

func TestImmediateWinLeavesDecksUntouched(t *testing.T) {
	store := eventlog.NewMemoryStore()
	// Both players are dealt four of a kind, so neither ever draws
	table := newTestTable(t, 2, []int{1, 2, 1, 2, 1, 2, 1, 2, 3, 4, 3, 4, 3, 4, 3, 4}, store)

	assert.Equal(t, []int{1, 1, 1, 1}, table.Players()[0].Hand().Values())
	assert.Equal(t, []int{2, 2, 2, 2}, table.Players()[1].Hand().Values())

	result, err := runTable(t, table)
	require.NoError(t, err)

	assert.Contains(t, []int{1, 2}, result.Winner)
	assert.Equal(t, []int{0, 0}, result.Draws)
	assert.Equal(t, TableFinalized, table.State())

	d1, ok := store.Dump(1)
	require.True(t, ok)
	assert.Equal(t, []int{3, 3, 3, 3}, d1)
	d2, ok := store.Dump(2)
	require.True(t, ok)
	assert.Equal(t, []int{4, 4, 4, 4}, d2)

	loser := 3 - result.Winner
	informed := fmt.Sprintf("player %d has informed player %d that player %d has won", result.Winner, loser, result.Winner)
	assert.Contains(t, store.Lines(loser), informed)
	assert.NotContains(t, store.Lines(loser), fmt.Sprintf("player %d wins", loser))
}

func TestPlayerOneWinsImmediately(t *testing.T) {
	store := eventlog.NewMemoryStore()
	// Player 2 can never hold four equal cards, so player 1's dealt hand wins
	values := []int{1, 5, 1, 6, 1, 7, 1, 8, 9, 13, 10, 14, 11, 15, 12, 16}
	table := newTestTable(t, 2, values, store)

	result, err := runTable(t, table)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Winner)
	assert.Equal(t, 0, result.Draws[0])
	assert.Equal(t, []string{
		"player 1 initial hand 1 1 1 1",
		"player 1 wins",
		"player 1 exits",
		"player 1 final hand: 1 1 1 1",
	}, store.Lines(1))

	lines := store.Lines(2)
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "player 2 initial hand 5 6 7 8", lines[0])
	assert.Equal(t, "player 1 has informed player 2 that player 1 has won", lines[len(lines)-3])
	assert.Equal(t, "player 2 exits", lines[len(lines)-2])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "player 2 final hand: "))
}

func TestConservation(t *testing.T) {
	for players := 2; players <= 6; players++ {
		for seed := int64(1); seed <= 5; seed++ {
			t.Run(fmt.Sprintf("players=%d/seed=%d", players, seed), func(t *testing.T) {
				cards := mustCards(t, pack.Generate(randutil.New(seed), players)...)
				table, err := NewTable(Config{Players: players, Seed: seed, Logger: testLogger()}, cards)
				require.NoError(t, err)

				result, err := runTable(t, table)
				require.NoError(t, err)
				require.NotZero(t, result.Winner)
				assert.Equal(t, pack.Size(players), result.CardCount())

				// Every physical card is still in exactly one place
				seen := make(map[*card.Card]int)
				for _, p := range table.Players() {
					require.Len(t, p.Hand(), HandSize)
					for _, c := range p.Hand() {
						seen[c]++
					}
				}
				for _, d := range table.Decks() {
					for {
						c, ok := d.TakeFront()
						if !ok {
							break
						}
						seen[c]++
					}
				}
				require.Len(t, seen, len(cards))
				for _, c := range cards {
					assert.Equal(t, 1, seen[c])
				}
			})
		}
	}
}

func TestWinnerHoldsFourOfAKind(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		table := newTestTable(t, 4, pack.Generate(randutil.New(seed), 4), nil)
		result, err := runTable(t, table)
		require.NoError(t, err)

		hand := result.Hands[result.Winner-1]
		require.Len(t, hand, HandSize)
		for _, v := range hand {
			assert.Equal(t, hand[0], v)
		}
	}
}

func TestSingleWinnerUnderContention(t *testing.T) {
	// Every player is dealt four of a kind and claims at once
	const players = 6
	var values []int
	for round := 0; round < HandSize; round++ {
		for p := 1; p <= players; p++ {
			values = append(values, p)
		}
	}
	for i := 0; i < players*HandSize; i++ {
		values = append(values, 100+i)
	}

	winners := make(map[int]int)
	for i := 0; i < 25; i++ {
		store := eventlog.NewMemoryStore()
		table := newTestTable(t, players, values, store)

		result, err := runTable(t, table)
		require.NoError(t, err)
		winners[result.Winner]++

		winLines := 0
		for id := 1; id <= players; id++ {
			lines := store.Lines(id)
			for _, line := range lines {
				if line == fmt.Sprintf("player %d wins", id) {
					winLines++
				}
			}
			if id == result.Winner {
				continue
			}
			informed := 0
			for _, line := range lines {
				if strings.Contains(line, "has informed player") {
					informed++
					assert.Equal(t, fmt.Sprintf("player %d has informed player %d that player %d has won", result.Winner, id, result.Winner), line)
				}
			}
			assert.Equal(t, 1, informed, "player %d must be informed exactly once", id)
		}
		assert.Equal(t, 1, winLines)

		for d := 1; d <= players; d++ {
			assert.Equal(t, 1, store.DumpCount(d))
		}
	}
	assert.NotEmpty(t, winners)
}

func TestDeclareWinIsAtomic(t *testing.T) {
	const players = 4
	table := newTestTable(t, players, pack.Generate(randutil.New(3), players), nil)

	var stops atomic.Int32
	table.mu.Lock()
	table.state = TableRunning
	table.stop = func() { stops.Add(1) }
	table.mu.Unlock()

	var (
		wg        sync.WaitGroup
		committed atomic.Int32
		start     = make(chan struct{})
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if table.DeclareWin(i%players + 1) {
				committed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), committed.Load())
	assert.Equal(t, int32(1), stops.Load())

	winner, ok := table.Winner()
	require.True(t, ok)
	assert.False(t, table.DeclareWin(winner), "the winner cannot commit twice")

	again, _ := table.Winner()
	assert.Equal(t, winner, again)
	assert.True(t, table.IsOver())

	for _, p := range table.Players() {
		if p.ID() == winner {
			assert.Len(t, p.notice, 0)
		} else {
			assert.Len(t, p.notice, 1)
		}
	}
}

func TestDeclareWinBeforeStartIsRejected(t *testing.T) {
	table := newTestTable(t, 2, seq(1, 16), nil)
	assert.False(t, table.DeclareWin(1))
	_, ok := table.Winner()
	assert.False(t, ok)
	assert.False(t, table.IsOver())
}

func TestRunTwice(t *testing.T) {
	table := newTestTable(t, 2, pack.Generate(randutil.New(5), 2), nil)
	_, err := runTable(t, table)
	require.NoError(t, err)

	_, err = table.Run(context.Background())
	require.ErrorIs(t, err, ErrAlreadyStarted)
}

// unwinnable deals distinct values nobody can collect four of
func unwinnable(players int) []int {
	return seq(100, 100+pack.Size(players)-1)
}

func TestWatchdogTimeout(t *testing.T) {
	mClock := quartz.NewMock(t)
	store := eventlog.NewMemoryStore()
	table, err := NewTable(Config{
		Players: 3,
		Timeout: time.Minute,
		Store:   store,
		Clock:   mClock,
		Logger:  testLogger(),
	}, mustCards(t, unwinnable(3)...))
	require.NoError(t, err)

	type outcome struct {
		result *Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := table.Run(context.Background())
		done <- outcome{result, err}
	}()

	require.Eventually(t, func() bool { return table.State() == TableRunning }, 5*time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mClock.Advance(time.Minute).MustWait(ctx)

	select {
	case out := <-done:
		require.ErrorIs(t, out.err, ErrTimeout)
		assert.Zero(t, out.result.Winner)
		assert.Equal(t, pack.Size(3), out.result.CardCount())
	case <-time.After(10 * time.Second):
		t.Fatal("game did not stop after the watchdog fired")
	}

	assert.Equal(t, TableAborted, table.State())
	for d := 1; d <= 3; d++ {
		assert.Equal(t, 0, store.DumpCount(d), "an aborted game is not finalized")
	}
	for id := 1; id <= 3; id++ {
		lines := store.Lines(id)
		assert.Equal(t, fmt.Sprintf("player %d exits", id), lines[len(lines)-2])
	}
}

func TestRunCancelled(t *testing.T) {
	table := newTestTable(t, 2, unwinnable(2), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result, err := table.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, TableAborted, table.State())
	assert.Equal(t, pack.Size(2), result.CardCount())
}

func TestDumpFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Open(gomock.Any()).DoAndReturn(func(int) (eventlog.Sink, error) {
		return &eventlog.MemorySink{}, nil
	}).Times(2)
	store.EXPECT().DumpDeck(1, gomock.Any()).Return(errors.New("read-only file system"))
	store.EXPECT().DumpDeck(2, gomock.Any()).Return(nil)

	table := newTestTable(t, 2, []int{1, 2, 1, 2, 1, 2, 1, 2, 3, 4, 3, 4, 3, 4, 3, 4}, store)
	result, err := runTable(t, table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only file system")
	assert.NotZero(t, result.Winner, "the winner stands even if a dump fails")
}

func TestFileOutputs(t *testing.T) {
	dir := t.TempDir()
	store, err := eventlog.NewFileStore(dir)
	require.NoError(t, err)

	const players = 4
	table := newTestTable(t, players, pack.Generate(randutil.New(21), players), store)
	result, err := runTable(t, table)
	require.NoError(t, err)

	for i, values := range result.Decks {
		data, err := os.ReadFile(store.DeckPath(i + 1))
		require.NoError(t, err)

		var want strings.Builder
		for _, v := range values {
			fmt.Fprintf(&want, "%d\n", v)
		}
		assert.Equal(t, want.String(), string(data))
	}

	for id := 1; id <= players; id++ {
		data, err := os.ReadFile(store.PlayerPath(id))
		require.NoError(t, err)
		text := string(data)

		assert.True(t, strings.HasPrefix(text, fmt.Sprintf("player %d initial hand ", id)))
		assert.Contains(t, text, fmt.Sprintf("player %d exits\n", id))
		if id == result.Winner {
			assert.Contains(t, text, fmt.Sprintf("player %d wins\n", id))
		} else {
			assert.Equal(t, 1, strings.Count(text, "has informed player"))
		}
	}
}

func TestCancelledBeforeStartCommitsNoWinner(t *testing.T) {
	// Player 1 is dealt four of a kind and would otherwise win at once
	values := []int{1, 5, 1, 6, 1, 7, 1, 8, 9, 13, 10, 14, 11, 15, 12, 16}

	for i := 0; i < 100; i++ {
		store := eventlog.NewMemoryStore()
		table := newTestTable(t, 2, values, store)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := table.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, result.Winner)
		assert.Equal(t, TableAborted, table.State())

		assert.NotContains(t, store.Lines(1), "player 1 wins")
		for _, line := range store.Lines(2) {
			assert.NotContains(t, line, "has informed")
		}
		assert.Equal(t, "player 2 exits", store.Lines(2)[len(store.Lines(2))-2])
		assert.Equal(t, 0, store.DumpCount(1))
		assert.Equal(t, 0, store.DumpCount(2))
	}
}

func TestCancelDuringPlayKeepsOutcomeConsistent(t *testing.T) {
	const players = 3
	rng := randutil.New(99)

	for i := 0; i < 100; i++ {
		store := eventlog.NewMemoryStore()
		table := newTestTable(t, players, pack.Generate(randutil.New(int64(i)), players), store)

		ctx, cancel := context.WithCancel(context.Background())
		delay := time.Duration(rng.IntN(200)) * time.Microsecond
		go func() {
			time.Sleep(delay)
			cancel()
		}()

		result, err := table.Run(ctx)
		cancel()

		winLines, informed := 0, 0
		for id := 1; id <= players; id++ {
			for _, line := range store.Lines(id) {
				if strings.HasSuffix(line, " wins") {
					winLines++
				}
				if strings.Contains(line, "has informed") {
					informed++
				}
			}
		}

		if err != nil {
			require.ErrorIs(t, err, context.Canceled)
			assert.Zero(t, result.Winner)
			assert.Equal(t, TableAborted, table.State())
			assert.Zero(t, winLines)
			assert.Zero(t, informed)
			for d := 1; d <= players; d++ {
				assert.Equal(t, 0, store.DumpCount(d))
			}
			continue
		}

		require.NotZero(t, result.Winner)
		assert.Equal(t, TableFinalized, table.State())
		assert.Equal(t, 1, winLines)
		assert.Equal(t, players-1, informed, "every loser is told exactly once")
		for d := 1; d <= players; d++ {
			assert.Equal(t, 1, store.DumpCount(d))
		}
	}
}

func TestPlayerDefectAbortsTable(t *testing.T) {
	store := eventlog.NewMemoryStore()
	table := newTestTable(t, 3, unwinnable(3), store)
	table.Players()[1].choose = func(Hand, int, *rand.Rand) *card.Card {
		return card.MustNew(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := table.Run(ctx)
	require.ErrorIs(t, err, ErrNotInHand)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, result.Winner)
	assert.Equal(t, TableAborted, table.State())
	// The failed discard stays in the hand, so no card is lost
	assert.Equal(t, pack.Size(3), result.CardCount())
	assert.Len(t, result.Hands[1], HandSize+1)
	for d := 1; d <= 3; d++ {
		assert.Equal(t, 0, store.DumpCount(d))
	}
}
