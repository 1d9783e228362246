package eventlog

import (
	"slices"
	"sync"
)

// MemoryStore keeps player logs and deck dumps in memory.
type MemoryStore struct {
	mu     sync.Mutex
	sinks  map[int]*MemorySink
	dumps  map[int][]int
	counts map[int]int
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sinks:  make(map[int]*MemorySink),
		dumps:  make(map[int][]int),
		counts: make(map[int]int),
	}
}

// Open returns a fresh sink for the player, replacing any previous one
func (s *MemoryStore) Open(playerID int) (Sink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sink := &MemorySink{}
	s.sinks[playerID] = sink
	return sink, nil
}

// DumpDeck records the deck contents and counts the dump
func (s *MemoryStore) DumpDeck(deckID int, values []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dumps[deckID] = slices.Clone(values)
	s.counts[deckID]++
	return nil
}

// Lines returns a copy of everything a player emitted
func (s *MemoryStore) Lines(playerID int) []string {
	s.mu.Lock()
	sink := s.sinks[playerID]
	s.mu.Unlock()

	if sink == nil {
		return nil
	}
	return sink.Lines()
}

// Dump returns the recorded contents of a deck and whether it was dumped
func (s *MemoryStore) Dump(deckID int) ([]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.dumps[deckID]
	return slices.Clone(values), ok
}

// DumpCount returns how many times a deck was dumped
func (s *MemoryStore) DumpCount(deckID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[deckID]
}

// MemorySink collects lines in order.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

// Emit appends line
func (s *MemorySink) Emit(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

// Lines returns a copy of the collected lines
func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}
