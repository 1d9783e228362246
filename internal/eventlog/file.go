package eventlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/lox/cardring/internal/fileutil"
)

// FileStore writes player logs and deck dumps into Dir.
type FileStore struct {
	Dir string
}

// NewFileStore creates dir if needed and returns a store rooted at it
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

// PlayerPath returns the log file path for a player
func (s *FileStore) PlayerPath(playerID int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("player%d_output.txt", playerID))
}

// DeckPath returns the dump file path for a deck
func (s *FileStore) DeckPath(deckID int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("deck%d_output.txt", deckID))
}

// Open truncates the player's log file and returns a sink appending to it.
// The caller must Close the returned sink.
func (s *FileStore) Open(playerID int) (Sink, error) {
	f, err := os.OpenFile(s.PlayerPath(playerID), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log for player %d: %w", playerID, err)
	}
	return &FileSink{f: f, w: bufio.NewWriter(f)}, nil
}

// DumpDeck writes one value per line
func (s *FileStore) DumpDeck(deckID int, values []int) error {
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = strconv.Itoa(v)
	}
	if err := fileutil.WriteLinesAtomic(s.DeckPath(deckID), lines, 0644); err != nil {
		return fmt.Errorf("failed to dump deck %d: %w", deckID, err)
	}
	return nil
}

// FileSink appends lines to a player's log file. Each line is flushed as it
// is written so a crashed run still leaves a readable log.
type FileSink struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

// Emit writes line followed by a newline
func (s *FileSink) Emit(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return os.ErrClosed
	}
	if _, err := s.w.WriteString(line + "\n"); err != nil {
		return err
	}
	return s.w.Flush()
}

// Close flushes and closes the underlying file
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	flushErr := s.w.Flush()
	closeErr := s.f.Close()
	s.f = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
