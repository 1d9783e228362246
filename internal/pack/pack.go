// Package pack loads and generates the card packs a game is dealt from.
//
// A pack file is plain text with one non-negative integer per line. A game
// with N players needs exactly 8*N cards.
package pack

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lox/cardring/internal/card"
	"github.com/lox/cardring/internal/fileutil"
)

// CardsPerPlayer is the number of pack cards each player accounts for: four
// dealt to the hand and four to the deck on their left.
const CardsPerPlayer = 8

var (
	// ErrMalformed is returned for a record that is not an integer
	ErrMalformed = errors.New("malformed pack record")
	// ErrPackSize is returned when the record count does not match the players
	ErrPackSize = errors.New("invalid pack size")
	// ErrExtension is returned for pack files not ending in .txt
	ErrExtension = errors.New("pack file must have a .txt extension")
	// ErrEmpty is returned for an empty pack file
	ErrEmpty = errors.New("pack file is empty")
)

// Size returns the number of cards needed for players
func Size(players int) int {
	return CardsPerPlayer * players
}

// CheckSize validates a record count against the number of players
func CheckSize(count, players int) error {
	if count != Size(players) {
		return fmt.Errorf("%w: expected %d cards for %d players, got %d", ErrPackSize, Size(players), players, count)
	}
	return nil
}

// Parse reads one card per line from r
func Parse(r io.Reader) ([]*card.Card, error) {
	var cards []*card.Card

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			return nil, fmt.Errorf("%w: line %d is empty", ErrMalformed, line)
		}

		value, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q is not an integer", ErrMalformed, line, text)
		}

		c, err := card.New(value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cards = append(cards, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pack: %w", err)
	}

	return cards, nil
}

// Load parses r and checks it holds exactly the cards needed for players
func Load(r io.Reader, players int) ([]*card.Card, error) {
	cards, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if err := CheckSize(len(cards), players); err != nil {
		return nil, err
	}
	return cards, nil
}

// CheckFile validates the pack path before it is read
func CheckFile(path string) error {
	if !strings.HasSuffix(path, ".txt") {
		return fmt.Errorf("%w: %s", ErrExtension, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("pack file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("pack file %s is not a regular file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	return nil
}

// LoadFile checks, opens and loads a pack file for players
func LoadFile(path string, players int) ([]*card.Card, error) {
	if err := CheckFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pack file: %w", err)
	}
	defer f.Close()

	cards, err := Load(f, players)
	if err != nil {
		return nil, fmt.Errorf("pack file %s: %w", filepath.Base(path), err)
	}
	return cards, nil
}

// Generate returns a shuffled pack holding eight cards of each value from 1
// to players, so every player's preferred value is in play.
func Generate(rng *rand.Rand, players int) []int {
	values := make([]int, 0, Size(players))
	for v := 1; v <= players; v++ {
		for i := 0; i < CardsPerPlayer; i++ {
			values = append(values, v)
		}
	}
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return values
}

// WriteFile writes values to path, one per line
func WriteFile(path string, values []int) error {
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = strconv.Itoa(v)
	}
	return fileutil.WriteLinesAtomic(path, lines, 0644)
}
