package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lox/cardring/internal/card"
	"github.com/lox/cardring/internal/game"
	"github.com/lox/cardring/internal/pack"
)

// errNoInput is returned when input ends before a valid answer was given
var errNoInput = errors.New("no more input")

// prompter asks for missing settings on a line-based terminal, re-asking
// until the answer is usable
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprintln(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errNoInput
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Players asks for the number of players
func (p *prompter) Players() (int, error) {
	for {
		answer, err := p.ask("Please enter the number of players:")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, "Invalid input. Please enter a valid integer.")
			continue
		}
		if n < game.MinPlayers {
			fmt.Fprintf(p.out, "Invalid input. Please enter an integer %d or above.\n", game.MinPlayers)
			continue
		}
		return n, nil
	}
}

// Pack asks for a pack file until one loads for players
func (p *prompter) Pack(players int) (string, []*card.Card, error) {
	for {
		path, err := p.ask("Please enter the location of the pack to load:")
		if err != nil {
			return "", nil, err
		}
		if path == "" {
			fmt.Fprintln(p.out, "Please enter a file location.")
			continue
		}
		cards, err := pack.LoadFile(path, players)
		if err != nil {
			fmt.Fprintf(p.out, "Cannot use %s: %v\n", path, err)
			continue
		}
		return path, cards, nil
	}
}
