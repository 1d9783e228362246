package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/cardring/internal/eventlog"
	"github.com/lox/cardring/internal/game"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	winStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	abortStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

func renderSummary(result *game.Result, store *eventlog.FileStore) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cardring " + result.GameID))
	b.WriteString("\n\n")

	if result.Winner != 0 {
		b.WriteString(winStyle.Render(fmt.Sprintf("Player %d wins", result.Winner)))
	} else {
		b.WriteString(abortStyle.Render("No winner"))
	}
	fmt.Fprintf(&b, " after %s\n\n", result.Duration.Round(time.Microsecond))

	for i, hand := range result.Hands {
		id := i + 1
		fmt.Fprintf(&b, "%s %s  %s %d\n",
			labelStyle.Render(fmt.Sprintf("player %d", id)),
			game.FormatValues(hand),
			labelStyle.Render("draws"),
			result.Draws[i])
	}
	b.WriteString("\n")
	for i, values := range result.Decks {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("deck %d", i+1)), game.FormatValues(values))
	}
	if store != nil {
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("output"), store.Dir)
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
