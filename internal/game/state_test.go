package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableStateOver(t *testing.T) {
	tests := []struct {
		state TableState
		name  string
		over  bool
	}{
		{TableSetup, "setup", false},
		{TableDealing, "dealing", false},
		{TableRunning, "running", false},
		{TableWon, "won", true},
		{TableFinalized, "finalized", true},
		{TableAborted, "aborted", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.state.String())
			assert.Equal(t, tt.over, tt.state.Over())
		})
	}
	assert.Equal(t, "unknown", TableState(99).String())
}

func TestPlayerStateString(t *testing.T) {
	assert.Equal(t, "checking-initial", PlayerCheckingInitial.String())
	assert.Equal(t, "lost", PlayerLost.String())
	assert.Equal(t, "unknown", PlayerState(-1).String())
}
