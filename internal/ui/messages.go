package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/grater/internal/player"
)

type tickMsg time.Time

// decodeMsg reports one background decode pass.
type decodeMsg struct {
	samples int64 // mono samples decoded by this pass
	done    bool  // stream exhausted (or failed); no further passes
	err     error
}

type exportDoneMsg struct {
	dest string
	err  error
}

type playerReadyMsg struct {
	player *player.Player
	err    error
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
