package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(playing bool) string {
	s := "space "
	if playing {
		s += "pause"
	} else {
		s += "play"
	}
	s += "  e export png  q quit"
	return s
}
