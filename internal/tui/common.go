package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hi-z-k/focustime/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewBoard
	viewTimer
	viewNotes
	viewVideos
	viewSettings
)

var viewNames = []string{"Dashboard", "Board", "Timer", "Notes", "Videos", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// timerUpdateMsg carries a fresh live pointer from the engine.
type timerUpdateMsg store.TimerState

type timerFinishedMsg struct{}

type exportDoneMsg struct {
	path string
}

type summaryMsg struct {
	noteID string
	text   string
	failed bool
}

// --- Helpers ---

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

// formatClock renders a countdown as MM:SS.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func formatHours(hours float64) string {
	return fmt.Sprintf("%.1fh", hours)
}

func modeLabel(m store.Mode) string {
	switch m {
	case store.ModeShortBreak:
		return "SHORT BREAK"
	case store.ModeLongBreak:
		return "LONG BREAK"
	default:
		return "FOCUS"
	}
}
