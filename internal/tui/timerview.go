package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hi-z-k/focustime/internal/store"
	"github.com/hi-z-k/focustime/internal/timer"
)

// timerModel shows the live pointer and drives transitions through the
// engine. The countdown itself is derived, never stored: every tick
// recomputes it from the deadline, and every engine broadcast replaces
// the local pointer wholesale.
type timerModel struct {
	engine *timer.Engine
	store  *store.Store
	userID string
	width  int
	height int

	state     store.TimerState
	remaining int

	updates <-chan store.TimerState
	stop    func()

	// Guards against firing Finish on every tick once the deadline passes.
	finishing bool
}

func newTimerModel(eng *timer.Engine, s *store.Store, userID string) timerModel {
	m := timerModel{engine: eng, store: s, userID: userID}

	if st, err := s.GetTimerState(userID); err == nil {
		m.state = *st
		m.remaining = timer.Remaining(st, time.Now())
	}

	m.updates, m.stop = eng.Observe(userID)
	return m
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

// listen blocks on the broadcast channel and surfaces the next pointer.
func (t timerModel) listen() tea.Cmd {
	return func() tea.Msg {
		st, ok := <-t.updates
		if !ok {
			return nil
		}
		return timerUpdateMsg(st)
	}
}

func (t timerModel) Init() tea.Cmd {
	return t.listen()
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case timerUpdateMsg:
		t.state = store.TimerState(msg)
		t.remaining = timer.Remaining(&t.state, time.Now())
		t.finishing = false
		return t, t.listen()

	case tickMsg:
		if t.state.IsRunning {
			t.remaining = timer.Remaining(&t.state, time.Time(msg))
			if t.remaining <= 0 && !t.finishing {
				t.finishing = true
				return t, t.finish()
			}
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if !t.state.IsRunning {
				return t, t.start()
			}
		case key.Matches(msg, keys.Pause):
			if t.state.IsRunning {
				return t, t.pause()
			}
			return t, t.start()
		case key.Matches(msg, keys.Mode):
			return t, t.switchMode(nextMode(t.state.Mode))
		}
	}
	return t, nil
}

func (t timerModel) start() tea.Cmd {
	remaining, mode := t.remaining, t.state.Mode
	return func() tea.Msg {
		if _, err := t.engine.Start(t.userID, remaining, mode); err != nil {
			return statusMsg{text: "Error: " + err.Error(), isError: true}
		}
		return statusMsg{text: "Timer started"}
	}
}

func (t timerModel) pause() tea.Cmd {
	remaining, mode := t.remaining, t.state.Mode
	return func() tea.Msg {
		if _, err := t.engine.Pause(t.userID, remaining, mode); err != nil {
			return statusMsg{text: "Error: " + err.Error(), isError: true}
		}
		return statusMsg{text: "Timer paused"}
	}
}

func (t timerModel) switchMode(mode store.Mode) tea.Cmd {
	return func() tea.Msg {
		if _, err := t.engine.SwitchMode(t.userID, mode); err != nil {
			return statusMsg{text: "Error: " + err.Error(), isError: true}
		}
		return statusMsg{text: "Switched to " + modeLabel(mode)}
	}
}

func (t timerModel) finish() tea.Cmd {
	return func() tea.Msg {
		if _, err := t.engine.Finish(t.userID); err != nil {
			return statusMsg{text: "Error: " + err.Error(), isError: true}
		}
		return timerFinishedMsg{}
	}
}

func nextMode(m store.Mode) store.Mode {
	switch m {
	case store.ModeFocus:
		return store.ModeShortBreak
	case store.ModeShortBreak:
		return store.ModeLongBreak
	default:
		return store.ModeFocus
	}
}

func (t timerModel) view() string {
	w := t.width - 4

	title := titleStyle.Render("Focus Timer")

	var timeDisplay, phaseLabel, indicator string
	clock := formatClock(t.remaining)

	switch {
	case t.state.IsRunning:
		timeDisplay = timerRunningStyle.Width(w - 6).Render(clock)
		indicator = successStyle.Render("●  RUNNING")
	default:
		timeDisplay = timerPausedStyle.Width(w - 6).Render(clock)
		indicator = mutedStyle.Render("⏸  PAUSED")
	}

	switch t.state.Mode {
	case store.ModeShortBreak:
		phaseLabel = successStyle.Bold(true).Render(modeLabel(t.state.Mode))
	case store.ModeLongBreak:
		phaseLabel = highlightStyle.Bold(true).Render(modeLabel(t.state.Mode))
	default:
		phaseLabel = accentStyle.Bold(true).Render(modeLabel(t.state.Mode))
	}

	progress := t.renderProgress()

	var controls string
	if t.state.IsRunning {
		controls = mutedStyle.Render("space: pause  m: switch mode")
	} else {
		controls = mutedStyle.Render("s: start  m: switch mode")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		indicator,
		"",
		progress,
		"",
		controls,
	)

	if t.state.IsRunning {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

// renderProgress is a coarse bar across the current segment.
func (t timerModel) renderProgress() string {
	total := t.state.SegmentStart
	if total <= 0 {
		total = timer.DurationFor(t.state.Mode)
	}
	done := total - t.remaining
	if done < 0 {
		done = 0
	}

	const width = 30
	filled := done * width / total
	if filled > width {
		filled = width
	}

	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}
