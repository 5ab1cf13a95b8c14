package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hi-z-k/focustime/internal/auth"
	"github.com/hi-z-k/focustime/internal/board"
	"github.com/hi-z-k/focustime/internal/export"
	"github.com/hi-z-k/focustime/internal/notes"
	"github.com/hi-z-k/focustime/internal/search"
	"github.com/hi-z-k/focustime/internal/store"
	"github.com/hi-z-k/focustime/internal/timer"
)

// App is the root Bubble Tea model.
type App struct {
	store   *store.Store
	session auth.Session
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	board     boardModel
	timer     timerModel
	notes     notesModel
	videos    videosModel
	settings  settingsModel

	help         help.Model
	status       string
	statusError  bool
	statusExpiry time.Time
}

func NewApp(s *store.Store, session auth.Session, eng *timer.Engine) App {
	h := help.New()
	h.ShowAll = false

	summarizeURL, _ := s.GetSetting("summarize_endpoint")
	videoURL, _ := s.GetSetting("video_endpoint")
	videoKey, _ := s.GetSetting("video_api_key")

	b := board.New(s, session)
	svc := notes.NewService(s, session, notes.NewSummarizer(summarizeURL))
	searcher := search.NewSearcher(search.NewClient(videoURL, videoKey))

	return App{
		store:      s,
		session:    session,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s, session.UserID),
		board:      newBoardModel(b),
		timer:      newTimerModel(eng, s, session.UserID),
		notes:      newNotesModel(svc),
		videos:     newVideosModel(searcher),
		settings:   newSettingsModel(s, session.UserID),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.board.refresh(),
		a.timer.Init(),
		a.notes.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.board.setSize(a.width, contentHeight)
		a.timer.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		a.videos.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.timer.stop()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewBoard
			return a, a.board.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewNotes
			return a, a.notes.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewVideos
			return a, nil
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 6
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		if a.status != "" && time.Now().After(a.statusExpiry) {
			a.status = ""
		}
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case timerUpdateMsg:
		// Pointer updates always reach the timer view, whichever tab is up.
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, cmd

	case timerFinishedMsg:
		a.setStatus("Session complete! \a", false)
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case settingsSavedMsg:
		// Endpoint edits take effect immediately, no restart needed.
		a.notes.svc.SetSummarizer(notes.NewSummarizer(msg.summarizeEndpoint))
		a.videos.searcher.SetClient(search.NewClient(msg.videoEndpoint, msg.videoAPIKey))
		a.setStatus("Settings saved", false)
		return a, nil

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusError = isError
	a.statusExpiry = time.Now().Add(5 * time.Second)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewBoard:
		a.board, cmd = a.board.update(msg)
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	case viewVideos:
		a.videos, cmd = a.videos.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewBoard:
		return a.board.formActive
	case viewNotes:
		return a.notes.formActive
	case viewVideos:
		return a.videos.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewBoard:
		return a.board.refresh()
	case viewNotes:
		return a.notes.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewBoard:
		content = a.board.view()
	case viewTimer:
		content = a.timer.view()
	case viewNotes:
		content = a.notes.view()
	case viewVideos:
		content = a.videos.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("focustime")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Countdown indicator in footer while the timer runs.
	timerInfo := ""
	if a.timer.state.IsRunning {
		timerInfo = successStyle.Render(" ● " + formatClock(a.timer.remaining))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		records, err := a.store.ListSessions(a.session.UserID, store.SessionFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("focustime-export-%s.csv", dateStr))
			if err := export.ToCSV(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("focustime-export-%s.json", dateStr))
			if err := export.ToJSON(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
