package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hi-z-k/focustime/internal/store"
)

type settingsModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	dailyGoal    *string
	summarizeURL *string
	videoURL     *string
	videoKey     *string
}

func newSettingsModel(s *store.Store, userID string) settingsModel {
	dg, su, vu, vk := "", "", "", ""
	return settingsModel{
		store:        s,
		userID:       userID,
		dailyGoal:    &dg,
		summarizeURL: &su,
		videoURL:     &vu,
		videoKey:     &vk,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

// settingsSavedMsg tells the app to rebuild the clients that were
// configured from these values.
type settingsSavedMsg struct {
	summarizeEndpoint string
	videoEndpoint     string
	videoAPIKey       string
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.dailyGoal = s.getVal("daily_goal_hours", "2")
	*s.summarizeURL = s.getVal("summarize_endpoint", "")
	*s.videoURL = s.getVal("video_endpoint", "")
	*s.videoKey = s.getVal("video_api_key", "")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Daily goal (hours)").Value(s.dailyGoal).
				Validate(func(v string) error {
					n, err := strconv.ParseFloat(v, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("enter a non-negative number")
					}
					return nil
				}),
		).Title("Goals"),
		huh.NewGroup(
			huh.NewInput().Title("Summarize endpoint").Value(s.summarizeURL),
			huh.NewInput().Title("Video search endpoint").Value(s.videoURL),
			huh.NewInput().Title("Video API key").Value(s.videoKey),
		).Title("Integrations"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		saved := settingsSavedMsg{
			summarizeEndpoint: *s.summarizeURL,
			videoEndpoint:     *s.videoURL,
			videoAPIKey:       *s.videoKey,
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return saved })
	}
	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting("daily_goal_hours", *s.dailyGoal)
	s.store.SetSetting("summarize_endpoint", *s.summarizeURL)
	s.store.SetSetting("video_endpoint", *s.videoURL)
	s.store.SetSetting("video_api_key", *s.videoKey)

	// Keep the per-user goal in step with the global setting.
	if hours, err := strconv.ParseFloat(*s.dailyGoal, 64); err == nil {
		s.store.SetDailyGoal(s.userID, hours)
	}
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	for _, setting := range s.settings {
		if setting.Key == "user_id" || setting.Key == "video_api_key" {
			// Not useful to display; the key stays out of plain view.
			continue
		}
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := setting.Value
		if value == "" {
			value = mutedStyle.Render("(unset)")
		} else {
			value = highlightStyle.Render(value)
		}
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
