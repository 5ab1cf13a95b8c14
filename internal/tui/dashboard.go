package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hi-z-k/focustime/internal/analytics"
	"github.com/hi-z-k/focustime/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	report        analytics.Report
	unread        int
	notifications []store.Notification

	chart barchart.Model
}

func newDashboardModel(s *store.Store, userID string) dashboardModel {
	return dashboardModel{
		store:  s,
		userID: userID,
		chart:  barchart.New(40, 8),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	report        analytics.Report
	unread        int
	notifications []store.Notification
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		sessions, _ := d.store.ListSessions(d.userID, store.SessionFilter{})
		stats, err := d.store.GetStats(d.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		unread, _ := d.store.CountUnreadNotifications(d.userID)
		notifications, _ := d.store.ListNotifications(d.userID, 3)

		return dashboardDataMsg{
			report:        analytics.Aggregate(sessions, stats, time.Now()),
			unread:        unread,
			notifications: notifications,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.report = msg.report
		d.unread = msg.unread
		d.notifications = msg.notifications
		d.buildChart()
		return d, nil

	case timerFinishedMsg:
		return d, d.loadData()

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return d, d.markListedRead()
		case "C":
			return d, d.clearNotifications()
		}
	}
	return d, nil
}

// markListedRead marks the notifications currently on screen as read and
// reloads the panel.
func (d dashboardModel) markListedRead() tea.Cmd {
	var ids []string
	for _, n := range d.notifications {
		if !n.Read {
			ids = append(ids, n.ID)
		}
	}
	load := d.loadData()
	return func() tea.Msg {
		for _, id := range ids {
			if err := d.store.MarkNotificationRead(id); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}
		return load()
	}
}

func (d dashboardModel) clearNotifications() tea.Cmd {
	load := d.loadData()
	return func() tea.Msg {
		if err := d.store.ClearNotifications(d.userID); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return load()
	}
}

func (d *dashboardModel) buildChart() {
	chartWidth := d.width - 12
	if chartWidth < 28 {
		chartWidth = 28
	}
	d.chart = barchart.New(chartWidth, 8)

	var bars []barchart.BarData
	for i, label := range analytics.WeekdayLabels {
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if i == todayIndex() {
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: label, Value: d.report.WeeklyHours[i], Style: style},
			},
		})
	}

	d.chart.PushAll(bars)
	d.chart.Draw()
}

func todayIndex() int {
	return (int(time.Now().Weekday()) + 6) % 7
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	petPanel := d.renderPetPanel(w)
	chartPanel := d.renderChartPanel(w)
	badgePanel := d.renderBadgePanel(w)

	return lipgloss.JoinVertical(lipgloss.Left, petPanel, chartPanel, badgePanel)
}

func (d dashboardModel) renderPetPanel(w int) string {
	r := d.report

	pet := lipgloss.NewStyle().
		Foreground(lipgloss.Color(r.Mood.Color)).
		Bold(true).
		Render(fmt.Sprintf("%s  %s", r.Evolution.Emoji, r.Mood.Accessory))

	moodLine := fmt.Sprintf("%s  %s",
		titleStyle.Render(r.Evolution.Stage),
		lipgloss.NewStyle().Foreground(lipgloss.Color(r.Mood.Color)).Render(r.Mood.Name),
	)

	streakLine := fmt.Sprintf("Streak: %s   Total: %s   Goal: %s/day",
		accentStyle.Render(fmt.Sprintf("%d days", r.Streak)),
		highlightStyle.Render(formatHours(r.HoursSpentTotal)),
		mutedStyle.Render(formatHours(r.DailyGoalHours)),
	)

	var inbox string
	if d.unread > 0 {
		inbox = warningStyle.Render(fmt.Sprintf("🔔 %d unread", d.unread))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		pet,
		moodLine,
		"",
		streakLine,
		inbox,
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderChartPanel(w int) string {
	title := titleStyle.Render("This Week")

	var total float64
	for _, h := range d.report.WeeklyHours {
		total += h
	}
	sub := mutedStyle.Render(fmt.Sprintf("  %s focused", formatHours(total)))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title+sub, "", d.chart.View()),
	)
}

func (d dashboardModel) renderBadgePanel(w int) string {
	title := titleStyle.Render("Milestones")

	var items []string
	for _, m := range d.report.Milestones {
		label := fmt.Sprintf("%s %s", m.Icon, m.Title)
		if m.Unlocked {
			items = append(items, successStyle.Render(label))
		} else {
			items = append(items, mutedStyle.Render(label))
		}
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, "  "+strings.Join(items, "   "))

	if len(d.notifications) > 0 {
		rows = append(rows, "")
		for _, n := range d.notifications {
			marker := mutedStyle.Render("  · ")
			text := mutedStyle.Render(n.Text)
			if !n.Read {
				marker = warningStyle.Render("  ● ")
				text = normalItemStyle.Render(n.Text)
			}
			rows = append(rows, marker+text)
		}
		rows = append(rows, mutedStyle.Render("  r: mark read  C: clear all"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
