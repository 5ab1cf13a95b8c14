package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hi-z-k/focustime/internal/search"
)

// videosModel finds educational videos to queue up for break time.
type videosModel struct {
	searcher *search.Searcher
	width    int
	height   int

	query   string
	results []search.Video
	cursor  int
	waiting bool

	formActive bool
	form       *huh.Form
	formQuery  *string
}

func newVideosModel(s *search.Searcher) videosModel {
	q := ""
	return videosModel{searcher: s, formQuery: &q}
}

func (v *videosModel) setSize(w, h int) {
	v.width = w
	v.height = h
}

type videoResultsMsg struct {
	query      string
	videos     []search.Video
	superseded bool
	err        error
}

func (v videosModel) runSearch(query string) tea.Cmd {
	return func() tea.Msg {
		videos, err := v.searcher.Search(query)
		return videoResultsMsg{
			query:      query,
			videos:     videos,
			superseded: errors.Is(err, context.Canceled),
			err:        err,
		}
	}
}

func (v videosModel) update(msg tea.Msg) (videosModel, tea.Cmd) {
	if v.formActive && v.form != nil {
		return v.updateForm(msg)
	}

	switch msg := msg.(type) {
	case videoResultsMsg:
		// A superseded query's result is stale; drop it silently.
		if msg.superseded {
			return v, nil
		}
		v.waiting = false
		if msg.err != nil {
			return v, errorCmd(msg.err)
		}
		v.query = msg.query
		v.results = msg.videos
		v.cursor = 0
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keys.Down):
			if v.cursor < len(v.results)-1 {
				v.cursor++
			}
		case key.Matches(msg, keys.Search), key.Matches(msg, keys.New):
			return v.showSearchForm()
		}
	}
	return v, nil
}

func (v videosModel) showSearchForm() (videosModel, tea.Cmd) {
	*v.formQuery = v.query

	v.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search educational videos").Value(v.formQuery),
		),
	).WithShowHelp(true).WithShowErrors(true)

	v.formActive = true
	return v, v.form.Init()
}

func (v videosModel) updateForm(msg tea.Msg) (videosModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			v.formActive = false
			v.form = nil
			return v, nil
		}
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		v.formActive = false
		q := strings.TrimSpace(*v.formQuery)
		if q == "" {
			return v, nil
		}
		v.waiting = true
		return v, v.runSearch(q)
	}
	return v, cmd
}

func (v videosModel) view() string {
	w := v.width - 4

	if v.formActive && v.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Video Search"), "", v.form.View()),
		)
	}

	title := titleStyle.Render("Educational Videos")
	if v.query != "" {
		title += mutedStyle.Render(fmt.Sprintf("  %q", v.query))
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	switch {
	case v.waiting:
		rows = append(rows, warningStyle.Render("  Searching..."))
	case v.query == "":
		rows = append(rows, mutedStyle.Render("  Press / to search for something to watch on your break."))
	case len(v.results) == 0:
		rows = append(rows, mutedStyle.Render("  No educational results. Try another query."))
	default:
		for i, video := range v.results {
			cursor := "  "
			style := normalItemStyle
			if i == v.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			line := style.Render(cursor + truncate(video.Title, w-30))
			line += mutedStyle.Render("  " + video.Channel)
			rows = append(rows, line)
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  /: search"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
