package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hi-z-k/focustime/internal/notes"
	"github.com/hi-z-k/focustime/internal/store"
)

type notesModel struct {
	svc    *notes.Service
	width  int
	height int

	notes  []store.Note
	cursor int

	summaries map[string]string // note id -> last summary
	waiting   bool

	formActive bool
	form       *huh.Form
	formType   string // "note", "edit_note", "delete_note"

	formTitle   *string
	formContent *string
	formConfirm *bool

	editingID string
}

func newNotesModel(svc *notes.Service) notesModel {
	title, content := "", ""
	confirm := false
	return notesModel{
		svc:         svc,
		summaries:   make(map[string]string),
		formTitle:   &title,
		formContent: &content,
		formConfirm: &confirm,
	}
}

func (n *notesModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

type notesDataMsg struct {
	notes []store.Note
}

func (n notesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		list, err := n.svc.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return notesDataMsg{notes: list}
	}
}

func (n notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	if n.formActive && n.form != nil {
		return n.updateForm(msg)
	}

	switch msg := msg.(type) {
	case notesDataMsg:
		n.notes = msg.notes
		if n.cursor >= len(n.notes) {
			n.cursor = max(0, len(n.notes)-1)
		}
		return n, nil

	case summaryMsg:
		n.waiting = false
		n.summaries[msg.noteID] = msg.text
		if msg.failed {
			return n, func() tea.Msg {
				return statusMsg{text: "Summarization failed", isError: true}
			}
		}
		return n, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(n.notes)-1 {
				n.cursor++
			}
		case key.Matches(msg, keys.New):
			return n.showNoteForm(nil)
		case key.Matches(msg, keys.Edit):
			if n.cursor < len(n.notes) {
				note := n.notes[n.cursor]
				return n.showNoteForm(&note)
			}
		case key.Matches(msg, keys.Delete):
			if n.cursor < len(n.notes) {
				return n.showDeleteForm(n.notes[n.cursor])
			}
		case key.Matches(msg, keys.Summarize):
			if n.cursor < len(n.notes) && !n.waiting {
				n.waiting = true
				return n, n.summarize(n.notes[n.cursor].ID)
			}
		}
	}
	return n, nil
}

func (n notesModel) summarize(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		text, err := n.svc.Summarize(ctx, id)
		return summaryMsg{noteID: id, text: text, failed: err != nil}
	}
}

func (n notesModel) showNoteForm(existing *store.Note) (notesModel, tea.Cmd) {
	if existing != nil {
		*n.formTitle = existing.Title
		*n.formContent = existing.Content
		n.formType = "edit_note"
		n.editingID = existing.ID
	} else {
		*n.formTitle = ""
		*n.formContent = ""
		n.formType = "note"
	}

	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(n.formTitle),
			huh.NewText().Title("Content (markdown)").Value(n.formContent),
		),
	).WithShowHelp(true).WithShowErrors(true)

	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) showDeleteForm(note store.Note) (notesModel, tea.Cmd) {
	*n.formConfirm = false
	n.formType = "delete_note"
	n.editingID = note.ID

	label := note.Title
	if label == "" {
		label = "this note"
	}
	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(fmt.Sprintf("Delete %q?", label)).Value(n.formConfirm),
		),
	).WithShowHelp(true).WithShowErrors(true)

	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) updateForm(msg tea.Msg) (notesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			n.formActive = false
			n.form = nil
			return n, nil
		}
	}

	form, cmd := n.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		n.form = f
	}

	if n.form.State == huh.StateCompleted {
		n.formActive = false
		switch n.formType {
		case "note":
			if _, err := n.svc.Create(*n.formTitle, *n.formContent); err != nil {
				return n, errorCmd(err)
			}
		case "edit_note":
			if err := n.svc.Edit(n.editingID, *n.formTitle, *n.formContent); err != nil {
				return n, errorCmd(err)
			}
		case "delete_note":
			if *n.formConfirm {
				if err := n.svc.Delete(n.editingID); err != nil {
					return n, errorCmd(err)
				}
				delete(n.summaries, n.editingID)
			}
		}
		return n, n.refresh()
	}
	return n, cmd
}

func (n notesModel) view() string {
	w := n.width - 4

	if n.formActive && n.form != nil {
		title := titleStyle.Render("New Note")
		switch n.formType {
		case "edit_note":
			title = titleStyle.Render("Edit Note")
		case "delete_note":
			title = titleStyle.Render("Confirm")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", n.form.View()),
		)
	}

	if len(n.notes) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Notes"),
			"",
			mutedStyle.Render("No notes yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	listWidth := w / 3
	if listWidth < 20 {
		listWidth = 20
	}
	list := n.renderList(listWidth)
	preview := n.renderPreview(w - listWidth - 4)

	row := lipgloss.JoinHorizontal(lipgloss.Top, list, preview)
	hint := mutedStyle.Render("  n: new  e: edit  d: delete  a: summarize")
	return lipgloss.JoinVertical(lipgloss.Left, row, hint)
}

func (n notesModel) renderList(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Notes"))
	rows = append(rows, "")

	for i, note := range n.notes {
		cursor := "  "
		style := normalItemStyle
		if i == n.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		title := note.Title
		if title == "" {
			title = "(untitled)"
		}
		when := mutedStyle.Render(" " + note.Timestamp.Local().Format("Jan 02"))
		rows = append(rows, style.Render(cursor+truncate(title, w-10))+when)
	}

	return columnStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (n notesModel) renderPreview(w int) string {
	note := n.notes[n.cursor]

	rendered, err := glamour.Render(note.Content, "dark")
	if err != nil {
		rendered = note.Content
	}

	var rows []string
	title := note.Title
	if title == "" {
		title = "(untitled)"
	}
	rows = append(rows, titleStyle.Render(title))
	rows = append(rows, strings.TrimRight(rendered, "\n"))

	if n.waiting {
		rows = append(rows, "")
		rows = append(rows, warningStyle.Render("Summarizing..."))
	} else if summary, ok := n.summaries[note.ID]; ok {
		rows = append(rows, "")
		rows = append(rows, highlightStyle.Render("AI Summary"))
		rows = append(rows, normalItemStyle.Render(summary))
	}

	return activeColumnStyle.Width(w).Render(strings.Join(rows, "\n"))
}
