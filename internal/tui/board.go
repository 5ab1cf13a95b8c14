package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hi-z-k/focustime/internal/board"
	"github.com/hi-z-k/focustime/internal/store"
)

var taskTypes = []store.TaskType{store.TaskGeneral, store.TaskAssignment, store.TaskExam}

type boardModel struct {
	board  *board.Board
	width  int
	height int

	col int
	row int

	formActive bool
	form       *huh.Form
	formType   string // "task", "edit_task", "delete_task", "stage", "delete_stage"

	// Form field pointers (survive value copies)
	formTitle   *string
	formDesc    *string
	formKind    *string
	formDue     *string
	formConfirm *bool

	editingID string
}

func newBoardModel(b *board.Board) boardModel {
	title, desc, kind, due := "", "", string(store.TaskGeneral), ""
	confirm := false
	return boardModel{
		board:       b,
		formTitle:   &title,
		formDesc:    &desc,
		formKind:    &kind,
		formDue:     &due,
		formConfirm: &confirm,
	}
}

func (b *boardModel) setSize(w, h int) {
	b.width = w
	b.height = h
}

type boardDataMsg struct {
	tasks  []store.Task
	stages []store.Stage
}

// refresh loads the snapshot in the command goroutine and hands it back
// as a message; the shared board is only written from update.
func (b boardModel) refresh() tea.Cmd {
	brd := b.board
	return func() tea.Msg {
		tasks, stages, err := brd.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return boardDataMsg{tasks: tasks, stages: stages}
	}
}

// selected returns the task under the cursor, if any.
func (b boardModel) selected() (store.Task, bool) {
	stages := b.board.Stages()
	if b.col >= len(stages) {
		return store.Task{}, false
	}
	tasks := b.board.TasksIn(stages[b.col].Name)
	if b.row >= len(tasks) {
		return store.Task{}, false
	}
	return tasks[b.row], true
}

func (b boardModel) update(msg tea.Msg) (boardModel, tea.Cmd) {
	if b.formActive && b.form != nil {
		return b.updateForm(msg)
	}

	switch msg := msg.(type) {
	case boardDataMsg:
		b.board.Apply(msg.tasks, msg.stages)
		b.clampCursor()
		return b, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if b.col > 0 {
				b.col--
				b.row = 0
			}
		case key.Matches(msg, keys.Right):
			if b.col < len(b.board.Stages())-1 {
				b.col++
				b.row = 0
			}
		case key.Matches(msg, keys.Up):
			if b.row > 0 {
				b.row--
			}
		case key.Matches(msg, keys.Down):
			stages := b.board.Stages()
			if b.col < len(stages) && b.row < len(b.board.TasksIn(stages[b.col].Name))-1 {
				b.row++
			}
		case key.Matches(msg, keys.New):
			return b.showTaskForm(nil)
		case key.Matches(msg, keys.Edit):
			if t, ok := b.selected(); ok {
				return b.showTaskForm(&t)
			}
		case key.Matches(msg, keys.Delete):
			if t, ok := b.selected(); ok {
				return b.showConfirmForm("delete_task", fmt.Sprintf("Delete %q?", t.Title), t.ID)
			}
		case key.Matches(msg, keys.Toggle):
			if t, ok := b.selected(); ok {
				if err := b.board.ToggleTask(t.ID); err != nil {
					return b, errorCmd(err)
				}
				b.clampCursor()
			}
		case key.Matches(msg, keys.Stage):
			return b.showStageForm()
		case msg.String() == "D":
			stages := b.board.Stages()
			if b.col < len(stages) {
				st := stages[b.col]
				if st.Builtin {
					return b, func() tea.Msg {
						return statusMsg{text: "Built-in columns cannot be removed", isError: true}
					}
				}
				return b.showConfirmForm("delete_stage", fmt.Sprintf("Remove column %q? Its tasks fall back to %s.", st.Name, store.DefaultStage), st.Name)
			}
		case msg.String() == ">":
			return b.moveSelected(1)
		case msg.String() == "<":
			return b.moveSelected(-1)
		}
	}
	return b, nil
}

// moveSelected shifts the task under the cursor one column over. The
// snapshot updates immediately and rolls back if the write fails.
func (b boardModel) moveSelected(dir int) (boardModel, tea.Cmd) {
	t, ok := b.selected()
	if !ok {
		return b, nil
	}
	stages := b.board.Stages()
	target := b.col + dir
	if target < 0 || target >= len(stages) {
		return b, nil
	}

	if err := b.board.UpdateTaskStatusOptimistic(t.ID, stages[target].Name); err != nil {
		return b, errorCmd(err)
	}
	b.col = target
	b.row = 0
	return b, nil
}

func (b *boardModel) clampCursor() {
	stages := b.board.Stages()
	if len(stages) == 0 {
		b.col, b.row = 0, 0
		return
	}
	if b.col >= len(stages) {
		b.col = len(stages) - 1
	}
	tasks := b.board.TasksIn(stages[b.col].Name)
	if b.row >= len(tasks) {
		b.row = max(0, len(tasks)-1)
	}
}

func (b boardModel) showTaskForm(existing *store.Task) (boardModel, tea.Cmd) {
	if existing != nil {
		*b.formTitle = existing.Title
		*b.formDesc = existing.Description
		*b.formKind = string(existing.Type)
		*b.formDue = ""
		if existing.DueDate != nil {
			*b.formDue = existing.DueDate.Local().Format("2006-01-02")
		}
		b.formType = "edit_task"
		b.editingID = existing.ID
	} else {
		*b.formTitle = ""
		*b.formDesc = ""
		*b.formKind = string(store.TaskGeneral)
		*b.formDue = ""
		b.formType = "task"
	}

	typeOptions := make([]huh.Option[string], len(taskTypes))
	for i, tt := range taskTypes {
		typeOptions[i] = huh.NewOption(string(tt), string(tt))
	}

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(b.formTitle),
			huh.NewInput().Title("Description").Value(b.formDesc),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(b.formKind),
			huh.NewInput().Title("Due date (YYYY-MM-DD, optional)").Value(b.formDue),
		),
	).WithShowHelp(true).WithShowErrors(true)

	b.formActive = true
	return b, b.form.Init()
}

func (b boardModel) showStageForm() (boardModel, tea.Cmd) {
	*b.formTitle = ""
	b.formType = "stage"

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Column name").Value(b.formTitle),
		),
	).WithShowHelp(true).WithShowErrors(true)

	b.formActive = true
	return b, b.form.Init()
}

func (b boardModel) showConfirmForm(formType, prompt, id string) (boardModel, tea.Cmd) {
	*b.formConfirm = false
	b.formType = formType
	b.editingID = id

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(prompt).Value(b.formConfirm),
		),
	).WithShowHelp(true).WithShowErrors(true)

	b.formActive = true
	return b, b.form.Init()
}

func (b boardModel) updateForm(msg tea.Msg) (boardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			b.formActive = false
			b.form = nil
			return b, nil
		}
	}

	form, cmd := b.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		b.form = f
	}

	if b.form.State == huh.StateCompleted {
		b.formActive = false
		return b.submitForm()
	}
	return b, cmd
}

func (b boardModel) submitForm() (boardModel, tea.Cmd) {
	switch b.formType {
	case "task":
		if *b.formTitle == "" {
			return b, nil
		}
		due := parseDue(*b.formDue)
		if _, err := b.board.AddTask(*b.formTitle, *b.formDesc, store.TaskType(*b.formKind), due); err != nil {
			return b, errorCmd(err)
		}
	case "edit_task":
		if *b.formTitle == "" {
			return b, nil
		}
		kind := store.TaskType(*b.formKind)
		upd := store.TaskUpdate{
			Title:       b.formTitle,
			Description: b.formDesc,
			Type:        &kind,
			DueDate:     parseDue(*b.formDue),
		}
		if err := b.board.EditTask(b.editingID, upd); err != nil {
			return b, errorCmd(err)
		}
	case "delete_task":
		if *b.formConfirm {
			if err := b.board.DeleteTask(b.editingID); err != nil {
				return b, errorCmd(err)
			}
			b.clampCursor()
		}
	case "stage":
		if *b.formTitle != "" {
			if err := b.board.AddStage(*b.formTitle); err != nil {
				return b, errorCmd(err)
			}
		}
	case "delete_stage":
		if *b.formConfirm {
			if err := b.board.RemoveStage(b.editingID); err != nil {
				return b, errorCmd(err)
			}
			b.clampCursor()
		}
	}
	return b, nil
}

func parseDue(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

func (b boardModel) view() string {
	if b.formActive && b.form != nil {
		title := titleStyle.Render("New Task")
		switch b.formType {
		case "edit_task":
			title = titleStyle.Render("Edit Task")
		case "stage":
			title = titleStyle.Render("New Column")
		case "delete_task", "delete_stage":
			title = titleStyle.Render("Confirm")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", b.form.View())
		return panelStyle.Width(b.width - 4).Render(content)
	}

	stages := b.board.Stages()
	if len(stages) == 0 {
		return panelStyle.Width(b.width - 4).Render(mutedStyle.Render("Loading board..."))
	}

	colWidth := (b.width - 4) / len(stages)
	if colWidth < 16 {
		colWidth = 16
	}

	var cols []string
	for i, st := range stages {
		cols = append(cols, b.renderColumn(st, i, colWidth))
	}

	boardRow := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	hint := mutedStyle.Render("  n: new  e: edit  x: done  d: delete  </>: move  c: add column  D: remove column")

	return lipgloss.JoinVertical(lipgloss.Left, boardRow, hint)
}

func (b boardModel) renderColumn(st store.Stage, idx, w int) string {
	tasks := b.board.TasksIn(st.Name)

	header := titleStyle.Render(st.Name) + mutedStyle.Render(fmt.Sprintf(" %d", len(tasks)))

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	if len(tasks) == 0 {
		rows = append(rows, mutedStyle.Render("—"))
	}

	for j, t := range tasks {
		cursor := "  "
		style := normalItemStyle
		if idx == b.col && j == b.row {
			cursor = "> "
			style = selectedItemStyle
		}
		if t.Completed {
			style = doneItemStyle
		}

		check := "☐"
		if t.Completed {
			check = "☑"
		}
		line := style.Render(fmt.Sprintf("%s%s %s", cursor, check, truncate(t.Title, w-8)))

		meta := ""
		if t.Type != store.TaskGeneral {
			meta = accentStyle.Render(" " + string(t.Type))
		}
		if t.DueDate != nil {
			due := t.DueDate.Local().Format("Jan 02")
			if t.DueDate.Before(time.Now()) && !t.Completed {
				meta += errorStyle.Render(" ⏰" + due)
			} else {
				meta += mutedStyle.Render(" ⏰" + due)
			}
		}
		rows = append(rows, line+meta)
	}

	style := columnStyle
	if idx == b.col {
		style = activeColumnStyle
	}
	return style.Width(w - 2).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
