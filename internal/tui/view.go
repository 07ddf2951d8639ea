package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada-kanban/internal/board"
	"github.com/Makepad-fr/tada-kanban/internal/model"
	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

func (m Model) View() string {
	t := ui.Current()
	columns := m.board().Columns()
	colWidth := max(18, (m.width-2)/len(columns)-2)

	cols := make([]string, 0, len(columns))
	for ci, c := range columns {
		cols = append(cols, m.renderColumn(ci, c, colWidth))
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")
	if active, ok := m.board().ActiveTask(); ok {
		b.WriteString(t.Pending.Render(fmt.Sprintf("%s dragging #%d %s", t.Grip, active.ID, active.Title)))
		b.WriteString("\n")
	}
	if m.toast.text != "" {
		style, sym := t.Success, t.SymOK
		if m.toast.failed {
			style, sym = t.Error, t.SymFail
		}
		b.WriteString(style.Render(sym + " " + m.toast.text))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header() string {
	t := ui.Current()
	b := m.board()
	done := len(b.TasksInColumn(model.StatusDone))
	total := 0
	for _, c := range b.Columns() {
		total += len(b.TasksInColumn(c.Key))
	}
	line := fmt.Sprintf("%s   %s %s",
		t.Title.Render(m.title),
		t.Muted.Render(ui.ProgressBar(done, total, 20)),
		t.Accent.Render(fmt.Sprintf("%d tasks", total)),
	)
	if n := len(m.pending); n > 0 || m.loading {
		line += "  " + m.spin.View()
		if n > 0 {
			line += t.Muted.Render(fmt.Sprintf(" saving %d", n))
		}
	}
	return line
}

func (m Model) renderColumn(ci int, c board.ColumnInfo, width int) string {
	t := ui.Current()
	tasks := m.board().TasksInColumn(c.Key)
	focused := ci == m.col

	title := fmt.Sprintf("%s (%d)", c.Title, len(tasks))
	if focused {
		title = t.Selected.Render(title)
	} else {
		title = t.Title.Render(title)
	}

	lines := []string{title}
	for ri, task := range tasks {
		if m.dragging && focused && ri == m.row && task.ID != m.dragID {
			lines = append(lines, dropMarker(width))
		}
		lines = append(lines, m.renderCard(task, focused && ri == m.row, width))
	}
	if m.dragging && focused && m.row >= len(tasks) {
		lines = append(lines, dropMarker(width))
	}
	if len(tasks) == 0 && !(m.dragging && focused) {
		lines = append(lines, t.Muted.Render("(empty)"))
	}

	style := t.Column.Width(width)
	if focused {
		style = style.BorderForeground(lipgloss.Color("12"))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderCard(task model.Task, cursor bool, width int) string {
	t := ui.Current()
	inner := max(8, width-4)

	head := ui.Truncate(fmt.Sprintf("#%d %s", task.ID, task.Title), inner)
	var meta []string
	if task.Priority != "" {
		meta = append(meta, string(task.Priority))
	}
	if name := task.AssigneeName(); name != "" {
		meta = append(meta, name)
	}
	if task.Deadline != nil {
		meta = append(meta, task.Deadline.Format("Jan 02"))
	}
	body := head
	if len(meta) > 0 {
		body += "\n" + t.Muted.Render(ui.Truncate(strings.Join(meta, " · "), inner))
	}
	if m.pending[task.ID] {
		body += "\n" + t.Pending.Render("saving…")
	}

	style := t.Card
	switch {
	case m.dragging && task.ID == m.dragID:
		style = t.ActiveCard
	case cursor:
		style = style.BorderForeground(lipgloss.Color("12"))
	}
	return style.Width(inner + 2).Render(body)
}

func dropMarker(width int) string {
	return ui.Current().Accent.Render(ui.Truncate("▸ drop here "+strings.Repeat("─", width), width))
}
