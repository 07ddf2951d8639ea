// Package tui is the interactive kanban board. Cards are picked up and dropped
// with the keyboard; a drop on another column changes the task's status on the
// server and is rolled back if the server refuses.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-kanban/internal/board"
	"github.com/Makepad-fr/tada-kanban/internal/model"
)

const toastTTL = 3 * time.Second

// Loader fetches a fresh task list for the board.
type Loader func(ctx context.Context) ([]model.Task, error)

type moveSettledMsg struct {
	move board.Move
	err  error
}

type tasksLoadedMsg struct {
	tasks []model.Task
	err   error
}

type toastExpiredMsg struct{ seq int }

type toast struct {
	text   string
	failed bool
	seq    int
}

type Model struct {
	ctx    context.Context
	mover  *board.Mover
	load   Loader
	title  string
	keys   keyMap
	help   help.Model
	spin   spinner.Model
	width  int
	height int

	col, row int // cursor: column index into board.Rendered, card index
	dragging bool
	dragID   int

	pending  map[int]bool // tasks with a status change in flight
	loading  bool
	toast    toast
	toastSeq int
}

func New(ctx context.Context, title string, mover *board.Mover, load Loader) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	return Model{
		ctx:     ctx,
		mover:   mover,
		load:    load,
		title:   title,
		keys:    defaultKeys(),
		help:    help.New(),
		spin:    sp,
		width:   100,
		height:  30,
		pending: map[int]bool{},
	}
}

// Run starts the board full screen and blocks until the user quits.
func Run(ctx context.Context, title string, mover *board.Mover, load Loader) error {
	p := tea.NewProgram(New(ctx, title, mover, load), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) board() *board.Board { return m.mover.Board() }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case moveSettledMsg:
		delete(m.pending, msg.move.Task.ID)
		n := m.mover.Settle(msg.move, msg.err)
		m.clampCursor()
		return m, m.showToast(n.Message, n.Failed)

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.showToast("Failed to load tasks: "+msg.err.Error(), true)
		}
		m.mover = m.mover.Rebind(board.New(m.board().ProjectID(), msg.tasks))
		m.clampCursor()
		return m, m.showToast("Board reloaded", false)

	case toastExpiredMsg:
		if msg.seq == m.toast.seq {
			m.toast = toast{}
		}
		return m, nil

	case spinner.TickMsg:
		if len(m.pending) == 0 && !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.dragging {
			m.board().EndDrag(m.dragID, board.DropTarget{})
			m.dragging = false
			m.clampCursor()
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(board.Rendered)-1 {
			m.col++
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		m.row++
		m.clampCursor()

	case key.Matches(msg, m.keys.Grab):
		// The board is about to be replaced; a move started now would be lost.
		if m.loading {
			return m, nil
		}
		if m.dragging {
			return m.drop()
		}
		m.pickUp()

	case key.Matches(msg, m.keys.Reload):
		if m.load == nil || m.dragging || m.loading || len(m.pending) > 0 {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.reload(), m.spin.Tick)
	}
	return m, nil
}

func (m *Model) pickUp() {
	tasks := m.columnTasks(m.col)
	if m.row >= len(tasks) {
		return
	}
	t := tasks[m.row]
	if m.pending[t.ID] {
		return
	}
	m.board().BeginDrag(t.ID)
	if _, ok := m.board().ActiveTask(); ok {
		m.dragging = true
		m.dragID = t.ID
	}
}

// drop releases the dragged card at the cursor: on a card means "before that
// card", on the empty slot at the end of a column means "append".
func (m Model) drop() (tea.Model, tea.Cmd) {
	m.dragging = false
	target := board.Column(board.Rendered[m.col].Key)
	if tasks := m.columnTasks(m.col); m.row < len(tasks) {
		target = board.BeforeTask(tasks[m.row].ID)
	}

	mv, remote := m.board().EndDrag(m.dragID, target)
	if !remote {
		m.focusTask(m.dragID)
		return m, nil
	}
	m.pending[mv.Task.ID] = true
	m.focusTask(mv.Task.ID)
	return m, tea.Batch(m.commit(mv), m.spin.Tick)
}

func (m Model) commit(mv board.Move) tea.Cmd {
	mover, ctx := m.mover, m.ctx
	return func() tea.Msg {
		return moveSettledMsg{move: mv, err: mover.Commit(ctx, mv)}
	}
}

func (m Model) reload() tea.Cmd {
	load, ctx := m.load, m.ctx
	return func() tea.Msg {
		tasks, err := load(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m *Model) showToast(text string, failed bool) tea.Cmd {
	m.toastSeq++
	m.toast = toast{text: text, failed: failed, seq: m.toastSeq}
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m Model) columnTasks(col int) []model.Task {
	return m.board().TasksInColumn(board.Rendered[col].Key)
}

// focusTask puts the cursor on the task if it is in a rendered column.
func (m *Model) focusTask(id int) {
	for ci, c := range board.Rendered {
		for ri, t := range m.board().TasksInColumn(c.Key) {
			if t.ID == id {
				m.col, m.row = ci, ri
				return
			}
		}
	}
	m.clampCursor()
}

// clampCursor keeps the cursor on a card, or on the extra end-of-column slot
// while dragging.
func (m *Model) clampCursor() {
	limit := len(m.columnTasks(m.col))
	if !m.dragging {
		limit--
	}
	m.row = max(0, min(m.row, limit))
}
