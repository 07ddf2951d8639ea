// Package board holds the client-side state of a kanban board: tasks partitioned
// into status columns, the task currently being dragged, and the optimistic
// cross-column moves that are waiting on the server.
//
// A Board is not safe for concurrent use. Drive it from a single goroutine (the
// Bubble Tea Update loop, or a CLI command) and run only the remote status change
// elsewhere; see Mover.Commit.
package board

import (
	"slices"
	"sort"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

// ColumnInfo describes a rendered column.
type ColumnInfo struct {
	Key   model.Status
	Title string
}

// Rendered lists the columns a board view draws, left to right. CANCELLED is a
// valid status but has no column.
var Rendered = []ColumnInfo{
	{Key: model.StatusTodo, Title: "To Do"},
	{Key: model.StatusInProgress, Title: "In Progress"},
	{Key: model.StatusReview, Title: "Review"},
	{Key: model.StatusDone, Title: "Done"},
}

type Board struct {
	projectID int
	columns   map[model.Status][]model.Task
	active    *model.Task
}

// New partitions tasks by status. Every known status gets a column, even when
// empty; tasks with a status the client does not know are kept under their own key.
func New(projectID int, tasks []model.Task) *Board {
	b := &Board{
		projectID: projectID,
		columns:   make(map[model.Status][]model.Task, len(model.Statuses)),
	}
	for _, s := range model.Statuses {
		b.columns[s] = make([]model.Task, 0)
	}
	for _, t := range tasks {
		b.columns[t.Status] = append(b.columns[t.Status], t)
	}
	return b
}

func (b *Board) ProjectID() int { return b.projectID }

// Columns returns the rendered column descriptors, left to right.
func (b *Board) Columns() []ColumnInfo { return slices.Clone(Rendered) }

// TasksInColumn returns a copy of the column's current order, optimistic moves included.
func (b *Board) TasksInColumn(key model.Status) []model.Task {
	return slices.Clone(b.columns[key])
}

// Keys returns every column key: known statuses in workflow order, then any
// unknown ones alphabetically.
func (b *Board) Keys() []model.Status {
	keys := slices.Clone(model.Statuses)
	var extra []model.Status
	for k := range b.columns {
		if !k.Known() {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(keys, extra...)
}

// Len is the number of tasks on the board across all columns.
func (b *Board) Len() int {
	n := 0
	for _, col := range b.columns {
		n += len(col)
	}
	return n
}

// Snapshot copies the whole partition.
func (b *Board) Snapshot() map[model.Status][]model.Task {
	out := make(map[model.Status][]model.Task, len(b.columns))
	for k, col := range b.columns {
		out[k] = slices.Clone(col)
	}
	return out
}

// Find locates a task by id.
func (b *Board) Find(id int) (task model.Task, column model.Status, index int, ok bool) {
	for k, col := range b.columns {
		if i := indexOf(col, id); i >= 0 {
			return col[i], k, i, true
		}
	}
	return model.Task{}, "", -1, false
}

// ActiveTask is the task being dragged, if any.
func (b *Board) ActiveTask() (model.Task, bool) {
	if b.active == nil {
		return model.Task{}, false
	}
	return *b.active, true
}

// BeginDrag marks the task as being dragged. An unknown id clears the marker.
func (b *Board) BeginDrag(id int) {
	t, _, _, ok := b.Find(id)
	if !ok {
		b.active = nil
		return
	}
	b.active = &t
}

// EndDrag drops the task on target and clears the drag marker.
//
// A reorder inside one column is applied and nothing else happens. A drop on
// another column is applied optimistically and the returned Move must be sent
// to the server and handed back to Settle. Anything unresolvable is a no-op.
func (b *Board) EndDrag(id int, target DropTarget) (Move, bool) {
	b.active = nil
	if target.IsZero() {
		return Move{}, false
	}

	task, from, fromIdx, ok := b.Find(id)
	if !ok {
		return Move{}, false
	}
	to, ok := b.resolve(target)
	if !ok {
		return Move{}, false
	}

	if from == to {
		b.reorder(from, fromIdx, target)
		return Move{}, false
	}
	if !to.Known() {
		return Move{}, false
	}

	dest := b.columns[to]
	toIdx := len(dest)
	if before, ok := target.Task(); ok {
		if i := indexOf(dest, before); i >= 0 {
			toIdx = i
		}
	}

	moved := task
	moved.Status = to
	b.columns[from] = slices.Delete(b.columns[from], fromIdx, fromIdx+1)
	b.columns[to] = slices.Insert(dest, toIdx, moved)

	return Move{
		ProjectID: b.projectID,
		Task:      task,
		From:      from,
		FromIndex: fromIdx,
		To:        to,
		ToIndex:   toIdx,
	}, true
}

// Settle applies the server's answer to a move. On failure the task goes back
// to the column and index recorded in the move, with its original status.
func (b *Board) Settle(m Move, err error) Notice {
	if err == nil {
		return Notice{Message: MsgStatusUpdated, TaskID: m.Task.ID}
	}

	b.remove(m.Task.ID)
	col := b.columns[m.From]
	idx := min(max(m.FromIndex, 0), len(col))
	b.columns[m.From] = slices.Insert(col, idx, m.Task)

	return Notice{Failed: true, Message: MsgStatusFailed, TaskID: m.Task.ID, Err: err}
}

func (b *Board) resolve(target DropTarget) (model.Status, bool) {
	if key, ok := target.Column(); ok {
		if _, exists := b.columns[key]; exists {
			return key, true
		}
		return "", false
	}
	if id, ok := target.Task(); ok {
		_, key, _, found := b.Find(id)
		return key, found
	}
	return "", false
}

func (b *Board) reorder(key model.Status, fromIdx int, target DropTarget) {
	col := b.columns[key]
	toIdx := fromIdx
	if id, ok := target.Task(); ok {
		toIdx = indexOf(col, id)
	}
	if toIdx < 0 || toIdx == fromIdx {
		return
	}
	b.columns[key] = arrayMove(col, fromIdx, toIdx)
}

func (b *Board) remove(id int) {
	for k, col := range b.columns {
		if i := indexOf(col, id); i >= 0 {
			b.columns[k] = slices.Delete(col, i, i+1)
			return
		}
	}
}

// arrayMove takes the element at from out and reinserts it at to, shifting
// everything in between by one.
func arrayMove(s []model.Task, from, to int) []model.Task {
	t := s[from]
	s = slices.Delete(s, from, from+1)
	return slices.Insert(s, to, t)
}

func indexOf(col []model.Task, id int) int {
	return slices.IndexFunc(col, func(t model.Task) bool { return t.ID == id })
}
