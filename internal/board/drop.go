package board

import (
	"fmt"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

type dropKind uint8

const (
	dropNone dropKind = iota
	dropColumn
	dropBeforeTask
)

// DropTarget is where a dragged card was released: the empty space of a column,
// or on top of another card. The zero value means it was released outside any
// column.
type DropTarget struct {
	kind   dropKind
	column model.Status
	taskID int
}

func Column(key model.Status) DropTarget { return DropTarget{kind: dropColumn, column: key} }

// BeforeTask targets the position currently held by the task with this id.
func BeforeTask(id int) DropTarget { return DropTarget{kind: dropBeforeTask, taskID: id} }

func (d DropTarget) IsZero() bool { return d.kind == dropNone }

func (d DropTarget) Column() (model.Status, bool) {
	return d.column, d.kind == dropColumn
}

func (d DropTarget) Task() (int, bool) {
	return d.taskID, d.kind == dropBeforeTask
}

func (d DropTarget) String() string {
	switch d.kind {
	case dropColumn:
		return "column " + string(d.column)
	case dropBeforeTask:
		return fmt.Sprintf("before task %d", d.taskID)
	}
	return "nowhere"
}
