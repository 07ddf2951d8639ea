package board

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/panics"

	"github.com/Makepad-fr/tada-kanban/internal/logging"
	"github.com/Makepad-fr/tada-kanban/internal/model"
)

const (
	MsgStatusUpdated = "Task status updated"
	MsgStatusFailed  = "Failed to update task status"
)

// Move is the record of one optimistic cross-column move, captured when the
// card was dropped. Task holds the value before the move.
type Move struct {
	ProjectID int
	Task      model.Task
	From      model.Status
	FromIndex int
	To        model.Status
	ToIndex   int
}

// Notice is the user-facing outcome of a move.
type Notice struct {
	Failed  bool
	Message string
	TaskID  int
	Err     error
}

// StatusChanger is the remote authority for task status.
type StatusChanger interface {
	ChangeStatus(ctx context.Context, projectID, taskID int, status model.Status) error
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Mover ties a board to the server: it applies drops, sends status changes and
// settles the result.
type Mover struct {
	board   *Board
	changer StatusChanger
	notify  Notifier
	log     logrus.FieldLogger
	timeout time.Duration
}

type MoverOption func(*Mover)

func WithNotifier(n Notifier) MoverOption {
	return func(m *Mover) { m.notify = n }
}

func WithLogger(l logrus.FieldLogger) MoverOption {
	return func(m *Mover) { m.log = l }
}

// WithTimeout bounds each status change call. Zero means no bound.
func WithTimeout(d time.Duration) MoverOption {
	return func(m *Mover) { m.timeout = d }
}

func NewMover(b *Board, changer StatusChanger, opts ...MoverOption) *Mover {
	m := &Mover{
		board:   b,
		changer: changer,
		notify:  NotifierFunc(func(Notice) {}),
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mover) Board() *Board { return m.board }

// Rebind returns a mover with the same settings working on b, for when the
// board is rebuilt from a fresh task list.
func (m *Mover) Rebind(b *Board) *Mover {
	cp := *m
	cp.board = b
	return &cp
}

// Drop runs a whole drag end synchronously. It reports false when the drop did
// not start a remote move (no-op or same-column reorder).
func (m *Mover) Drop(ctx context.Context, taskID int, target DropTarget) (Notice, bool) {
	mv, ok := m.board.EndDrag(taskID, target)
	if !ok {
		return Notice{}, false
	}
	return m.Settle(mv, m.Commit(ctx, mv)), true
}

// Commit sends the move's status change. It only reads the move, so it may run
// on another goroutine while the board keeps changing. A panic in the changer
// is returned as an error.
func (m *Mover) Commit(ctx context.Context, mv Move) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	var (
		catcher panics.Catcher
		err     error
	)
	catcher.Try(func() {
		err = m.changer.ChangeStatus(ctx, mv.ProjectID, mv.Task.ID, mv.To)
	})
	if r := catcher.Recovered(); r != nil {
		err = fmt.Errorf("change status: %w", r.AsError())
	}
	return err
}

// Settle applies the result on the board and emits the notice.
func (m *Mover) Settle(mv Move, err error) Notice {
	n := m.board.Settle(mv, err)
	entry := m.log.WithFields(logrus.Fields{
		"project": mv.ProjectID,
		"task":    mv.Task.ID,
		"from":    mv.From,
		"to":      mv.To,
	})
	if n.Failed {
		entry.WithError(err).Warn("status change failed, move rolled back")
	} else {
		entry.Info("status changed")
	}
	m.notify.Notify(n)
	return n
}
