package model

import (
	"strings"
	"time"
)

// Status is the workflow state of a task. Each status doubles as a board column key.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusDone       Status = "DONE"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every status the API accepts, in workflow order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone, StatusCancelled}

// Known reports whether s is one of the API's status values.
func (s Status) Known() bool {
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

// Label turns IN_PROGRESS into "In Progress". TODO reads "To Do", as on the board.
func (s Status) Label() string {
	if s == StatusTodo {
		return "To Do"
	}
	words := strings.Split(strings.ToLower(string(s)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ParseStatus accepts "in_progress", "in-progress" or "IN PROGRESS".
func ParseStatus(s string) (Status, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	st := Status(norm)
	return st, st.Known()
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, true
	}
	return p, false
}

// Task is a project task as returned by the API.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ProjectID   int        `json:"projectId"`
	CreatedBy   int        `json:"createdBy"`
	AssignedTo  *int       `json:"assignedTo,omitempty"`

	Assignee *User `json:"assignee,omitempty"`
}

// AssigneeName is the best display name for the assignee, or "" when unassigned.
func (t Task) AssigneeName() string {
	if t.Assignee == nil {
		return ""
	}
	return t.Assignee.DisplayName()
}

// TaskQuery filters the project task list. Zero fields are omitted.
type TaskQuery struct {
	Status     Status
	Priority   Priority
	AssigneeID int
	Page       int
	Limit      int
}

// NewTask is the create payload.
type NewTask struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	AssignedTo  *int     `json:"assignedTo,omitempty"`
}

// TaskUpdate is a partial update; nil fields are left untouched by the server.
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	AssignedTo  *int       `json:"assignedTo,omitempty"`
}
