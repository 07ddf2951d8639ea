package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

// Out and Err are where command output goes.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

func OK(msg string) {
	fmt.Fprintln(Out, current.Success.Render(current.SymOK+" "+msg))
}

func Fail(msg string) {
	fmt.Fprintln(Err, current.Error.Render(current.SymFail+" "+msg))
}

func Hint(msg string) {
	fmt.Fprintln(Err, current.Muted.Render(msg))
}

var statusColors = map[model.Status]*color.Color{
	model.StatusTodo:       color.New(color.FgWhite),
	model.StatusInProgress: color.New(color.FgCyan),
	model.StatusReview:     color.New(color.FgYellow),
	model.StatusDone:       color.New(color.FgGreen),
	model.StatusCancelled:  color.New(color.Faint, color.CrossedOut),
}

// StatusLabel renders "In Progress" in the status's color.
func StatusLabel(s model.Status) string {
	c, ok := statusColors[s]
	if !ok {
		return string(s)
	}
	return c.Sprint(s.Label())
}

// StatusIcon returns a colored status icon for compact table display.
func StatusIcon(s model.Status) string {
	switch s {
	case model.StatusTodo:
		return color.New(color.Faint).Sprint("○")
	case model.StatusInProgress:
		return color.CyanString("◐")
	case model.StatusReview:
		return color.YellowString("◑")
	case model.StatusDone:
		return color.GreenString("●")
	case model.StatusCancelled:
		return color.RedString("✗")
	}
	return "?"
}

func PriorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityUrgent:
		return color.New(color.Bold, color.FgRed).Sprint(p)
	case model.PriorityHigh:
		return color.RedString(string(p))
	case model.PriorityMedium:
		return color.YellowString(string(p))
	case model.PriorityLow:
		return color.New(color.Faint).Sprint(p)
	}
	return string(p)
}
