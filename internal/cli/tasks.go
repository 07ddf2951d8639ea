package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/board"
	"github.com/Makepad-fr/tada-kanban/internal/model"
	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

func (a *app) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Work with a project's tasks",
	}
	cmd.AddCommand(
		a.tasksLsCmd(),
		a.tasksShowCmd(),
		a.tasksAddCmd(),
		a.tasksRmCmd(),
		a.tasksAssignCmd(),
		a.tasksMoveCmd(),
	)
	return cmd
}

func (a *app) tasksLsCmd() *cobra.Command {
	var status, priority string
	var assignee int
	cmd := &cobra.Command{
		Use:   "ls <project>",
		Short: "List tasks",
		Args:  exactArgs(1, "tasks ls <project>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"project"}, args)
			if err != nil {
				return err
			}
			q := model.TaskQuery{AssigneeID: assignee}
			if status != "" {
				s, ok := model.ParseStatus(status)
				if !ok {
					return usageErr("unknown status %q", status)
				}
				q.Status = s
			}
			if priority != "" {
				p, ok := model.ParsePriority(priority)
				if !ok {
					return usageErr("unknown priority %q", priority)
				}
				q.Priority = p
			}

			tasks, pg, err := a.client().ListTasks(cmd.Context(), n[0], q)
			if err != nil {
				return failed("list tasks", err)
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, ui.Current().Muted.Render("no tasks"))
				return nil
			}
			for _, t := range tasks {
				printTaskLine(out, t)
			}
			if pg.TotalPages > 1 {
				fmt.Fprintln(out, ui.Current().Muted.Render(
					fmt.Sprintf("page %d of %d (%d tasks)", pg.Page, pg.TotalPages, pg.Total)))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "only tasks with this status")
	f.StringVar(&priority, "priority", "", "only tasks with this priority")
	f.IntVar(&assignee, "assignee", 0, "only tasks assigned to this user id")
	return cmd
}

func printTaskLine(w io.Writer, t model.Task) {
	line := fmt.Sprintf("%s %4d  %-40s %-6s", ui.StatusIcon(t.Status), t.ID, ui.Truncate(t.Title, 40), ui.PriorityLabel(t.Priority))
	if name := t.AssigneeName(); name != "" {
		line += "  @" + name
	}
	fmt.Fprintln(w, line)
}

func (a *app) tasksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project> <task>",
		Short: "Show one task",
		Args:  exactArgs(2, "tasks show <project> <task>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"project", "task"}, args)
			if err != nil {
				return err
			}
			t, err := a.client().GetTask(cmd.Context(), n[0], n[1])
			if err != nil {
				return failed("get task", err)
			}

			lines := []string{
				ui.Current().Title.Render(fmt.Sprintf("#%d %s", t.ID, t.Title)),
				"status:   " + ui.StatusLabel(t.Status),
				"priority: " + ui.PriorityLabel(t.Priority),
			}
			if name := t.AssigneeName(); name != "" {
				lines = append(lines, "assignee: "+name)
			}
			if t.Deadline != nil {
				lines = append(lines, "deadline: "+t.Deadline.Format("2006-01-02"))
			}
			if t.Description != nil && *t.Description != "" {
				lines = append(lines, "", *t.Description)
			}
			lines = append(lines, "", ui.Current().Muted.Render("updated "+t.UpdatedAt.Format(time.RFC3339)))
			ui.Panel(lines)
			return nil
		},
	}
}

func (a *app) tasksAddCmd() *cobra.Command {
	var priority, description string
	var assignee int
	cmd := &cobra.Command{
		Use:   "add <project> <title...>",
		Short: "Create a task",
		Args:  minArgs(2, "tasks add <project> <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"project"}, args[:1])
			if err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return usageErr("add: empty title")
			}
			nt := model.NewTask{Title: title}
			if priority != "" {
				p, ok := model.ParsePriority(priority)
				if !ok {
					return usageErr("unknown priority %q", priority)
				}
				nt.Priority = p
			}
			if description != "" {
				nt.Description = &description
			}
			if assignee > 0 {
				nt.AssignedTo = &assignee
			}

			t, err := a.client().CreateTask(cmd.Context(), n[0], nt)
			if err != nil {
				return failed("create task", err)
			}
			ui.OK(fmt.Sprintf("added #%d", t.ID))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&priority, "priority", "p", "", "LOW, MEDIUM, HIGH or URGENT")
	f.StringVarP(&description, "description", "d", "", "task description")
	f.IntVar(&assignee, "assignee", 0, "assign to this user id")
	return cmd
}

func (a *app) tasksRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project> <task>",
		Short: "Delete a task",
		Args:  exactArgs(2, "tasks rm <project> <task>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"project", "task"}, args)
			if err != nil {
				return err
			}
			if err := a.client().DeleteTask(cmd.Context(), n[0], n[1]); err != nil {
				return failed("delete task", err)
			}
			ui.OK("removed")
			return nil
		},
	}
}

func (a *app) tasksAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <project> <task> <user>",
		Short: "Assign a task to a user",
		Args:  exactArgs(3, "tasks assign <project> <task> <user>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"project", "task", "user"}, args)
			if err != nil {
				return err
			}
			t, err := a.client().AssignTask(cmd.Context(), n[0], n[1], n[2])
			if err != nil {
				return failed("assign task", err)
			}
			who := t.AssigneeName()
			if who == "" {
				who = "user " + strconv.Itoa(n[2])
			}
			ui.OK(fmt.Sprintf("#%d assigned to %s", t.ID, who))
			return nil
		},
	}
}

// tasksMoveCmd drops a task on a column without the TUI. It goes through the
// same board engine, so a refused change is reported the same way.
func (a *app) tasksMoveCmd() *cobra.Command {
	var to string
	var before int
	cmd := &cobra.Command{
		Use:   "move <project> <task> --to STATUS [--before TASK]",
		Short: "Move a task to another status column",
		Args:  exactArgs(2, "tasks move <project> <task> --to STATUS [--before TASK]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"project", "task"}, args)
			if err != nil {
				return err
			}
			status, ok := model.ParseStatus(to)
			if !ok {
				return usageErr("--to: unknown status %q", to)
			}

			client := a.client()
			tasks, err := client.AllTasks(cmd.Context(), n[0])
			if err != nil {
				return failed("load board", err)
			}
			b := board.New(n[0], tasks)
			if _, _, _, ok := b.Find(n[1]); !ok {
				return fmt.Errorf("task %d not found in project %d", n[1], n[0])
			}

			target := board.Column(status)
			if before > 0 {
				_, col, _, ok := b.Find(before)
				if !ok {
					return fmt.Errorf("task %d not found in project %d", before, n[0])
				}
				if col != status {
					return usageErr("--before: task %d is in %s, not %s", before, col, status)
				}
				target = board.BeforeTask(before)
			}

			mover := board.NewMover(b, client,
				board.WithLogger(a.log),
				board.WithTimeout(a.cfg.Timeout),
				board.WithNotifier(board.NotifierFunc(func(note board.Notice) {
					if note.Failed {
						ui.Fail(note.Message)
						return
					}
					ui.OK(note.Message)
				})),
			)
			notice, remote := mover.Drop(cmd.Context(), n[1], target)
			if !remote {
				ui.OK(fmt.Sprintf("#%d is already in %s", n[1], status.Label()))
				return nil
			}
			if notice.Failed {
				if notice.Err != nil {
					ui.Hint(notice.Err.Error())
				}
				return silent
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&to, "to", "", "target status (TODO, IN_PROGRESS, REVIEW, DONE, CANCELLED)")
	f.IntVar(&before, "before", 0, "place before this task in the target column")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
