package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

func (a *app) commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "Comment on tasks",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <project> <task> <text...>",
			Short: "Add a comment",
			Args:  minArgs(3, "comments add <project> <task> <text...>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := ids([]string{"project", "task"}, args[:2])
				if err != nil {
					return err
				}
				text := strings.TrimSpace(strings.Join(args[2:], " "))
				if text == "" {
					return usageErr("comment: empty text")
				}
				c, err := a.client().AddComment(cmd.Context(), n[0], n[1], text)
				if err != nil {
					return failed("add comment", err)
				}
				ui.OK(fmt.Sprintf("comment #%d added", c.ID))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <project> <task> <comment>",
			Short: "Delete a comment",
			Args:  exactArgs(3, "comments rm <project> <task> <comment>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := ids([]string{"project", "task", "comment"}, args)
				if err != nil {
					return err
				}
				if err := a.client().DeleteComment(cmd.Context(), n[0], n[1], n[2]); err != nil {
					return failed("delete comment", err)
				}
				ui.OK("comment removed")
				return nil
			},
		},
	)
	return cmd
}
