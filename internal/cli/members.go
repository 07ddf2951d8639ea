package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/model"
	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

func (a *app) membersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "members",
		Aliases: []string{"member"},
		Short:   "Project members (the users tasks can be assigned to)",
	}

	var role string
	add := &cobra.Command{
		Use:   "add <project> <user>",
		Short: "Add a user to a project",
		Args:  exactArgs(2, "members add <project> <user>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"project", "user"}, args)
			if err != nil {
				return err
			}
			u, err := a.client().AddMember(cmd.Context(), n[0], model.NewMember{UserID: n[1], Role: role})
			if err != nil {
				return failed("add member", err)
			}
			who := u.DisplayName()
			if who == "" {
				who = fmt.Sprintf("user %d", n[1])
			}
			ui.OK(fmt.Sprintf("%s added to project %d", who, n[0]))
			return nil
		},
	}
	add.Flags().StringVar(&role, "role", "", "member role in the project")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls <project>",
			Short: "List a project's members",
			Args:  exactArgs(1, "members ls <project>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := ids([]string{"project"}, args)
				if err != nil {
					return err
				}
				members, _, err := a.client().ListMembers(cmd.Context(), n[0])
				if err != nil {
					return failed("list members", err)
				}
				printUsers(cmd.OutOrStdout(), members, "no members")
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:   "rm <project> <user>",
			Short: "Remove a user from a project",
			Args:  exactArgs(2, "members rm <project> <user>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := ids([]string{"project", "user"}, args)
				if err != nil {
					return err
				}
				if err := a.client().RemoveMember(cmd.Context(), n[0], n[1]); err != nil {
					return failed("remove member", err)
				}
				ui.OK("member removed")
				return nil
			},
		},
	)
	return cmd
}

func printUsers(w io.Writer, users []model.User, empty string) {
	th := ui.Current()
	if len(users) == 0 {
		fmt.Fprintln(w, th.Muted.Render(empty))
		return
	}
	for _, u := range users {
		line := fmt.Sprintf("%4d  %-24s %-30s %s", u.ID, ui.Truncate(u.Name, 24), u.Email, u.Role)
		if !u.IsActive && !u.CreatedAt.IsZero() {
			line += th.Muted.Render("  (inactive)")
		}
		fmt.Fprintln(w, line)
	}
}
