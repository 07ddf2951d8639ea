package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/model"
	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

// usersCmd is account administration; the server only allows it for admins.
func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage user accounts (admin)",
	}

	var page, limit int
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List users",
		Args:  exactArgs(0, "users ls"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, pg, err := a.client().ListUsers(cmd.Context(), page, limit)
			if err != nil {
				return failed("list users", err)
			}
			out := cmd.OutOrStdout()
			printUsers(out, users, "no users")
			if pg.TotalPages > 1 {
				fmt.Fprintln(out, ui.Current().Muted.Render(fmt.Sprintf("page %d of %d", pg.Page, pg.TotalPages)))
			}
			return nil
		},
	}
	ls.Flags().IntVar(&page, "page", 0, "page number")
	ls.Flags().IntVar(&limit, "limit", 0, "page size")

	var name, email string
	update := &cobra.Command{
		Use:   "update <user> [--name NAME] [--email EMAIL]",
		Short: "Change a user's name or email",
		Args:  exactArgs(1, "users update <user> [--name NAME] [--email EMAIL]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"user"}, args)
			if err != nil {
				return err
			}
			var u model.UserUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &name
			}
			if cmd.Flags().Changed("email") {
				u.Email = &email
			}
			if u.Name == nil && u.Email == nil {
				return usageErr("users update: nothing to change (use --name or --email)")
			}
			if _, err := a.client().UpdateUser(cmd.Context(), n[0], u); err != nil {
				return failed("update user", err)
			}
			ui.OK("user updated")
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "new display name")
	update.Flags().StringVar(&email, "email", "", "new email")

	cmd.AddCommand(
		ls,
		&cobra.Command{
			Use:   "show <user>",
			Short: "Show one user",
			Args:  exactArgs(1, "users show <user>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := ids([]string{"user"}, args)
				if err != nil {
					return err
				}
				u, err := a.client().GetUser(cmd.Context(), n[0])
				if err != nil {
					return failed("get user", err)
				}
				state := "active"
				if !u.IsActive {
					state = "inactive"
				}
				ui.Panel([]string{
					ui.Current().Title.Render(fmt.Sprintf("#%d %s", u.ID, u.DisplayName())),
					"email: " + u.Email,
					"role:  " + string(u.Role),
					"state: " + state,
				})
				return nil
			},
		},
		update,
		&cobra.Command{
			Use:   "role <user> <USER|ADMIN>",
			Short: "Change a user's role",
			Args:  exactArgs(2, "users role <user> <USER|ADMIN>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := ids([]string{"user"}, args[:1])
				if err != nil {
					return err
				}
				role, ok := model.ParseRole(args[1])
				if !ok {
					return usageErr("unknown role %q (want USER or ADMIN)", args[1])
				}
				if _, err := a.client().ChangeRole(cmd.Context(), n[0], role); err != nil {
					return failed("change role", err)
				}
				ui.OK(fmt.Sprintf("user %d is now %s", n[0], role))
				return nil
			},
		},
		a.userStateCmd("deactivate", "Block a user from signing in"),
		a.userStateCmd("activate", "Let a blocked user sign in again"),
	)
	return cmd
}

func (a *app) userStateCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <user>",
		Short: short,
		Args:  exactArgs(1, "users "+verb+" <user>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"user"}, args)
			if err != nil {
				return err
			}
			client := a.client()
			if verb == "activate" {
				err = client.ActivateUser(cmd.Context(), n[0])
			} else {
				err = client.DeactivateUser(cmd.Context(), n[0])
			}
			if err != nil {
				return failed(verb+" user", err)
			}
			ui.OK(fmt.Sprintf("user %d %sd", n[0], verb))
			return nil
		},
	}
}
