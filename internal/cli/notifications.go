package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/model"
	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

func (a *app) notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Your notifications",
	}

	var unread bool
	var limit int
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List notifications",
		Args:  exactArgs(0, "notifications ls [--unread]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, pg, err := a.client().ListNotifications(cmd.Context(), model.NotificationQuery{Unread: unread, Limit: limit})
			if err != nil {
				return failed("list notifications", err)
			}
			out := cmd.OutOrStdout()
			th := ui.Current()
			if len(list) == 0 {
				fmt.Fprintln(out, th.Muted.Render("no notifications"))
				return nil
			}
			for _, n := range list {
				mark := th.Accent.Render(th.SymBullet)
				if n.Read() {
					mark = " "
				}
				fmt.Fprintf(out, "%s %4d  %s  %s\n", mark, n.ID, th.Title.Render(n.Title), n.Message)
			}
			if pg.Total > len(list) {
				fmt.Fprintln(out, th.Muted.Render(fmt.Sprintf("showing %d of %d", len(list), pg.Total)))
			}
			return nil
		},
	}
	ls.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	ls.Flags().IntVar(&limit, "limit", 20, "how many to show")

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification read",
		Args:  exactArgs(1, "notifications read <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ids([]string{"notification"}, args)
			if err != nil {
				return err
			}
			if _, err := a.client().MarkNotificationRead(cmd.Context(), n[0]); err != nil {
				return failed("mark read", err)
			}
			ui.OK("marked read")
			return nil
		},
	}

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification read",
		Args:  exactArgs(0, "notifications read-all"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client().MarkAllNotificationsRead(cmd.Context()); err != nil {
				return failed("mark all read", err)
			}
			ui.OK("all notifications marked read")
			return nil
		},
	}

	cmd.AddCommand(ls, read, readAll)
	return cmd
}
