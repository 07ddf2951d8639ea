package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

func (a *app) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Projects you are a member of",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List projects",
		Args:  exactArgs(0, "projects ls"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, _, err := a.client().ListProjects(cmd.Context())
			if err != nil {
				return failed("list projects", err)
			}
			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, ui.Current().Muted.Render("no projects"))
				return nil
			}
			for _, p := range projects {
				lead := ""
				if p.Lead != nil {
					lead = "  lead: " + p.Lead.DisplayName()
				}
				fmt.Fprintf(out, "%4d  %-30s %-10s%s\n", p.ID, ui.Truncate(p.Name, 30), p.Status, lead)
			}
			return nil
		},
	})
	return cmd
}
