package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/board"
	"github.com/Makepad-fr/tada-kanban/internal/model"
	"github.com/Makepad-fr/tada-kanban/internal/tui"
)

func (a *app) boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board [project]",
		Short: "Open a project's kanban board",
		Long: "Open a project's kanban board. Without an argument the project from the\n" +
			"config file (or TADA_PROJECT) is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := a.cfg.Project
			if len(args) == 1 {
				n, err := ids([]string{"project"}, args)
				if err != nil {
					return err
				}
				projectID = n[0]
			}
			if projectID == 0 {
				return usageErr("usage: tada board <project> (or set project in the config file)")
			}

			ctx := cmd.Context()
			client := a.client()
			load := func(ctx context.Context) ([]model.Task, error) {
				return client.AllTasks(ctx, projectID)
			}
			tasks, err := load(ctx)
			if err != nil {
				return failed("load board", err)
			}

			title := fmt.Sprintf("Project #%d", projectID)
			if projects, _, err := client.ListProjects(ctx); err == nil {
				for _, p := range projects {
					if p.ID == projectID {
						title = p.Name
					}
				}
			}

			mover := board.NewMover(board.New(projectID, tasks), client,
				board.WithLogger(a.log.WithField("project", projectID)),
				board.WithTimeout(a.cfg.Timeout),
			)
			a.log.WithField("tasks", len(tasks)).Info("board opened")
			if err := tui.Run(ctx, title, mover, load); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}
