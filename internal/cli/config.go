package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/config"
	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  exactArgs(0, "config show"),
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, err := a.cfg.YAML()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(b))
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a config file with the defaults",
			Args:  exactArgs(0, "config init"),
			RunE: func(*cobra.Command, []string) error {
				path, err := config.WriteDefault(a.dir, a.cfgPath)
				if err != nil {
					return fmt.Errorf("config init: %w", err)
				}
				ui.OK("wrote " + path)
				return nil
			},
		},
	)
	return cmd
}
