package cli

import (
	"bufio"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/auth"
	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Token authentication",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login [token]",
			Short: "Save an API token (read from stdin when not given)",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.authLogin,
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the saved token",
			Args:  exactArgs(0, "auth logout"),
			RunE:  a.authLogout,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from and when it expires",
			Args:  exactArgs(0, "auth status"),
			RunE:  a.authStatus,
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Decode the token's claims locally",
			Args:  exactArgs(0, "auth whoami"),
			RunE:  a.authWhoAmI,
		},
	)
	return cmd
}

func (a *app) authLogin(cmd *cobra.Command, args []string) error {
	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		fmt.Fprint(cmd.OutOrStdout(), "Paste your token: ")
		sc := bufio.NewScanner(cmd.InOrStdin())
		if sc.Scan() {
			token = sc.Text()
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if strings.TrimSpace(token) == "" {
		return usageErr("login: empty token")
	}

	ti, err := a.creds().Set(token)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	ui.OK("logged in")
	if ti.Expired(time.Now()) {
		ui.Hint("warning: this token has already expired")
	}
	if a.cfg.Token != "" {
		ui.Hint("note: TADA_TOKEN is set and takes precedence over the saved token")
	}
	return nil
}

func (a *app) authLogout(*cobra.Command, []string) error {
	ti, _ := a.creds().Get()
	if ti != nil && ti.Source == auth.SourceEnv {
		ui.OK("token is provided by TADA_TOKEN env var (nothing to delete)")
		return nil
	}
	if err := a.creds().Delete(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	ui.OK("logged out")
	return nil
}

func (a *app) authStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ti, err := a.creds().Get()
	if err != nil {
		return err
	}
	if ti == nil {
		fmt.Fprintln(out, ui.Current().Muted.Render("not logged in"))
		fmt.Fprintln(out, "Run: tada auth login")
		return nil
	}
	fmt.Fprintf(out, "source: %s\n", ti.Source)
	switch {
	case ti.ExpiresAt == nil:
		fmt.Fprintln(out, "expires: (unknown)")
	case ti.Expired(time.Now()):
		fmt.Fprintf(out, "expires: %s (expired)\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	default:
		fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(out, "env override: TADA_TOKEN")
	return nil
}

func (a *app) authWhoAmI(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ti, err := a.creds().Get()
	if err != nil {
		return err
	}
	if ti == nil {
		return usageErr("%v", auth.ErrNotLoggedIn)
	}

	claims, ok := auth.Claims(ti.Token)
	if !ok {
		fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
		fmt.Fprintln(out, "source:", ti.Source)
		return nil
	}
	fmt.Fprintln(out, "JWT claims:")
	for _, k := range slices.Sorted(maps.Keys(claims)) {
		fmt.Fprintf(out, "  %s: %v\n", k, claims[k])
	}
	fmt.Fprintln(out, "source:", ti.Source)
	return nil
}
