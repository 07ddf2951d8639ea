// Package cli is the tada command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-kanban/internal/api"
	"github.com/Makepad-fr/tada-kanban/internal/auth"
	"github.com/Makepad-fr/tada-kanban/internal/config"
	"github.com/Makepad-fr/tada-kanban/internal/logging"
	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

// exitError carries an exit code. A nil err means the message was already shown.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageErr(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

// silent fails the command without printing anything more.
var silent = &exitError{code: 1}

// app is the state shared by every command of one invocation.
type app struct {
	dir     string // ~/.tada unless set by tests
	cfgPath string
	debug   bool
	theme   string
	in      io.Reader

	cfg      *config.Config
	log      *logrus.Logger
	closeLog func() error
}

// Execute runs the command tree and returns the process exit code
// (0 ok, 1 error, 2 usage).
func Execute(ctx context.Context, args []string) int {
	return newApp().run(ctx, args)
}

func newApp() *app {
	return &app{in: os.Stdin}
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(ui.Out)
	root.SetErr(ui.Err)
	root.SetIn(a.in)

	err := root.ExecuteContext(ctx)
	if a.closeLog != nil {
		_ = a.closeLog()
	}
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			ui.Fail(ee.err.Error())
		}
		if ee.code == 2 {
			ui.Hint("Run `tada --help` for usage.")
		}
		return ee.code
	}
	ui.Fail(err.Error())
	if msg := err.Error(); strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "required flag") {
		ui.Hint("Run `tada --help` for usage.")
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tada",
		Short:         "Projects and kanban boards in the terminal",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (default ~/.tada/config.yaml)")
	pf.BoolVar(&a.debug, "debug", false, "log at debug level")
	pf.StringVar(&a.theme, "theme", "", "color theme: classic, neon or mono")

	root.AddCommand(
		a.authCmd(),
		a.projectsCmd(),
		a.membersCmd(),
		a.usersCmd(),
		a.tasksCmd(),
		a.boardCmd(),
		a.notificationsCmd(),
		a.commentsCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads config, applies the theme and opens the log file.
func (a *app) setup() error {
	if a.dir == "" {
		dir, err := auth.DefaultDir()
		if err != nil {
			return err
		}
		a.dir = dir
	}

	cfg, err := config.Load(a.dir, a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	theme := cfg.Theme
	if a.theme != "" {
		theme = a.theme
	}
	ui.SetTheme(theme)

	log, closeLog, err := logging.Setup(cfg, a.debug)
	if err != nil {
		return err
	}
	a.log, a.closeLog = log, closeLog
	a.log.WithField("api_url", cfg.APIURL).Debug("config loaded")
	return nil
}

func (a *app) creds() *auth.Store {
	return auth.NewStore(a.dir, a.cfg.Token)
}

func (a *app) client() *api.Client {
	return api.New(a.cfg.APIURL,
		api.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
		api.WithTokenSource(a.creds()),
		api.WithLogger(a.log),
	)
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErr("usage: tada %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return usageErr("usage: tada %s", usage)
		}
		return nil
	}
}

// ids parses positional numeric ids.
func ids(names []string, args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, usageErr("%s: not an id: %s", names[i], s)
		}
		out[i] = n
	}
	return out, nil
}

// failed reports an API error, adding a login hint on 401.
func failed(action string, err error) error {
	if api.IsUnauthorized(err) || errors.Is(err, auth.ErrNotLoggedIn) {
		ui.Fail(action + ": " + err.Error())
		ui.Hint("Hint: run `tada auth login` or set TADA_TOKEN")
		return silent
	}
	return fmt.Errorf("%s: %w", action, err)
}
