package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/client/config"
	"github.com/spf13/cobra"
)

// openApp is a seam for tests.
var openApp = NewApp

// NewRootCmd builds the fitcli command tree. Flags default to cfg, which has
// already been loaded from defaults, the JSON file and the same short flags.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	var (
		configPath string
		timeoutSec int
	)

	root := &cobra.Command{
		Use:   "fitcli",
		Short: "Terminal client for the FitTrack API",
		Long: `fitcli talks to a FitTrack server: sign up or in, keep a profile,
set fitness goals and log activities against them.

Run without a sub-command for an interactive session (type 'help' there).
The session is remembered between runs in the session directory.

EXAMPLES:

  fitcli -a http://127.0.0.1:8080     # interactive session
  fitcli goals                         # list goals with progress
  fitcli activities --goal 3           # activities of goal #3
  fitcli report                        # last 7 days`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("timeout") {
				cfg.RequestTimeout = time.Duration(timeoutSec) * time.Second
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			app.Run(cmd.Context())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&cfg.ServerURL, "server", "a", cfg.ServerURL, "base URL of the FitTrack API")
	pf.StringVarP(&cfg.SessionDir, "session-dir", "s", cfg.SessionDir, "directory for the local session database")
	pf.IntVarP(&timeoutSec, "timeout", "t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	pf.StringVarP(&configPath, "config", "c", "", "path to a JSON config file")

	root.AddCommand(
		oneShot("goals", "List goals with their progress", (*App).Goals, cfg),
		newActivitiesCmd(cfg),
		oneShot("report", "Show the weekly report", (*App).Report, cfg),
	)
	return root
}

// oneShot wraps an App command for non-interactive use.
func oneShot(use, short string, fn func(*App, context.Context) error, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *App) error {
				return fn(a, ctx)
			})
		},
	}
}

func newActivitiesCmd(cfg *config.Config) *cobra.Command {
	var goalID int64

	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"a"},
		Short:   "List activities, optionally for one goal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *App) error {
				if goalID > 0 {
					list, err := a.api.GoalActivities(ctx, goalID)
					if err != nil {
						return err
					}
					printActivities(a.out, list)
					return nil
				}
				list, err := a.api.Activities(ctx)
				if err != nil {
					return err
				}
				printActivities(a.out, list)
				return nil
			})
		},
	}
	cmd.Flags().Int64VarP(&goalID, "goal", "g", 0, "only activities linked to this goal")
	return cmd
}

func withApp(cmd *cobra.Command, cfg *config.Config, fn func(context.Context, *App) error) error {
	ctx := cmd.Context()
	app, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.out = cmd.OutOrStdout()
	if err := app.requireLogin(); err != nil {
		return err
	}
	return fn(ctx, app)
}
