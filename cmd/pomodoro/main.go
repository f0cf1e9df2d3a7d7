package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pomodoro/internal/bootstrap"
	sessiondto "pomodoro/internal/modules/session/dto"
	"pomodoro/internal/platform/config"
	"pomodoro/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "pomodoro",
		Short:         "Pomodoro focus timer with a session log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data", "", "data directory (default $POMODORO_DATA_DIR or the user config dir)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (overrides POMODORO_LOG_LEVEL)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newSessionsCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newJournalCmd(flags))
	root.AddCommand(newBridgeCmd(flags))
	return root
}

// loadApp builds the application for one command. The TUI logs to a file
// so log lines do not draw over the screen.
func loadApp(flags *globalFlags, mode bootstrap.Mode) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.dataDir)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	var paths []string
	if mode == bootstrap.ModeTUI {
		paths = []string{cfg.LogPath()}
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env, paths...)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger, mode)
}

func withApp(flags *globalFlags, mode bootstrap.Mode, run func(cmd *cobra.Command, app *bootstrap.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		app, err := loadApp(flags, mode)
		if err != nil {
			return err
		}
		defer func() { _ = app.Logger.Sync() }()
		return run(cmd, app)
	}
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal timer",
		RunE: withApp(flags, bootstrap.ModeTUI, func(cmd *cobra.Command, app *bootstrap.App) error {
			return bootstrap.RunTUI(cmd.Context(), app)
		}),
	}
}

func newSessionCmd(flags *globalFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "In-flight session lifecycle"}

	var sessionType string
	var minutes int
	start := &cobra.Command{
		Use:   "start --type <focus|short_break|long_break>",
		Short: "Start a session, replacing any session in progress",
		RunE: withApp(flags, bootstrap.ModeCLI, func(cmd *cobra.Command, app *bootstrap.App) error {
			if strings.TrimSpace(sessionType) == "" {
				return fmt.Errorf("--type is required")
			}
			out, err := app.SessionCLI.Start(cmd.Context(), sessionType, minutes)
			if err != nil {
				return err
			}
			if out.Replaced != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "discarded unfinished session %s\n", out.Replaced)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s %s id=%s at=%s\n", out.Session.TypeName, out.Session.Duration, out.Session.ID, out.Session.Time)
			return nil
		}),
	}
	start.Flags().StringVar(&sessionType, "type", "focus", "session type: focus|short_break|long_break")
	start.Flags().IntVar(&minutes, "minutes", 0, "session length in minutes (defaults per type)")

	var abandoned bool
	var focusSeconds int
	complete := &cobra.Command{
		Use:   "complete",
		Short: "Finish the session in progress and save it",
		RunE: withApp(flags, bootstrap.ModeCLI, func(cmd *cobra.Command, app *bootstrap.App) error {
			out := app.SessionCLI.Complete(cmd.Context(), abandoned, focusSeconds)
			if !out.Completed {
				if out.Err != nil {
					return out.Err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no session in progress")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s id=%s completed=%t focus=%dm backend=%s\n", out.Session.TypeName, out.Session.ID, out.Session.WasCompleted, out.Session.FocusMinutes, out.Backend)
			if out.Err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", out.Err)
			}
			return nil
		}),
	}
	complete.Flags().BoolVar(&abandoned, "abandoned", false, "record the session as stopped early")
	complete.Flags().IntVar(&focusSeconds, "focus-seconds", 0, "measured focus time in seconds")

	current := &cobra.Command{
		Use:   "current",
		Short: "Show the session in progress",
		RunE: withApp(flags, bootstrap.ModeCLI, func(cmd *cobra.Command, app *bootstrap.App) error {
			out, err := app.SessionCLI.GetActive(cmd.Context())
			if err != nil {
				return err
			}
			remaining := time.Until(out.CompletedAt.Add(time.Duration(out.DurationMinutes) * time.Minute)).Round(time.Second)
			if remaining < 0 {
				remaining = 0
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s id=%s started=%s remaining=%s\n", out.TypeName, out.Duration, out.ID, out.Time, remaining)
			return nil
		}),
	}

	session.AddCommand(start, complete, current)
	return session
}

func newSessionsCmd(flags *globalFlags) *cobra.Command {
	sessions := &cobra.Command{Use: "sessions", Short: "Session log queries"}

	var byDate bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		RunE: withApp(flags, bootstrap.ModeCLI, func(cmd *cobra.Command, app *bootstrap.App) error {
			w := cmd.OutOrStdout()
			if byDate {
				groups, err := app.SessionCLI.Groups(cmd.Context())
				warn(cmd, err)
				if len(groups) == 0 {
					_, _ = fmt.Fprintln(w, "no sessions")
					return nil
				}
				for _, g := range groups {
					_, _ = fmt.Fprintln(w, g.Date)
					for _, s := range g.Sessions {
						printSession(w, "  ", s)
					}
				}
				return nil
			}

			out := app.SessionCLI.List(cmd.Context())
			warn(cmd, out.Err)
			if len(out.Sessions) == 0 {
				_, _ = fmt.Fprintln(w, "no sessions")
				return nil
			}
			for _, s := range out.Sessions {
				printSession(w, s.CompletedAt.Local().Format("2006-01-02")+" ", s)
			}
			_, _ = fmt.Fprintf(w, "%d sessions (backend=%s)\n", len(out.Sessions), out.Backend)
			return nil
		}),
	}
	list.Flags().BoolVar(&byDate, "by-date", false, "group by calendar date, newest first")

	sessions.AddCommand(list)
	return sessions
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show focus statistics",
		RunE: withApp(flags, bootstrap.ModeCLI, func(cmd *cobra.Command, app *bootstrap.App) error {
			out := app.SessionCLI.Stats(cmd.Context())
			warn(cmd, out.Err)
			s := out.Stats
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "today      sessions=%d focus=%dh %dm\n", s.Today.Sessions, s.Today.Hours, s.Today.Minutes)
			_, _ = fmt.Fprintf(w, "this week  sessions=%d focus=%dm\n", s.ThisWeekSessions, s.ThisWeekFocusTimeMinutes)
			_, _ = fmt.Fprintf(w, "all time   sessions=%d completed=%d focus=%dh %dm rate=%d%%\n", s.Total.Sessions, s.Total.Completed, s.Total.Hours, s.Total.Minutes, s.Total.CompletionRate)
			_, _ = fmt.Fprintf(w, "backend=%s\n", out.Backend)
			return nil
		}),
	}
}

func newJournalCmd(flags *globalFlags) *cobra.Command {
	journal := &cobra.Command{Use: "journal", Short: "Markdown session journal"}
	journal.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write one markdown note per day of sessions",
		RunE: withApp(flags, bootstrap.ModeCLI, func(cmd *cobra.Command, app *bootstrap.App) error {
			out, err := app.SessionCLI.ExportJournal(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range out.Paths {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\n", len(out.Paths), app.Config.JournalDir())
			return nil
		}),
	})
	return journal
}

func newBridgeCmd(flags *globalFlags) *cobra.Command {
	bridge := &cobra.Command{Use: "bridge", Short: "Native bridge diagnostics"}

	bridge.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the configured native bridge",
		RunE: withApp(flags, bootstrap.ModeCLI, func(cmd *cobra.Command, app *bootstrap.App) error {
			out, err := app.BridgeCLI.Status(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !out.Configured {
				_, _ = fmt.Fprintf(w, "no bridge configured (sessions use the local store) manifest=%s\n", filepath.Join(app.Config.BridgeDir(), "bridge.json"))
				return nil
			}
			_, _ = fmt.Fprintf(w, "%s@%s enabled=%t available=%t binary=%s", out.Name, out.Version, out.Enabled, out.Available, out.Binary)
			if out.Error != "" {
				_, _ = fmt.Fprintf(w, " error=%q", out.Error)
			}
			_, _ = fmt.Fprintln(w)
			return nil
		}),
	})

	bridge.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate the bridge checksum and lifecycle",
		RunE: withApp(flags, bootstrap.ModeCLI, func(cmd *cobra.Command, app *bootstrap.App) error {
			out, err := app.BridgeCLI.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s manifest=%t checksum=%t binary=%t lifecycle=%t", out.Name, out.ManifestValid, out.ChecksumValid, out.BinaryReachable, out.LifecycleOK)
			if len(out.Commands) > 0 {
				_, _ = fmt.Fprintf(w, " commands=%s", strings.Join(out.Commands, ","))
			}
			if out.Error != "" {
				_, _ = fmt.Fprintf(w, " error=%q", out.Error)
			}
			_, _ = fmt.Fprintln(w)
			app.Logger.Debug("bridge doctor finished", zap.Bool("lifecycle_ok", out.LifecycleOK))
			return nil
		}),
	})
	return bridge
}

func printSession(w io.Writer, prefix string, s sessiondto.SessionOutput) {
	state := "completed"
	if !s.WasCompleted {
		state = "stopped"
	}
	_, _ = fmt.Fprintf(w, "%s%s %-11s %-7s %-9s focus=%dm id=%s\n", prefix, s.Time, s.TypeName, s.Duration, state, s.FocusMinutes, s.ID)
}

func warn(cmd *cobra.Command, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
}
