// Command matchsync runs a single sync pass against the configured storage.
//
// Usage:
//
//	matchsync full
//	matchsync live
//	matchsync calendar
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/eleven-fantasy/internal/app"
	"github.com/riskibarqy/eleven-fantasy/internal/config"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "matchsync",
		Short:         "Eleven Fantasy match sync CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(fullCmd())
	root.AddCommand(liveCmd())
	root.AddCommand(calendarCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "full",
		Short: "Fetch the season and upsert every contest and match",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, logger *logging.Logger) error {
				result, err := a.Scheduler.RunFull(ctx)
				if err != nil {
					return err
				}
				logger.Info("full sync finished",
					"events", result.Events,
					"matchweeks", result.Matchweeks,
					"created", result.MatchesCreated,
					"updated", result.MatchesUpdated,
					"failed", result.MatchesFailed,
					"duration", result.Duration.String(),
				)
				return nil
			})
		},
	}
}

func liveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "Refresh status and scores inside the live window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, logger *logging.Logger) error {
				result, err := a.Scheduler.RunLive(ctx)
				if err != nil {
					return err
				}
				logger.Info("live sync finished",
					"events", result.Events,
					"updated", result.Updated,
					"finished", result.Finished,
					"skipped", result.Skipped,
					"failed", result.Failed,
					"duration", result.Duration.String(),
				)
				return nil
			})
		},
	}
}

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Print the season calendar dates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, _ *logging.Logger) error {
				dates, err := a.Sync.SeasonCalendar(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, d := range dates {
					fmt.Fprintln(out, d.Format(time.DateOnly))
				}
				return nil
			})
		},
	}
}

func withApp(parent context.Context, fn func(context.Context, *app.App, *logging.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ServiceName = "eleven-fantasy-matchsync"
	cfg.DBApplicationName = cfg.ServiceName

	logger := logging.NewJSON(cfg.LogLevel, cfg.ServiceName)
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("close app", "error", err)
		}
	}()

	return fn(ctx, a, logger)
}
