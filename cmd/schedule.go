package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
	"github.com/manav03panchal/toggl2slack/internal/notify"
	"github.com/manav03panchal/toggl2slack/internal/runtime"
	"github.com/manav03panchal/toggl2slack/internal/scheduler"
	"github.com/manav03panchal/toggl2slack/internal/toggl"
)

// Schedule command flags.
var (
	scheduleFlagRunNow  bool
	scheduleFlagPIDFile string
)

// scheduleCmd represents the schedule command.
var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"cron", "serve"},
	Short:   "Post the report on a cron schedule",
	Long: `Stay in the foreground and run 'report' every time the cron expression
comes due. The period is resolved again for every run, so relative dates
such as the default "9 days ago" to "3 days ago" move along with the clock.

A failed run is logged and the schedule keeps going. Ctrl+C or SIGTERM stops
the scheduler after the run in flight has been cancelled.

The expression has five fields, an optional leading seconds field, or is a
descriptor such as @hourly or "@every 6h". Prefix CRON_TZ=<zone> to use a
time zone other than local time.

Examples:
  toggl2slack schedule
  toggl2slack schedule --cron "0 9 * * MON" --period "last week"
  toggl2slack schedule --cron @daily --run-now --skip-table`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().String("cron", "", "Cron expression (default \"0 * * * *\")")
	scheduleCmd.Flags().BoolVar(&scheduleFlagRunNow, "run-now", false, "Run once immediately before waiting for the schedule")
	scheduleCmd.Flags().StringVar(&scheduleFlagPIDFile, "pid-file", "", "PID file guarding against a second scheduler (default "+scheduler.DefaultPIDPath()+")")
	addSlackFlags(scheduleCmd)
	addReportFlags(scheduleCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if reportFlagSkipSummary && reportFlagSkipTable {
		return errors.NewUserError("nothing to send",
			"Drop --skip-summary or --skip-table.")
	}

	// Everything that can be checked up front fails here rather than on the
	// first tick.
	if _, err := resolvePeriod(cmd); err != nil {
		return err
	}
	if _, err := scheduler.ParseSpec(ctx.Config.Schedule.Cron); err != nil {
		return err
	}
	if err := promptTogglToken(cmd); err != nil {
		return err
	}
	client, err := ctx.TogglClient()
	if err != nil {
		return err
	}
	sinks, err := ctx.Sinks(reportFlagDryRun, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	pidPath := scheduleFlagPIDFile
	if pidPath == "" {
		pidPath = scheduler.DefaultPIDPath()
	}
	pid := scheduler.NewPIDFile(pidPath)
	if err := pid.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Release(); err != nil {
			logging.Warn("cannot remove PID file", logging.KeyError, err.Error())
		}
	}()

	s, err := scheduler.New(ctx.Config.Schedule.Cron, scheduledReport(cmd, client, sinks))
	if err != nil {
		return err
	}

	if ctx.IsCLI() {
		ctx.CLIFormatter().Muted(fmt.Sprintf("Scheduled %q, next run at %s. Press Ctrl+C to stop.",
			ctx.Config.Schedule.Cron, s.Next().Format("2006-01-02 15:04:05")))
	}

	if ctx.Config.Schedule.RunOnStart || scheduleFlagRunNow {
		// A failed first run is reported like any other and does not stop
		// the schedule.
		_ = s.RunOnce(cmd.Context())
	}

	if err := s.Run(cmd.Context()); err != nil {
		return err
	}

	stats := s.Stats()
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{
			"status":   "ok",
			"runs":     stats.Runs,
			"failures": stats.Failures,
		})
	}
	if ctx.IsCLI() {
		cli := ctx.CLIFormatter()
		cli.Println("")
		cli.KeyValue("Runs", fmt.Sprint(stats.Runs))
		cli.KeyValue("Failures", fmt.Sprint(stats.Failures))
	}
	return nil
}

// scheduledReport returns the job run on every tick: resolve the period,
// fetch, render and deliver.
func scheduledReport(cmd *cobra.Command, client *toggl.Client, sinks *notify.Dispatcher) scheduler.Job {
	opts := runtime.BuildOptions{
		Summary: !reportFlagSkipSummary,
		Table:   !reportFlagSkipTable,
	}

	return func(runCtx context.Context) error {
		period, err := resolvePeriod(cmd)
		if err != nil {
			return err
		}
		logging.FromContext(runCtx).Info("fetching report",
			logging.KeySince, period.Begin.String(),
			logging.KeyUntil, period.End.String())

		artifacts, err := runtime.Build(runCtx, client, period, opts)
		if err != nil {
			reportRunError(period.String(), err)
			return err
		}

		deliveries, err := runtime.Deliver(runCtx, sinks, artifacts)
		if ctx.IsCLI() {
			printDeliveries(deliveries)
		}
		if err != nil {
			reportRunError(period.String(), err)
			return err
		}
		if ctx.IsCLI() && !reportFlagDryRun {
			ctx.CLIFormatter().Muted(fmt.Sprintf("%s  report for %s sent",
				time.Now().Format("2006-01-02 15:04:05"), period))
		}
		return nil
	}
}

func reportRunError(period string, err error) {
	if ctx.IsCLI() {
		ctx.CLIFormatter().Error(fmt.Sprintf("Report for %s failed: %s", period, errors.FormatForDisplay(err)))
	}
}
