package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
	"github.com/manav03panchal/toggl2slack/internal/model"
	"github.com/manav03panchal/toggl2slack/internal/notify"
	"github.com/manav03panchal/toggl2slack/internal/output"
	"github.com/manav03panchal/toggl2slack/internal/parser"
	"github.com/manav03panchal/toggl2slack/internal/report"
	"github.com/manav03panchal/toggl2slack/internal/runtime"
)

// Report command flags.
var (
	reportFlagDryRun      bool
	reportFlagSkipSummary bool
	reportFlagSkipTable   bool
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"run", "send"},
	Short:   "Fetch the Toggl report and post it to Slack",
	Long: `Fetch the summary and detailed reports for the period, render the per-user
summary message and the per-project/per-day CSV table, and post both to the
configured Slack channel and webhooks. The summary is posted first.

The period defaults to "9 days ago" through "3 days ago".

Examples:
  toggl2slack report
  toggl2slack report --from 2020-12-01 --to 2020-12-31
  toggl2slack report --period "last week" --skip-table
  toggl2slack report --dry-run`,
	RunE: runReport,
}

func init() {
	addSlackFlags(reportCmd)
	addReportFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

// addSlackFlags adds the Slack destination flags to cmd.
func addSlackFlags(cmd *cobra.Command) {
	cmd.Flags().String("slack-token", "", "Slack bot token (env SLACK_TOKEN)")
	cmd.Flags().String("slack-channel", "", "Slack channel, '#name' or id (env SLACK_CHANNEL)")
}

// addReportFlags adds the delivery selection flags to cmd.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&reportFlagDryRun, "dry-run", "n", false, "Print the messages instead of sending them")
	cmd.Flags().BoolVar(&reportFlagSkipSummary, "skip-summary", false, "Do not send the summary message")
	cmd.Flags().BoolVar(&reportFlagSkipTable, "skip-table", false, "Do not send the CSV table")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportFlagSkipSummary && reportFlagSkipTable {
		return errors.NewUserError("nothing to send",
			"Drop --skip-summary or --skip-table.")
	}

	// In JSON mode a dry run returns the texts in the response instead of
	// printing them.
	dryRunJSON := reportFlagDryRun && ctx.IsJSON()

	var sinks *notify.Dispatcher
	if !dryRunJSON {
		var err error
		sinks, err = ctx.Sinks(reportFlagDryRun, cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	start := time.Now()
	runCtx, artifacts, err := fetchArtifacts(cmd, runtime.BuildOptions{
		Summary: !reportFlagSkipSummary,
		Table:   !reportFlagSkipTable,
	})
	if err != nil {
		return err
	}

	if dryRunJSON {
		resp := reportResponse(artifacts, nil)
		resp.DryRun = true
		resp.Summary = artifacts.Summary
		resp.Table = artifacts.Table
		return ctx.JSONFormatter().PrintReport(resp)
	}

	deliveries, deliverErr := runtime.Deliver(runCtx, sinks, artifacts)

	if ctx.IsJSON() {
		resp := reportResponse(artifacts, deliveries)
		resp.DryRun = reportFlagDryRun
		if deliverErr != nil {
			resp.Status = "error"
			if err := ctx.JSONFormatter().PrintReport(resp); err != nil {
				return err
			}
			return deliverErr
		}
		return ctx.JSONFormatter().PrintReport(resp)
	}

	printDeliveries(deliveries)
	if deliverErr != nil {
		return deliverErr
	}
	printStats(artifacts, time.Since(start))
	return nil
}

// resolvePeriod turns --period, or the configured from/to range, into a
// validated period. Nothing is fetched before this succeeds.
func resolvePeriod(cmd *cobra.Command) (model.Period, error) {
	now := time.Now()
	if flagPeriod != "" {
		if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
			return model.Period{}, errors.NewUserError(
				"--period cannot be combined with --from or --to",
				"Use either a named --period or an explicit --from/--to range.")
		}
		return parser.ParsePeriod(flagPeriod, now)
	}
	return parser.ParseRange(ctx.Config.Report.From, ctx.Config.Report.To, now)
}

// promptTogglToken asks for a missing Toggl token on an interactive terminal
// without echoing it. Elsewhere the missing token is reported by validation.
func promptTogglToken(cmd *cobra.Command) error {
	if ctx.Config.Toggl.Token != "" || ctx.IsJSON() {
		return nil
	}
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Toggl API token: ")
	token, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return errors.NewSystemErrorWithOp("read token", "cannot read the token from the terminal", err)
	}
	ctx.Config.Toggl.Token = strings.TrimSpace(string(token))
	return nil
}

// fetchArtifacts resolves the period, fetches the selected reports and
// renders them. The returned context carries the run id.
func fetchArtifacts(cmd *cobra.Command, opts runtime.BuildOptions) (context.Context, *runtime.Artifacts, error) {
	period, err := resolvePeriod(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := promptTogglToken(cmd); err != nil {
		return nil, nil, err
	}
	client, err := ctx.TogglClient()
	if err != nil {
		return nil, nil, err
	}

	runCtx := logging.NewRunContext(cmd.Context())
	log := logging.FromContext(runCtx)
	log.Info("fetching report",
		logging.KeySince, period.Begin.String(),
		logging.KeyUntil, period.End.String(),
		"summary", opts.Summary,
		"table", opts.Table)

	if ctx.IsCLI() {
		ctx.CLIFormatter().Muted(fmt.Sprintf("Fetching Toggl report for %s...", period))
	}

	start := time.Now()
	artifacts, err := runtime.Build(runCtx, client, period, opts)
	if err != nil {
		return nil, nil, err
	}
	log.Info("report fetched",
		logging.KeyCount, artifacts.Records,
		logging.KeyDuration, time.Since(start).Milliseconds())
	return runCtx, artifacts, nil
}

// reportResponse builds the JSON body shared by the fetching commands.
func reportResponse(a *runtime.Artifacts, deliveries []runtime.Delivery) output.ReportResponse {
	resp := output.ReportResponse{
		Period: output.PeriodOutput{
			From: a.Period.Begin.String(),
			To:   a.Period.End.String(),
		},
		Users:      a.Users,
		Projects:   a.Projects,
		Records:    a.Records,
		TotalHours: report.FormatHours(a.Total),
	}
	for _, d := range deliveries {
		for _, r := range d.Results {
			out := output.DeliveryOutput{
				Artifact:   d.Artifact,
				Sink:       r.Sink,
				OK:         r.Success,
				DurationMs: r.Duration.Milliseconds(),
			}
			if r.Error != nil {
				out.Error = r.Error.Error()
			}
			resp.Deliveries = append(resp.Deliveries, out)
		}
	}
	return resp
}

// printDeliveries prints one status line per artifact and sink. Dry runs are
// silent here because the messages themselves were just printed.
func printDeliveries(deliveries []runtime.Delivery) {
	if reportFlagDryRun {
		return
	}
	cli := ctx.CLIFormatter()
	for _, d := range deliveries {
		for _, r := range d.Results {
			if r.Success {
				cli.Success(fmt.Sprintf("Sent %s to %s (%s)", d.Artifact, r.Sink, output.FormatElapsed(r.Duration)))
			} else {
				cli.Error(fmt.Sprintf("Failed to send %s to %s: %v", d.Artifact, r.Sink, r.Error))
			}
		}
	}
}

// printStats prints the run totals.
func printStats(a *runtime.Artifacts, elapsed time.Duration) {
	if !ctx.IsCLI() {
		return
	}
	cli := ctx.CLIFormatter()
	cli.Println("")
	cli.KeyValue("Period", a.Period.String())
	cli.KeyValue("Users", fmt.Sprint(a.Users))
	if a.HasTable {
		cli.KeyValue("Projects", fmt.Sprint(a.Projects))
		cli.KeyValue("Entries", fmt.Sprint(a.Records))
	}
	cli.KeyValue("Total", report.FormatHours(a.Total)+"h")
	cli.Muted("Done in " + output.FormatElapsed(elapsed))
}
