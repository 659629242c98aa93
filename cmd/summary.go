package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/toggl2slack/internal/runtime"
)

// Summary command flags.
var summaryFlagSend bool

// summaryCmd represents the summary command.
var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"sum"},
	Short:   "Print the per-user summary message",
	Long: `Fetch the summary report and print the per-user message that 'report'
would post. With --send the message is posted to the configured destinations
instead.

Examples:
  toggl2slack summary --period "last month"
  toggl2slack summary --from 2020-12-01 --to 2020-12-31 --send`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryFlagSend, "send", false, "Post the message instead of printing it")
	addSlackFlags(summaryCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	if summaryFlagSend {
		sinks, err := ctx.Sinks(false, nil)
		if err != nil {
			return err
		}
		runCtx, artifacts, err := fetchArtifacts(cmd, runtime.BuildOptions{Summary: true})
		if err != nil {
			return err
		}
		deliveries, err := runtime.Deliver(runCtx, sinks, artifacts)
		if ctx.IsJSON() {
			resp := reportResponse(artifacts, deliveries)
			if err != nil {
				resp.Status = "error"
			}
			if jerr := ctx.JSONFormatter().PrintReport(resp); jerr != nil {
				return jerr
			}
			return err
		}
		printDeliveries(deliveries)
		return err
	}

	_, artifacts, err := fetchArtifacts(cmd, runtime.BuildOptions{Summary: true})
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		resp := reportResponse(artifacts, nil)
		resp.Summary = artifacts.Summary
		return ctx.JSONFormatter().PrintReport(resp)
	}
	ctx.Formatter.Println(artifacts.Summary)
	return nil
}
