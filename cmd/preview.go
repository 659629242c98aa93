package cmd

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/report"
	"github.com/manav03panchal/toggl2slack/internal/runtime"
	"github.com/manav03panchal/toggl2slack/internal/tui"
)

// previewCmd represents the preview command.
var previewCmd = &cobra.Command{
	Use:     "preview",
	Aliases: []string{"pv"},
	Short:   "Review the report interactively before sending",
	Long: `Fetch both reports and show the summary message, the CSV table and the
per-user totals in an interactive view. Press enter to send, q to abort.

Keys:
  tab, ←, →   switch between summary, table and stats
  ↑, ↓, j, k  scroll
  enter, y    send to the configured destinations
  q, esc      abort without sending

Examples:
  toggl2slack preview
  toggl2slack preview --period "last week"`,
	RunE: runPreview,
}

func init() {
	addSlackFlags(previewCmd)
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if ctx.IsJSON() || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.NewUserError("preview needs an interactive terminal",
			"Use 'toggl2slack report --dry-run' to print the messages instead.")
	}

	// Check the destinations first so nothing is previewed that cannot be sent.
	sinks, err := ctx.Sinks(false, nil)
	if err != nil {
		return err
	}

	runCtx, artifacts, err := fetchArtifacts(cmd, runtime.BuildOptions{Summary: true, Table: true})
	if err != nil {
		return err
	}

	decision, err := tui.Run(previewConfig(artifacts), tea.WithContext(runCtx))
	if err != nil {
		return errors.NewSystemErrorWithOp("preview", "the preview failed", err)
	}
	if decision != tui.DecisionSend {
		ctx.CLIFormatter().Warning("Aborted, nothing was sent")
		return nil
	}

	deliveries, err := runtime.Deliver(runCtx, sinks, artifacts)
	printDeliveries(deliveries)
	return err
}

// previewConfig lays out the artifacts as preview tabs.
func previewConfig(a *runtime.Artifacts) tui.PreviewConfig {
	cfg := tui.PreviewConfig{
		Title: "Toggl report",
		Info:  a.Period.String() + "  " + report.FormatHours(a.Total) + "h total",
		Tabs: []tui.Tab{
			{Title: "Summary", Body: a.Summary},
			{Title: "Table", Body: a.Table},
		},
	}
	total := a.Total.Milliseconds()
	for _, ut := range a.UserTotals {
		var pct float64
		if total > 0 {
			pct = float64(ut.Duration.Milliseconds()) * 100 / float64(total)
		}
		cfg.Shares = append(cfg.Shares, tui.Share{
			Label:   ut.User.String(),
			Hours:   report.FormatHours(ut.Duration),
			Percent: pct,
		})
	}
	return cfg
}
