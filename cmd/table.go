package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/model"
	"github.com/manav03panchal/toggl2slack/internal/runtime"
	"github.com/manav03panchal/toggl2slack/internal/validate"
)

// Table command flags.
var tableFlagOutput string

// tableCmd represents the table command.
var tableCmd = &cobra.Command{
	Use:     "table",
	Aliases: []string{"csv"},
	Short:   "Write the per-project/per-day CSV table",
	Long: `Fetch the detailed report and write the CSV table that 'report' would post:
one row per project and user, one column per day of the period, hours with
half-hour resolution.

Without --output the table goes to stdout. When --output names a directory
the file is called toggl_<from>_<to>.csv.

Examples:
  toggl2slack table --period "last month"
  toggl2slack table --from 2020-12-01 --to 2020-12-31 -o december.csv
  toggl2slack table -o ~/reports/`,
	RunE: runTable,
}

func init() {
	tableCmd.Flags().StringVarP(&tableFlagOutput, "output", "o", "", "Output file or directory (stdout if omitted)")
	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	_, artifacts, err := fetchArtifacts(cmd, runtime.BuildOptions{Table: true})
	if err != nil {
		return err
	}

	if tableFlagOutput == "" {
		if ctx.IsJSON() {
			resp := reportResponse(artifacts, nil)
			resp.Table = artifacts.Table
			return ctx.JSONFormatter().PrintReport(resp)
		}
		ctx.Formatter.Print(artifacts.Table)
		return nil
	}

	path := tablePath(tableFlagOutput, artifacts.Period)
	if err := os.WriteFile(path, []byte(artifacts.Table), 0o644); err != nil {
		return errors.NewSystemErrorWithOp("write table", "cannot write "+path, err)
	}

	if ctx.IsJSON() {
		resp := reportResponse(artifacts, nil)
		resp.File = path
		return ctx.JSONFormatter().PrintReport(resp)
	}
	if ctx.IsCLI() {
		ctx.CLIFormatter().Success(fmt.Sprintf("Wrote %s (%d rows)", path, artifacts.Projects*artifacts.Users))
	}
	return nil
}

// tablePath returns output, or the default file name inside output when it
// is a directory.
func tablePath(output string, period model.Period) string {
	info, err := os.Stat(output)
	if err != nil || !info.IsDir() {
		return output
	}
	name := validate.SafeFilename(fmt.Sprintf("toggl_%s_%s.csv", period.Begin, period.End))
	return filepath.Join(output, name)
}
