// Package cmd provides the CLI commands for toggl2slack.
//
// Copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/toggl2slack/internal/config"
	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
	"github.com/manav03panchal/toggl2slack/internal/output"
	"github.com/manav03panchal/toggl2slack/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagConfig string
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// flagPeriod selects a named period instead of --from/--to. The other
// report and Toggl flags are read through config.Load.
var flagPeriod string

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "toggl2slack",
	Short: "Post Toggl time reports to Slack",
	Long: `toggl2slack fetches time entries from the Toggl reports API and posts a
per-user summary and a per-project/per-day CSV table to a Slack channel.

Without a subcommand it runs 'report'.

Examples:
  toggl2slack --workspace 123456 --slack-channel '#time'
  toggl2slack --from 2020-12-01 --to 2020-12-31 --dry-run
  toggl2slack --period "last month"
  toggl2slack table --from "2 weeks ago" -o december.csv
  toggl2slack preview --period "this week"`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runReport,
}

// setup initializes logging, configuration and the runtime context.
func setup(cmd *cobra.Command, _ []string) error {
	// Skip initialization for commands that need neither config nor output
	switch cmd.Name() {
	case "completion", "help", "version", cobra.ShellCompRequestCmd:
		return nil
	}

	logCfg := logging.DefaultConfig()
	if flagDebug {
		logCfg = logging.DebugConfig()
	}
	logCfg.Output = cmd.ErrOrStderr()
	logging.Init(logCfg)

	format, err := output.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	colorMode, err := output.ParseColorMode(flagColor)
	if err != nil {
		return err
	}

	// Errors from here on are printed in the requested format.
	ctx = runtime.New(runtime.Options{
		Format:    format,
		ColorMode: colorMode,
		Writer:    cmd.OutOrStdout(),
		Debug:     flagDebug,
	})

	// config init creates the file that --config may point at.
	if cmd == configInitCmd {
		return nil
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: flagConfig,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return err
	}
	ctx.Config = cfg

	logging.DebugLog("runtime initialized",
		"command", cmd.Name(),
		"format", string(format),
		"config_file", cfg.File)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := rootCmd.ExecuteContextC(sigCtx)
	if err != nil {
		printError(cmd, err)
	}
	return err
}

// printError reports err on stderr, or as JSON on stdout in JSON mode.
func printError(cmd *cobra.Command, err error) {
	if cmd == nil {
		cmd = rootCmd
	}
	if ctx != nil && ctx.IsJSON() {
		if jerr := ctx.JSONFormatter().PrintError(err); jerr == nil {
			return
		}
	}

	msg := errors.FormatForDisplay(err)
	if flagDebug {
		msg = errors.FormatDebugError(err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Error: "+msg)
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "",
		"Config file (default "+config.DefaultConfigPath()+")")
	pf.StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	pf.StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	pf.BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	// Report range and Toggl access
	pf.String("from", "",
		"First day of the report, YYYY-MM-DD or natural language (default \""+config.DefaultFrom+"\")")
	pf.String("to", "",
		"Last day of the report, inclusive (default \""+config.DefaultTo+"\")")
	pf.StringVar(&flagPeriod, "period", "",
		"Named period instead of --from/--to: today, yesterday, this|last week|month|quarter|year")
	pf.String("toggl-token", "",
		"Toggl API token (env TOGGL_API_TOKEN)")
	pf.String("workspace", "",
		"Toggl workspace id (env TOGGL_WORKSPACE)")
	pf.String("toggl-email", "",
		"Email sent to Toggl as user agent (env TOGGL_EMAIL)")
	pf.String("toggl-url", "",
		"Toggl reports API base URL")
	_ = pf.MarkHidden("toggl-url")

	addSlackFlags(rootCmd)
	addReportFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("toggl2slack %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
		cmd.Println("")
		cmd.Println("Licensed under SEGV License v1.0")
	},
}
