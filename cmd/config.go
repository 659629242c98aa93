package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/toggl2slack/internal/config"
	"github.com/manav03panchal/toggl2slack/internal/output"
)

// Config command flags.
var configFlagForce bool

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Inspect application configuration",
	Long: `Inspect the effective configuration.

Values come from, lowest precedence first: built-in defaults, the config
file, .env in the working directory, environment variables and flags.

Examples:
  toggl2slack config show
  toggl2slack config show --workspace 42
  toggl2slack config path
  toggl2slack config init`,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with secrets masked",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configPathCmd prints the config file locations.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

// configInitCmd writes a commented config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config file to the default location",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	addSlackFlags(configShowCmd)
	configInitCmd.Flags().BoolVar(&configFlagForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings := ctx.Config.Settings()

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintConfig(output.ConfigResponse{
			File:     ctx.Config.File,
			Settings: settings,
		})
	}

	cli := ctx.CLIFormatter()
	if ctx.Config.File != "" {
		cli.Muted("Config file: " + ctx.Config.File)
	} else {
		cli.Muted("Config file: none (defaults, environment and flags only)")
	}
	cli.Println("")

	var rows []output.TableRow
	for _, key := range config.SortedKeys(settings) {
		value := settings[key]
		if value == "" {
			value = "-"
		}
		rows = append(rows, output.TableRow{Columns: []string{key, value}})
	}
	cli.PrintTable([]string{"KEY", "VALUE"}, rows)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{
			"default": config.DefaultConfigPath(),
			"loaded":  ctx.Config.File,
		})
	}

	cli := ctx.CLIFormatter()
	cli.KeyValue("Default", config.DefaultConfigPath())
	loaded := ctx.Config.File
	if loaded == "" {
		loaded = "none"
	}
	cli.KeyValue("Loaded", loaded)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		var err error
		if path, err = config.TemplatePath(); err != nil {
			return err
		}
	}
	if err := config.WriteTemplate(path, configFlagForce); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{"status": "ok", "file": path})
	}
	ctx.CLIFormatter().Success("Wrote " + path)
	return nil
}
