package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
)

// EnvPrefix prefixes every environment variable, e.g. TOGGL2SLACK_SLACK_CHANNEL.
const EnvPrefix = "TOGGL2SLACK"

// legacyEnv lists the unprefixed variable names accepted for each key, in
// precedence order after the prefixed name.
var legacyEnv = map[string][]string{
	"toggl.api_token": {"TOGGL_API_TOKEN", "TOGGL_TOKEN"},
	"toggl.workspace": {"TOGGL_WORKSPACE", "TOGGL_WORKSPACE_ID"},
	"toggl.email":     {"TOGGL_EMAIL"},
	"slack.token":     {"SLACK_TOKEN", "SLACK_BOT_TOKEN"},
	"slack.channel":   {"SLACK_CHANNEL"},
}

// FlagBindings maps config keys to the command-line flags that override them.
var FlagBindings = map[string]string{
	"toggl.api_token": "toggl-token",
	"toggl.workspace": "workspace",
	"toggl.email":     "toggl-email",
	"toggl.base_url":  "toggl-url",
	"slack.token":     "slack-token",
	"slack.channel":   "slack-channel",
	"report.from":     "from",
	"report.to":       "to",
	"schedule.cron":   "cron",
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// ConfigFile is an explicit config file. It must exist. When empty the
	// XDG config directories are searched and a missing file is not an error.
	ConfigFile string

	// EnvFiles are dotenv files loaded into the environment. Missing files
	// are skipped and variables already set are never overwritten. Nil means
	// ".env" in the working directory.
	EnvFiles []string

	// Flags holds command-line flags bound per FlagBindings. Only flags the
	// user actually set take effect.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	file, err := readConfigFile(v, opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	if err := loadEnvFiles(opts.EnvFiles); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		input := append([]string{key, envName(key)}, names...)
		if err := v.BindEnv(input...); err != nil {
			return nil, errors.Wrapf(err, "bind env for %s", key)
		}
	}

	if opts.Flags != nil {
		for key, name := range FlagBindings {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag --%s", name)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewUserErrorWithField("config", file,
			"invalid configuration value",
			"Durations look like 2s or 1m30s; retry_delays is a list of durations.").WithCause(err)
	}
	cfg.File = file

	logging.DebugLog("configuration loaded", "file", file)
	return cfg, nil
}

// envName returns the prefixed environment variable for a key.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("toggl.api_token", d.Toggl.Token)
	v.SetDefault("toggl.workspace", d.Toggl.Workspace)
	v.SetDefault("toggl.email", d.Toggl.Email)
	v.SetDefault("toggl.base_url", d.Toggl.BaseURL)
	v.SetDefault("toggl.page_delay", d.Toggl.PageDelay)
	v.SetDefault("slack.token", d.Slack.Token)
	v.SetDefault("slack.channel", d.Slack.Channel)
	v.SetDefault("slack.base_url", d.Slack.BaseURL)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.max_retries", d.HTTP.MaxRetries)
	v.SetDefault("http.retry_delays", d.HTTP.RetryDelays)
	v.SetDefault("report.from", d.Report.From)
	v.SetDefault("report.to", d.Report.To)
	v.SetDefault("schedule.cron", d.Schedule.Cron)
	v.SetDefault("schedule.run_on_start", d.Schedule.RunOnStart)
}

// readConfigFile reads the explicit file, or the first config.yaml found in
// the XDG config directories. It returns the path it read.
func readConfigFile(v *viper.Viper, explicit string) (string, error) {
	path := explicit
	if path == "" {
		found, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml"))
		if err != nil {
			return "", nil
		}
		path = found
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", errors.NewUserErrorWithField("config", path,
			"cannot read config file",
			"Check that the file exists and is valid YAML. Default location: "+DefaultConfigPath()).WithCause(err)
	}
	return path, nil
}

func loadEnvFiles(files []string) error {
	if files == nil {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.NewUserErrorWithField("env-file", strings.Join(existing, ","),
			"cannot parse env file",
			"Lines look like KEY=value.").WithCause(err)
	}
	return nil
}
