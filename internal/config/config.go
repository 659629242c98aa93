// Package config provides layered configuration for toggl2slack.
//
// Values are resolved from, lowest precedence first: built-in defaults, the
// YAML config file, .env files, environment variables and command-line
// flags.
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
	"github.com/manav03panchal/toggl2slack/internal/notify"
	"github.com/manav03panchal/toggl2slack/internal/toggl"
	"github.com/manav03panchal/toggl2slack/internal/validate"
)

// AppName names the config directory and the environment prefix.
const AppName = "toggl2slack"

// Default report range, relative to today.
const (
	DefaultFrom = "9 days ago"
	DefaultTo   = "3 days ago"
)

// DefaultCron runs the report at the top of every hour.
const DefaultCron = "0 * * * *"

// Config is the resolved configuration.
type Config struct {
	Toggl    TogglConfig     `mapstructure:"toggl"`
	Slack    SlackConfig     `mapstructure:"slack"`
	HTTP     HTTPConfig      `mapstructure:"http"`
	Report   ReportConfig    `mapstructure:"report"`
	Schedule ScheduleConfig  `mapstructure:"schedule"`
	Webhooks []WebhookConfig `mapstructure:"webhooks"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
}

// TogglConfig holds Toggl reports API settings.
type TogglConfig struct {
	Token     string        `mapstructure:"api_token"`
	Workspace string        `mapstructure:"workspace"`
	Email     string        `mapstructure:"email"`
	BaseURL   string        `mapstructure:"base_url"`
	PageDelay time.Duration `mapstructure:"page_delay"`
}

// SlackConfig holds Slack Web API settings.
type SlackConfig struct {
	Token   string `mapstructure:"token"`
	Channel string `mapstructure:"channel"`
	BaseURL string `mapstructure:"base_url"`
}

// HTTPConfig holds outbound HTTP settings for the notification senders.
type HTTPConfig struct {
	// Timeout bounds a single request.
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `mapstructure:"max_retries"`

	// RetryDelays are the waits before each attempt; the first entry is
	// the first attempt and is ignored.
	RetryDelays []time.Duration `mapstructure:"retry_delays"`
}

// ReportConfig holds the default report range.
type ReportConfig struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// ScheduleConfig configures the schedule command.
type ScheduleConfig struct {
	// Cron is a cron expression with an optional leading seconds field, or a
	// descriptor such as @hourly.
	Cron       string `mapstructure:"cron"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// WebhookConfig is an extra delivery target next to the Slack channel.
type WebhookConfig struct {
	Name     string `mapstructure:"name"`
	Type     string `mapstructure:"type"`
	URL      string `mapstructure:"url"`
	Template string `mapstructure:"template"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Toggl: TogglConfig{
			BaseURL:   toggl.DefaultBaseURL,
			PageDelay: toggl.DefaultPageDelay,
		},
		Slack: SlackConfig{
			BaseURL: notify.DefaultSlackBaseURL,
		},
		HTTP: HTTPConfig{
			Timeout:     notify.DefaultTimeout,
			MaxRetries:  notify.DefaultMaxRetries,
			RetryDelays: append([]time.Duration(nil), notify.DefaultRetryDelays...),
		},
		Report: ReportConfig{
			From: DefaultFrom,
			To:   DefaultTo,
		},
		Schedule: ScheduleConfig{
			Cron: DefaultCron,
		},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/toggl2slack/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// ValidateToggl checks the settings needed to fetch reports.
func (c *Config) ValidateToggl() error {
	if c.Toggl.Token == "" {
		return missing("Toggl API token", "--toggl-token or TOGGL_API_TOKEN")
	}
	if c.Toggl.Workspace == "" {
		return missing("Toggl workspace id", "--workspace or TOGGL_WORKSPACE")
	}
	if err := validate.WorkspaceID(c.Toggl.Workspace); err != nil {
		return err
	}
	if err := validate.Email(c.Toggl.Email); err != nil {
		return err
	}
	if c.Toggl.BaseURL != "" {
		if err := validate.URL(c.Toggl.BaseURL); err != nil {
			return err
		}
	}
	return nil
}

// HasSlack reports whether a Slack channel delivery is configured.
func (c *Config) HasSlack() bool {
	return c.Slack.Token != "" || c.Slack.Channel != ""
}

// ValidateSinks checks the settings needed to deliver reports. At least one
// destination is required: a Slack channel or a webhook.
func (c *Config) ValidateSinks() error {
	if !c.HasSlack() && len(c.Webhooks) == 0 {
		return missing("Slack token and channel", "--slack-token/--slack-channel, SLACK_TOKEN/SLACK_CHANNEL or a webhook in the config file")
	}
	if c.HasSlack() {
		if c.Slack.Token == "" {
			return missing("Slack token", "--slack-token or SLACK_TOKEN")
		}
		if err := validate.SlackChannel(c.Slack.Channel); err != nil {
			return err
		}
	}
	for i, wh := range c.Webhooks {
		if wh.Name == "" {
			return errors.NewUserError(fmt.Sprintf("webhook #%d has no name", i+1), "Give every webhook in the config file a name.")
		}
		if wh.Type != "" && !notify.IsKnownKind(wh.Type) {
			return errors.NewUserErrorWithField("type", wh.Type,
				"unknown webhook type for "+wh.Name,
				"Use one of: slack, discord, teams, generic.")
		}
		if err := validate.URL(wh.URL); err != nil {
			return errors.Wrapf(err, "webhook %s", wh.Name)
		}
	}
	return nil
}

// Validate checks everything needed for a full report run.
func (c *Config) Validate() error {
	if err := c.ValidateToggl(); err != nil {
		return err
	}
	return c.ValidateSinks()
}

// Settings returns every setting as a flat key/value map with secrets masked.
func (c *Config) Settings() map[string]string {
	delays := make([]string, len(c.HTTP.RetryDelays))
	for i, d := range c.HTTP.RetryDelays {
		delays[i] = d.String()
	}

	m := map[string]string{
		"toggl.api_token":       c.Toggl.Token,
		"toggl.workspace":       c.Toggl.Workspace,
		"toggl.email":           c.Toggl.Email,
		"toggl.base_url":        c.Toggl.BaseURL,
		"toggl.page_delay":      c.Toggl.PageDelay.String(),
		"slack.token":           c.Slack.Token,
		"slack.channel":         c.Slack.Channel,
		"slack.base_url":        c.Slack.BaseURL,
		"http.timeout":          c.HTTP.Timeout.String(),
		"http.max_retries":      strconv.Itoa(c.HTTP.MaxRetries),
		"http.retry_delays":     strings.Join(delays, ","),
		"report.from":           c.Report.From,
		"report.to":             c.Report.To,
		"schedule.cron":         c.Schedule.Cron,
		"schedule.run_on_start": strconv.FormatBool(c.Schedule.RunOnStart),
	}
	for _, wh := range c.Webhooks {
		m["webhooks."+wh.Name+".type"] = wh.Type
		m["webhooks."+wh.Name+".url"] = logging.MaskURL(wh.URL)
	}
	return logging.MaskSensitiveData(m)
}

// SortedKeys returns the keys of a settings map in display order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func missing(what, where string) error {
	return errors.NewUserError("missing "+what, "Set it with "+where+".").
		WithCause(errors.ErrMissingCredential)
}
