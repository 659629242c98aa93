// Package runtime provides the per-invocation application context for
// toggl2slack: resolved configuration, output formatter, the Toggl client and
// the delivery sinks.
package runtime

import (
	"io"
	"net/http"
	"os"

	"github.com/manav03panchal/toggl2slack/internal/config"
	"github.com/manav03panchal/toggl2slack/internal/notify"
	"github.com/manav03panchal/toggl2slack/internal/output"
	"github.com/manav03panchal/toggl2slack/internal/toggl"
)

// Context holds the application runtime context.
type Context struct {
	Config    *config.Config
	Formatter *output.Formatter

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	Config    *config.Config
	Format    output.Format
	ColorMode output.ColorMode
	Writer    io.Writer
	Debug     bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Config:    config.Default(),
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
		Writer:    os.Stdout,
	}
}

// New creates a new runtime context.
func New(opts Options) *Context {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	formatter := output.NewFormatter()
	if opts.Format != "" {
		formatter.Format = opts.Format
	}
	if opts.ColorMode != "" {
		formatter.ColorMode = opts.ColorMode
	}
	if opts.Writer != nil {
		formatter.Writer = opts.Writer
	}

	return &Context{
		Config:    cfg,
		Formatter: formatter,
		Debug:     opts.Debug,
	}
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

// TogglClient validates the Toggl settings and builds a reports client.
func (c *Context) TogglClient() (*toggl.Client, error) {
	if err := c.Config.ValidateToggl(); err != nil {
		return nil, err
	}
	return toggl.NewClient(toggl.Config{
		BaseURL:     c.Config.Toggl.BaseURL,
		Token:       c.Config.Toggl.Token,
		WorkspaceID: c.Config.Toggl.Workspace,
		UserAgent:   c.Config.Toggl.Email,
		PageDelay:   c.Config.Toggl.PageDelay,
		HTTPClient:  &http.Client{Timeout: toggl.DefaultTimeout},
	})
}

// HTTPClient builds the retrying client used by the network senders.
func (c *Context) HTTPClient(extra ...notify.HTTPOption) *notify.HTTPClient {
	h := c.Config.HTTP
	opts := []notify.HTTPOption{notify.WithRetries(h.MaxRetries, h.RetryDelays)}
	if h.Timeout > 0 {
		opts = append(opts, notify.WithTimeout(h.Timeout))
	}
	return notify.NewHTTPClient(append(opts, extra...)...)
}

// Sinks returns the configured delivery targets. A dry run replaces every
// network target with a single writer on w.
func (c *Context) Sinks(dryRun bool, w io.Writer) (*notify.Dispatcher, error) {
	if dryRun {
		return notify.NewDispatcher(notify.NewWriterSender("stdout", w)), nil
	}
	if err := c.Config.ValidateSinks(); err != nil {
		return nil, err
	}

	client := c.HTTPClient()
	var senders []notify.Sender
	if c.Config.HasSlack() {
		// chat.postMessage is not idempotent: a 5xx or dropped response
		// may follow a message Slack already posted.
		senders = append(senders, notify.NewSlackSender(
			c.Config.Slack.BaseURL, c.Config.Slack.Token, c.Config.Slack.Channel,
			c.HTTPClient(notify.WithRateLimitRetriesOnly())))
	}
	for _, wh := range c.Config.Webhooks {
		senders = append(senders, notify.NewWebhookSender(
			wh.Name, wh.URL, notify.GetFormatter(wh.Type, wh.Template), client))
	}
	return notify.NewDispatcher(senders...), nil
}
