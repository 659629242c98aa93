package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/manav03panchal/toggl2slack/internal/errors"
)

// Template is the commented config file written by WriteTemplate.
const Template = `# toggl2slack configuration.
# Environment variables (TOGGL2SLACK_TOGGL_API_TOKEN, TOGGL_API_TOKEN, ...)
# and command-line flags override these values.

toggl:
  # api_token: ""
  # workspace: "123456"
  # email: you@example.com
  page_delay: 2s

slack:
  # token: xoxb-...
  # channel: "#time-reports"

http:
  timeout: 30s
  max_retries: 2
  retry_delays: [0s, 5s, 30s]

report:
  from: 9 days ago
  to: 3 days ago

# Used by 'toggl2slack schedule'. Five fields, an optional leading seconds
# field, or a descriptor such as @daily.
schedule:
  cron: "0 * * * *"
  run_on_start: false

# Extra destinations. type is one of slack, discord, teams, generic.
# webhooks:
#   - name: ops
#     type: discord
#     url: https://discord.com/api/webhooks/...
`

// TemplatePath returns the default config file path, creating its parent
// directory.
func TemplatePath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(AppName, "config.yaml"))
	if err != nil {
		return "", errors.NewSystemErrorWithOp("config init", "cannot create the config directory", err)
	}
	return path, nil
}

// WriteTemplate writes Template to path. An existing file is only replaced
// when force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.NewUserErrorWithField("config", path,
				"config file already exists",
				"Pass --force to overwrite it.")
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.NewSystemErrorWithOp("config init", "cannot create "+filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return errors.NewSystemErrorWithOp("config init", "cannot write "+path, err)
	}
	return nil
}
