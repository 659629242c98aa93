package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/notify"
	"github.com/manav03panchal/toggl2slack/internal/toggl"
)

// clearEnv blanks every variable Load reads. Empty values are ignored.
func clearEnv(t *testing.T) {
	t.Helper()
	for key, names := range legacyEnv {
		t.Setenv(envName(key), "")
		for _, n := range names {
			t.Setenv(n, "")
		}
	}
	for key := range FlagBindings {
		t.Setenv(envName(key), "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	for _, name := range FlagBindings {
		fs.String(name, "", "")
	}
	return fs
}

// ===== Load Tests =====

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	file := writeFile(t, "config.yaml", "{}\n")

	cfg, err := Load(LoadOptions{ConfigFile: file, EnvFiles: []string{}})
	require.NoError(t, err)

	assert.Equal(t, file, cfg.File)
	assert.Equal(t, toggl.DefaultBaseURL, cfg.Toggl.BaseURL)
	assert.Equal(t, toggl.DefaultPageDelay, cfg.Toggl.PageDelay)
	assert.Equal(t, notify.DefaultSlackBaseURL, cfg.Slack.BaseURL)
	assert.Equal(t, notify.DefaultTimeout, cfg.HTTP.Timeout)
	assert.Equal(t, notify.DefaultMaxRetries, cfg.HTTP.MaxRetries)
	assert.Equal(t, notify.DefaultRetryDelays, cfg.HTTP.RetryDelays)
	assert.Equal(t, DefaultFrom, cfg.Report.From)
	assert.Equal(t, DefaultTo, cfg.Report.To)
	assert.Empty(t, cfg.Toggl.Token)
	assert.Empty(t, cfg.Webhooks)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	file := writeFile(t, "config.yaml", `
toggl:
  api_token: file-token
  workspace: "123"
  page_delay: 500ms
slack:
  token: xoxb-file
  channel: "#reports"
http:
  timeout: 10s
  max_retries: 1
  retry_delays: [0s, 1s]
report:
  from: last month
webhooks:
  - name: ops
    type: discord
    url: https://discord.com/api/webhooks/1/abc
`)

	cfg, err := Load(LoadOptions{ConfigFile: file, EnvFiles: []string{}})
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Toggl.Token)
	assert.Equal(t, "123", cfg.Toggl.Workspace)
	assert.Equal(t, 500*time.Millisecond, cfg.Toggl.PageDelay)
	assert.Equal(t, "xoxb-file", cfg.Slack.Token)
	assert.Equal(t, "#reports", cfg.Slack.Channel)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 1, cfg.HTTP.MaxRetries)
	assert.Equal(t, []time.Duration{0, time.Second}, cfg.HTTP.RetryDelays)
	assert.Equal(t, "last month", cfg.Report.From)
	assert.Equal(t, DefaultTo, cfg.Report.To)
	require.Len(t, cfg.Webhooks, 1)
	assert.Equal(t, WebhookConfig{Name: "ops", Type: "discord", URL: "https://discord.com/api/webhooks/1/abc"}, cfg.Webhooks[0])
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), EnvFiles: []string{}})
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	file := writeFile(t, "config.yaml", `
toggl:
  api_token: file-token
  workspace: "1"
slack:
  channel: "#file"
`)

	t.Run("env_over_file", func(t *testing.T) {
		t.Setenv("TOGGL2SLACK_TOGGL_WORKSPACE", "2")
		cfg, err := Load(LoadOptions{ConfigFile: file, EnvFiles: []string{}})
		require.NoError(t, err)
		assert.Equal(t, "2", cfg.Toggl.Workspace)
		assert.Equal(t, "file-token", cfg.Toggl.Token)
	})

	t.Run("legacy_env", func(t *testing.T) {
		t.Setenv("TOGGL_API_TOKEN", "legacy-token")
		t.Setenv("SLACK_CHANNEL", "#legacy")
		cfg, err := Load(LoadOptions{ConfigFile: file, EnvFiles: []string{}})
		require.NoError(t, err)
		assert.Equal(t, "legacy-token", cfg.Toggl.Token)
		assert.Equal(t, "#legacy", cfg.Slack.Channel)
	})

	t.Run("prefixed_env_over_legacy", func(t *testing.T) {
		t.Setenv("TOGGL_API_TOKEN", "legacy-token")
		t.Setenv("TOGGL2SLACK_TOGGL_API_TOKEN", "prefixed-token")
		cfg, err := Load(LoadOptions{ConfigFile: file, EnvFiles: []string{}})
		require.NoError(t, err)
		assert.Equal(t, "prefixed-token", cfg.Toggl.Token)
	})

	t.Run("flag_over_env", func(t *testing.T) {
		t.Setenv("TOGGL_WORKSPACE", "2")
		fs := testFlags()
		require.NoError(t, fs.Parse([]string{"--workspace", "3", "--from", "2020-12-01"}))

		cfg, err := Load(LoadOptions{ConfigFile: file, EnvFiles: []string{}, Flags: fs})
		require.NoError(t, err)
		assert.Equal(t, "3", cfg.Toggl.Workspace)
		assert.Equal(t, "2020-12-01", cfg.Report.From)
		assert.Equal(t, "file-token", cfg.Toggl.Token)
	})

	t.Run("unset_flag_ignored", func(t *testing.T) {
		cfg, err := Load(LoadOptions{ConfigFile: file, EnvFiles: []string{}, Flags: testFlags()})
		require.NoError(t, err)
		assert.Equal(t, "1", cfg.Toggl.Workspace)
	})
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SLACK_TOKEN")
	t.Cleanup(func() { os.Unsetenv("SLACK_TOKEN") })

	file := writeFile(t, "config.yaml", "{}\n")
	envFile := writeFile(t, ".env", "SLACK_TOKEN=xoxb-dotenv\n")

	cfg, err := Load(LoadOptions{
		ConfigFile: file,
		EnvFiles:   []string{envFile, filepath.Join(t.TempDir(), "missing.env")},
	})
	require.NoError(t, err)
	assert.Equal(t, "xoxb-dotenv", cfg.Slack.Token)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	file := writeFile(t, "config.yaml", "toggl:\n  page_delay: soon\n")

	_, err := Load(LoadOptions{ConfigFile: file, EnvFiles: []string{}})
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))
}

// ===== Validate Tests =====

func validConfig() *Config {
	cfg := Default()
	cfg.Toggl.Token = "toggl-token"
	cfg.Toggl.Workspace = "123"
	cfg.Slack.Token = "xoxb-1"
	cfg.Slack.Channel = "#reports"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		missing bool
	}{
		{"valid", func(c *Config) {}, false, false},
		{"no_token", func(c *Config) { c.Toggl.Token = "" }, true, true},
		{"no_workspace", func(c *Config) { c.Toggl.Workspace = "" }, true, true},
		{"bad_workspace", func(c *Config) { c.Toggl.Workspace = "abc" }, true, false},
		{"bad_email", func(c *Config) { c.Toggl.Email = "nope" }, true, false},
		{"no_sinks", func(c *Config) { c.Slack = SlackConfig{} }, true, true},
		{"channel_without_token", func(c *Config) { c.Slack.Token = "" }, true, true},
		{"bad_channel", func(c *Config) { c.Slack.Channel = "reports" }, true, false},
		{"webhook_only", func(c *Config) {
			c.Slack = SlackConfig{}
			c.Webhooks = []WebhookConfig{{Name: "ops", Type: "teams", URL: "https://example.com/hook"}}
		}, false, false},
		{"webhook_no_name", func(c *Config) {
			c.Webhooks = []WebhookConfig{{URL: "https://example.com/hook"}}
		}, true, false},
		{"webhook_bad_type", func(c *Config) {
			c.Webhooks = []WebhookConfig{{Name: "x", Type: "pager", URL: "https://example.com/hook"}}
		}, true, false},
		{"webhook_bad_url", func(c *Config) {
			c.Webhooks = []WebhookConfig{{Name: "x", URL: "http://example.com/hook"}}
		}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsUserError(err))
			assert.Equal(t, tt.missing, errors.Is(err, errors.ErrMissingCredential))
		})
	}
}

func TestValidateToggl_IgnoresSinks(t *testing.T) {
	cfg := validConfig()
	cfg.Slack = SlackConfig{}
	assert.NoError(t, cfg.ValidateToggl())
	assert.Error(t, cfg.ValidateSinks())
}

// ===== Settings Tests =====

func TestSettings_MasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Toggl.Token = "abcdef1234567890"
	cfg.Webhooks = []WebhookConfig{{Name: "ops", Type: "slack", URL: "https://hooks.slack.com/services/T/B/secret"}}

	s := cfg.Settings()

	assert.NotContains(t, s["toggl.api_token"], "abcdef1234567890")
	assert.NotContains(t, s["slack.token"], "xoxb-1")
	assert.Equal(t, "https://hooks.slack.com/***", s["webhooks.ops.url"])
	assert.Equal(t, "slack", s["webhooks.ops.type"])
	assert.Equal(t, "123", s["toggl.workspace"])
	assert.Equal(t, "#reports", s["slack.channel"])
	assert.Equal(t, "0s,5s,30s", s["http.retry_delays"])
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]string{"b": "", "a": "", "c.x": ""})
	assert.Equal(t, []string{"a", "b", "c.x"}, keys)
}

func TestDefaultConfigPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(DefaultConfigPath()))
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(DefaultConfigPath())))
}

// ===== Template Tests =====

func TestWriteTemplate(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteTemplate(path, false))

	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFiles: []string{}})
	require.NoError(t, err)
	want := Default()
	want.File = path
	assert.Equal(t, want, cfg)

	err = WriteTemplate(path, false)
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))

	assert.NoError(t, WriteTemplate(path, true))
}
