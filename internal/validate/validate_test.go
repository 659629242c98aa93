package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manav03panchal/toggl2slack/internal/errors"
)

func TestNonEmpty(t *testing.T) {
	assert.NoError(t, NonEmpty("token", "x"))

	err := NonEmpty("token", "  ")
	assert.True(t, errors.IsUserError(err))
	assert.Equal(t, "token cannot be empty", err.Error())
}

func TestWorkspaceID(t *testing.T) {
	assert.NoError(t, WorkspaceID("1234567"))
	assert.Error(t, WorkspaceID(""))
	assert.Error(t, WorkspaceID("12a"))
	assert.Error(t, WorkspaceID("-1"))
}

func TestSlackChannel(t *testing.T) {
	tests := []struct {
		channel string
		valid   bool
	}{
		{"#general", true},
		{"#time-reports_2", true},
		{"C0123ABCD", true},
		{"G01ABCDEF", true},
		{"", false},
		{"general", false},
		{"#General", false},
		{"#has space", false},
		{"#" + strings.Repeat("a", 81), false},
	}

	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			err := SlackChannel(tt.channel)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsUserError(err))
			}
		})
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email(""))
	assert.NoError(t, Email("ops@example.com"))
	assert.Error(t, Email("ops"))
	assert.Error(t, Email("a@b"))
}

func TestURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"https", "https://hooks.slack.com/services/T/B/X", true},
		{"localhost_http", "http://localhost:8080/hook", true},
		{"loopback_http", "http://127.0.0.1:9000", true},
		{"empty", "", false},
		{"bad_scheme", "ftp://example.com", false},
		{"external_http", "http://example.com/hook", false},
		{"missing_host", "https:///path", false},
		{"private_ip", "https://10.0.0.5/hook", false},
		{"link_local", "https://169.254.169.254/latest", false},
		{"too_long", "https://example.com/" + strings.Repeat("a", MaxURLLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := URL(tt.url)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, errors.IsUserError(err))
			}
		})
	}
}

func TestStripControlChars(t *testing.T) {
	assert.Equal(t, "a\nb\tc", StripControlChars("a\nb\tc\x07\x1b"))
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "toggl_2020-12-01_2020-12-31.csv", SafeFilename("toggl_2020-12-01_2020-12-31.csv"))
	assert.Equal(t, "a_b_c", SafeFilename("a/b:c"))
	assert.Equal(t, "report", SafeFilename(" ..report.. "))
	assert.Len(t, SafeFilename(strings.Repeat("x", 300)), 200)
}
