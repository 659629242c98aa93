// Package validate provides input validation helpers for configuration and
// command-line values.
package validate

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/manav03panchal/toggl2slack/internal/errors"
)

const (
	// MaxURLLength is the maximum length for a URL.
	MaxURLLength = 2048
	// MaxChannelLength is the longest Slack channel name accepted.
	MaxChannelLength = 80
)

var (
	// workspaceRegex matches numeric Toggl workspace ids.
	workspaceRegex = regexp.MustCompile(`^[0-9]+$`)

	// channelNameRegex matches "#name" channel references.
	channelNameRegex = regexp.MustCompile(`^#[a-z0-9][a-z0-9._-]*$`)

	// channelIDRegex matches Slack conversation ids (public, private, DM).
	channelIDRegex = regexp.MustCompile(`^[CGD][A-Z0-9]{6,}$`)

	// emailRegex is a loose address check for the Toggl user_agent.
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NonEmpty validates that a string is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}

// WorkspaceID validates a Toggl workspace id.
func WorkspaceID(id string) error {
	if !workspaceRegex.MatchString(id) {
		return errors.NewUserErrorWithField("workspace", id,
			"Toggl workspace id must be numeric",
			"Find it in the Toggl URL: https://track.toggl.com/<workspace-id>/...")
	}
	return nil
}

// SlackChannel validates a channel given as "#name" or as a conversation id.
func SlackChannel(channel string) error {
	if channel == "" {
		return errors.NewUserError("Slack channel cannot be empty", "Pass --slack-channel '#channel' or a channel id like C0123ABCD.")
	}
	if len(channel) > MaxChannelLength+1 {
		return errors.NewUserErrorWithField("channel", channel, "Slack channel name too long", "Channel names are at most 80 characters.")
	}
	if channelNameRegex.MatchString(channel) || channelIDRegex.MatchString(channel) {
		return nil
	}
	return errors.NewUserErrorWithField("channel", channel,
		"Invalid Slack channel",
		"Use a lowercase '#channel' name or a channel id like C0123ABCD.")
}

// Email validates the address sent to Toggl as user_agent. Empty is allowed.
func Email(email string) error {
	if email == "" || emailRegex.MatchString(email) {
		return nil
	}
	return errors.NewUserErrorWithField("email", email,
		"Invalid email address",
		"Toggl expects your account email as the user agent, e.g. ops@example.com.")
}

// URL validates a URL for use as an API base or webhook endpoint.
func URL(rawURL string) error {
	if rawURL == "" {
		return errors.NewUserError("URL cannot be empty", "Provide a valid URL")
	}
	if len(rawURL) > MaxURLLength {
		return errors.NewUserError("URL too long", "URLs must be 2048 characters or fewer")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL format",
			"Provide a valid URL starting with https://")
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL scheme",
			"URLs must use https:// (or http:// for localhost)")
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL: missing hostname",
			"Provide a valid URL like https://hooks.slack.com/services/...")
	}

	isLocalhost := hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1"

	if parsed.Scheme == "http" && !isLocalhost {
		return errors.NewUserErrorWithField("url", rawURL,
			"HTTP not allowed for external URLs",
			"Use https://. HTTP is only allowed for localhost.")
	}

	if !isLocalhost {
		if ip := net.ParseIP(hostname); ip != nil && isInternalIP(ip) {
			return errors.NewUserErrorWithField("url", hostname,
				"Internal IP addresses not allowed",
				"Webhook URLs must point to external services")
		}
	}
	return nil
}

// isInternalIP checks if an IP is in a private/internal range.
func isInternalIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}
