// Package notify delivers finished report text to Slack and to other chat
// webhooks.
package notify

import (
	"context"
	"strings"
	"time"
)

// Webhook kinds.
const (
	KindSlack   = "slack"
	KindDiscord = "discord"
	KindTeams   = "teams"
	KindGeneric = "generic"
)

// Message is one report artifact ready for delivery.
type Message struct {
	// Title names the artifact; chat APIs that support it show it as a heading.
	Title string
	// Text is the complete artifact and is never altered beyond escaping.
	Text      string
	Timestamp time.Time
}

// Sender delivers a message to one destination.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Formatter formats messages for a specific webhook type.
type Formatter interface {
	// Format converts a message into the webhook-specific payload.
	Format(msg Message) ([]byte, error)

	// ContentType returns the HTTP Content-Type for the payload.
	ContentType() string
}

// GetFormatter returns the formatter for a webhook kind. Unknown kinds fall
// back to the generic JSON payload.
func GetFormatter(kind, template string) Formatter {
	switch strings.ToLower(kind) {
	case KindSlack:
		return &SlackFormatter{}
	case KindDiscord:
		return &DiscordFormatter{}
	case KindTeams:
		return &TeamsFormatter{}
	default:
		return NewGenericFormatter(template)
	}
}

// IsKnownKind reports whether kind names a supported webhook type.
func IsKnownKind(kind string) bool {
	switch strings.ToLower(kind) {
	case KindSlack, KindDiscord, KindTeams, KindGeneric:
		return true
	}
	return false
}

// truncate shortens s to at most limit bytes on a rune boundary, marking the
// cut with an ellipsis.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	const marker = "\n…"
	cut := limit - len(marker)
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + marker
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
