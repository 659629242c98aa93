package notify

import (
	"encoding/json"
	"time"
)

// Discord rejects embeds whose description exceeds this many characters.
const discordDescriptionLimit = 4096

// DiscordFormatter formats messages for Discord webhooks.
type DiscordFormatter struct{}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

// Format converts a message to a single Discord embed.
func (f *DiscordFormatter) Format(msg Message) ([]byte, error) {
	embed := discordEmbed{
		Title:       msg.Title,
		Description: truncate(msg.Text, discordDescriptionLimit),
		Footer:      &discordEmbedFooter{Text: "toggl2slack"},
	}
	if !msg.Timestamp.IsZero() {
		embed.Timestamp = msg.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(discordPayload{Embeds: []discordEmbed{embed}})
}

// ContentType returns the content type for Discord webhooks.
func (f *DiscordFormatter) ContentType() string {
	return "application/json"
}
