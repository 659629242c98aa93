package notify

import (
	"encoding/json"
	"fmt"
)

// TeamsFormatter formats messages for Microsoft Teams webhooks.
type TeamsFormatter struct{}

// teamsPayload is the MessageCard format.
type teamsPayload struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Summary    string         `json:"summary"`
	Sections   []teamsSection `json:"sections"`
}

type teamsSection struct {
	ActivityTitle    string `json:"activityTitle,omitempty"`
	ActivitySubtitle string `json:"activitySubtitle,omitempty"`
	Text             string `json:"text"`
	Markdown         bool   `json:"markdown"`
}

// Format converts a message to a MessageCard. The text goes inside <pre> so
// Teams keeps its line breaks and alignment.
func (f *TeamsFormatter) Format(msg Message) ([]byte, error) {
	title := msg.Title
	if title == "" {
		title = "Toggl report"
	}

	section := teamsSection{
		ActivityTitle: title,
		Text:          "<pre>" + msg.Text + "</pre>",
		Markdown:      true,
	}
	if !msg.Timestamp.IsZero() {
		section.ActivitySubtitle = fmt.Sprintf("toggl2slack | %s", msg.Timestamp.Format("Jan 2, 3:04 PM"))
	}

	return json.Marshal(teamsPayload{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: "7C3AED",
		Summary:    title,
		Sections:   []teamsSection{section},
	})
}

// ContentType returns the content type for Teams webhooks.
func (f *TeamsFormatter) ContentType() string {
	return "application/json"
}
