package notify

import (
	"bytes"
	"encoding/json"
	"text/template"
	"time"
)

// GenericFormatter formats messages for arbitrary JSON webhooks.
type GenericFormatter struct {
	// Template is an optional text/template for the payload. It receives
	// .Title, .Text, .JSONText (the text as a quoted JSON string) and
	// .Timestamp.
	Template string
}

type genericPayload struct {
	Title     string `json:"title,omitempty"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

// NewGenericFormatter creates a new generic formatter with an optional template.
func NewGenericFormatter(template string) *GenericFormatter {
	return &GenericFormatter{Template: template}
}

// Format converts a message to a generic webhook payload.
func (f *GenericFormatter) Format(msg Message) ([]byte, error) {
	if f.Template != "" {
		return f.formatWithTemplate(msg)
	}

	payload := genericPayload{
		Title: msg.Title,
		Text:  msg.Text,
	}
	if !msg.Timestamp.IsZero() {
		payload.Timestamp = msg.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(payload)
}

func (f *GenericFormatter) formatWithTemplate(msg Message) ([]byte, error) {
	tmpl, err := template.New("webhook").Parse(f.Template)
	if err != nil {
		return nil, err
	}

	quoted, err := json.Marshal(msg.Text)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"Title":     msg.Title,
		"Text":      msg.Text,
		"JSONText":  string(quoted),
		"Timestamp": msg.Timestamp,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentType returns the content type for generic webhooks.
func (f *GenericFormatter) ContentType() string {
	return "application/json"
}
