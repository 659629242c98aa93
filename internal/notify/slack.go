package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
)

// DefaultSlackBaseURL is the Slack Web API root.
const DefaultSlackBaseURL = "https://slack.com/api"

// SlackSender posts messages through the Slack Web API chat.postMessage
// method using a bot token.
type SlackSender struct {
	baseURL string
	token   string
	channel string
	client  *HTTPClient
}

// NewSlackSender creates a sender for channel. An empty baseURL selects
// DefaultSlackBaseURL.
func NewSlackSender(baseURL, token, channel string, client *HTTPClient) *SlackSender {
	if baseURL == "" {
		baseURL = DefaultSlackBaseURL
	}
	if client == nil {
		client = NewHTTPClient()
	}
	return &SlackSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		channel: channel,
		client:  client,
	}
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type postMessageResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
}

// SlackError is a chat.postMessage response with ok=false.
type SlackError struct {
	Code string
}

func (e *SlackError) Error() string {
	if e.Code == "" {
		return "slack: request rejected"
	}
	return "slack: " + e.Code
}

// Is makes every SlackError match errors.ErrSlackAPI.
func (e *SlackError) Is(target error) bool {
	return target == errors.ErrSlackAPI
}

// Name identifies the sender in logs and results.
func (s *SlackSender) Name() string {
	return "slack:" + s.channel
}

// Send posts msg.Text to the configured channel.
func (s *SlackSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(postMessageRequest{
		Channel: s.channel,
		Text:    slackEscape(msg.Text),
	})
	if err != nil {
		return fmt.Errorf("encode slack message: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token)

	result := s.client.Send(ctx, Request{
		URL:         s.baseURL + "/chat.postMessage",
		ContentType: "application/json; charset=utf-8",
		Header:      header,
		Body:        payload,
	})
	if result.Error != nil {
		return errors.NewSystemErrorWithOp("chat.postMessage", "slack request failed", result.Error)
	}

	var resp postMessageResponse
	if err := json.Unmarshal(result.Body, &resp); err != nil {
		return fmt.Errorf("decode slack response: %w", err)
	}
	if !resp.OK {
		return &SlackError{Code: resp.Error}
	}

	logging.FromContext(ctx).Debug("slack message posted",
		logging.KeyChannel, s.channel,
		logging.KeyAttempt, result.Attempts,
		"ts", resp.TS)
	return nil
}

// SlackFormatter formats messages for Slack incoming webhooks.
type SlackFormatter struct{}

type slackWebhookPayload struct {
	Text string `json:"text"`
}

// Format converts a message to the incoming webhook payload.
func (f *SlackFormatter) Format(msg Message) ([]byte, error) {
	return json.Marshal(slackWebhookPayload{Text: slackEscape(msg.Text)})
}

// ContentType returns the content type for Slack webhooks.
func (f *SlackFormatter) ContentType() string {
	return "application/json"
}

// slackEscape escapes the characters Slack treats as control sequences in
// message text.
func slackEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
