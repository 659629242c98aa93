package notify

import (
	"context"
	"fmt"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
)

// WebhookSender posts messages to an incoming webhook URL using a Formatter.
type WebhookSender struct {
	name      string
	url       string
	formatter Formatter
	client    *HTTPClient
}

// NewWebhookSender creates a webhook sender.
func NewWebhookSender(name, url string, formatter Formatter, client *HTTPClient) *WebhookSender {
	if client == nil {
		client = NewHTTPClient()
	}
	if formatter == nil {
		formatter = NewGenericFormatter("")
	}
	return &WebhookSender{
		name:      name,
		url:       url,
		formatter: formatter,
		client:    client,
	}
}

// Name identifies the sender in logs and results.
func (w *WebhookSender) Name() string {
	return "webhook:" + w.name
}

// Send formats msg and posts it.
func (w *WebhookSender) Send(ctx context.Context, msg Message) error {
	payload, err := w.formatter.Format(msg)
	if err != nil {
		return fmt.Errorf("format message for %s: %w", w.name, err)
	}

	result := w.client.Send(ctx, Request{
		URL:         w.url,
		ContentType: w.formatter.ContentType(),
		Body:        payload,
	})
	if result.Error != nil {
		return errors.NewSystemErrorWithOp("webhook "+w.name, "webhook request failed", result.Error)
	}

	logging.FromContext(ctx).Debug("webhook delivered",
		logging.KeySink, w.name,
		logging.KeyStatus, result.StatusCode,
		logging.KeyAttempt, result.Attempts)
	return nil
}
