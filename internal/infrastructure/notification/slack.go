// Package notification implements the delivery channels alerts go out
// on. Every notifier is best-effort: the caller logs failures and moves
// on.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/backoffice/backend/internal/domain/alerting"
)

// SlackNotifier delivers notifications to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a notifier for the given webhook URL.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Name identifies the channel in logs and delivery records.
func (n *SlackNotifier) Name() string { return "slack" }

// Notify posts the notification as a webhook message.
func (n *SlackNotifier) Notify(ctx context.Context, msg alerting.Notification) error {
	payload := map[string]string{
		"text": fmt.Sprintf("[%s] %s\n%s", msg.Severity, msg.Subject, msg.Body),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("slack webhook answered status %d", resp.StatusCode)
	}
	return nil
}

var _ alerting.Notifier = (*SlackNotifier)(nil)
