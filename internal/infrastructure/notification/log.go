package notification

import (
	"context"

	"github.com/backoffice/backend/internal/domain/alerting"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the application log. It stands in
// for channels that are not configured, so alert dispatch always has at
// least one working target.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Name identifies the channel in logs and delivery records.
func (n *LogNotifier) Name() string { return "log" }

// Notify writes the notification as a structured log entry.
func (n *LogNotifier) Notify(_ context.Context, msg alerting.Notification) error {
	n.logger.Info("alert notification",
		zap.Int64("tenant_id", msg.TenantID),
		zap.String("severity", string(msg.Severity)),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}

var _ alerting.Notifier = (*LogNotifier)(nil)
