package notification

import (
	"context"
	"fmt"

	"github.com/backoffice/backend/internal/domain/alerting"
	"go.uber.org/zap"
)

// MailSender hands a composed message to an SMTP gateway.
type MailSender interface {
	Send(ctx context.Context, from string, to []string, subject, body string) error
}

// EmailNotifier delivers notifications through a MailSender.
type EmailNotifier struct {
	sender     MailSender
	from       string
	recipients []string
}

// NewEmailNotifier creates a notifier sending to the given recipients.
func NewEmailNotifier(sender MailSender, from string, recipients []string) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, recipients: recipients}
}

// Name identifies the channel in logs and delivery records.
func (n *EmailNotifier) Name() string { return "email" }

// Notify composes and sends the notification as a mail message.
func (n *EmailNotifier) Notify(ctx context.Context, msg alerting.Notification) error {
	if len(n.recipients) == 0 {
		return fmt.Errorf("no email recipients configured")
	}
	subject := fmt.Sprintf("[%s] %s", msg.Severity, msg.Subject)
	if err := n.sender.Send(ctx, n.from, n.recipients, subject, msg.Body); err != nil {
		return fmt.Errorf("failed to deliver email notification: %w", err)
	}
	return nil
}

var _ alerting.Notifier = (*EmailNotifier)(nil)

// LoggedMailSender records outgoing mail in the application log instead
// of talking to an SMTP server. It keeps the email channel wired in
// environments without a gateway.
type LoggedMailSender struct {
	logger *zap.Logger
}

// NewLoggedMailSender creates a log-backed mail sender.
func NewLoggedMailSender(logger *zap.Logger) *LoggedMailSender {
	return &LoggedMailSender{logger: logger}
}

// Send logs the message instead of transmitting it.
func (s *LoggedMailSender) Send(_ context.Context, from string, to []string, subject, body string) error {
	s.logger.Info("outgoing mail",
		zap.String("from", from),
		zap.Strings("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

var _ MailSender = (*LoggedMailSender)(nil)
