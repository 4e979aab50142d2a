package alerting

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/validation"
)

// AlertRepository persists monitoring alerts.
type AlertRepository interface {
	shared.TenantRepository[Alert]
	validation.Checker
}

// Notification is the payload handed to delivery channels.
type Notification struct {
	TenantID int64
	Subject  string
	Body     string
	Severity AlertSeverity
}

// Notifier delivers a notification over one channel. Implementations
// live in infrastructure; failures are reported back for logging only
// and must never surface as the triggering operation's error.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n Notification) error
}
