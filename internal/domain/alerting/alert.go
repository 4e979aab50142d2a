package alerting

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
)

// AlertSeverity ranks how urgently an alert should be acted on
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// SeverityValues returns the closed set accepted by validation.
func SeverityValues() []string {
	return []string{string(SeverityInfo), string(SeverityWarning), string(SeverityCritical)}
}

// AlertStatus tracks the handling state of an alert
type AlertStatus string

const (
	AlertStatusOpen         AlertStatus = "open"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
)

// AlertStatusValues returns the closed set accepted by validation.
func AlertStatusValues() []string {
	return []string{string(AlertStatusOpen), string(AlertStatusAcknowledged), string(AlertStatusResolved)}
}

// Alert is a tenant-scoped monitoring record: an expiring budget, an
// overdue invoice, a failed delivery. Creating one triggers best-effort
// notification; delivery failure never fails the alert itself.
type Alert struct {
	shared.TenantOwned
	Type     string        `gorm:"type:varchar(50);not null;index"`
	Severity AlertSeverity `gorm:"type:varchar(20);not null;default:'info'"`
	Status   AlertStatus   `gorm:"type:varchar(20);not null;default:'open';index"`
	Message  string        `gorm:"type:text;not null"`
	Source   string        `gorm:"type:varchar(100)"`
	NotifiedAt *time.Time
}

// TableName returns the table name for GORM
func (Alert) TableName() string {
	return "monitoring_alerts"
}

// NewAlert creates an open alert for the given tenant.
func NewAlert(tenantID int64, alertType, message string, severity AlertSeverity) *Alert {
	return &Alert{
		TenantOwned: shared.NewTenantOwned(tenantID),
		Type:        alertType,
		Severity:    severity,
		Status:      AlertStatusOpen,
		Message:     message,
	}
}

// Acknowledge marks the alert as seen.
func (a *Alert) Acknowledge() {
	a.Status = AlertStatusAcknowledged
	a.UpdatedAt = time.Now()
}

// Resolve closes the alert.
func (a *Alert) Resolve() {
	a.Status = AlertStatusResolved
	a.UpdatedAt = time.Now()
}

// MarkNotified records that at least one notification attempt was made.
func (a *Alert) MarkNotified(at time.Time) {
	a.NotifiedAt = &at
}
