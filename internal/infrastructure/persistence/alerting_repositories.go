package persistence

import (
	"github.com/backoffice/backend/internal/domain/alerting"
	"gorm.io/gorm"
)

// NewAlertRepository creates the monitoring alert repository.
func NewAlertRepository(db *gorm.DB) alerting.AlertRepository {
	return NewGormTenantRepository[alerting.Alert](db)
}
