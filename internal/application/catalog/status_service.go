package catalog

import (
	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// ServiceStatusService serves the global service status lookup table.
// It is read-only: create, update and delete answer NOT_SUPPORTED.
type ServiceStatusService struct {
	*crud.GlobalService[catalog.ServiceStatusEntry]
}

// NewServiceStatusService creates the read-only status lookup service.
func NewServiceStatusService(repo catalog.ServiceStatusRepository, logger *zap.Logger) *ServiceStatusService {
	strategy := crud.ReadOnlyStrategy[catalog.ServiceStatusEntry]{Name: "service status"}
	return &ServiceStatusService{
		GlobalService: crud.NewReadOnlyGlobalService[catalog.ServiceStatusEntry](repo, strategy, logger),
	}
}
