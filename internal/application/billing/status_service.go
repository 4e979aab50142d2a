package billing

import (
	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// BudgetStatusService serves the global budget status lookup table.
// It is read-only: create, update and delete answer NOT_SUPPORTED.
type BudgetStatusService struct {
	*crud.GlobalService[billing.BudgetStatusEntry]
}

// NewBudgetStatusService creates the read-only status lookup service.
func NewBudgetStatusService(repo billing.BudgetStatusRepository, logger *zap.Logger) *BudgetStatusService {
	strategy := crud.ReadOnlyStrategy[billing.BudgetStatusEntry]{Name: "budget status"}
	return &BudgetStatusService{
		GlobalService: crud.NewReadOnlyGlobalService[billing.BudgetStatusEntry](repo, strategy, logger),
	}
}
