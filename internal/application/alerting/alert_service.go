package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/alerting"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

// RateLimiter throttles outbound deliveries per tenant and channel.
// A nil limiter means unthrottled; a limiter error fails open so a
// Redis outage never silences alerts.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type alertStrategy struct {
	repo alerting.AlertRepository
}

func (alertStrategy) Label() string { return "alert" }

func (st alertStrategy) New(data shared.Fields, tenantID int64) (*alerting.Alert, error) {
	severity := alerting.SeverityInfo
	if data.Has("severity") {
		severity = alerting.AlertSeverity(data.String("severity"))
	}
	a := alerting.NewAlert(tenantID, data.String("type"), data.String("message"), severity)
	a.Source = data.String("source")
	if data.Has("status") {
		a.Status = alerting.AlertStatus(data.String("status"))
	}
	return a, nil
}

func (st alertStrategy) Apply(a *alerting.Alert, data shared.Fields) error {
	if data.Has("type") {
		a.Type = data.String("type")
	}
	if data.Has("message") {
		a.Message = data.String("message")
	}
	if data.Has("severity") {
		a.Severity = alerting.AlertSeverity(data.String("severity"))
	}
	if data.Has("status") {
		a.Status = alerting.AlertStatus(data.String("status"))
	}
	if data.Has("source") {
		a.Source = data.String("source")
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (st alertStrategy) Rules(isUpdate bool) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("type", 1, 50),
		validation.Length("message", 1, 2000),
		validation.Enum("severity", alerting.SeverityValues()...),
		validation.Enum("status", alerting.AlertStatusValues()...),
	}
	if !isUpdate {
		rules = append([]validation.Rule{
			validation.Required("type"),
			validation.Required("message"),
		}, rules...)
	}
	return rules
}

func (st alertStrategy) CanDelete(context.Context, *alerting.Alert) (bool, string, error) {
	return true, "", nil
}

// AlertService manages monitoring alerts. Raising an alert persists it
// first, then notifies every configured channel best-effort: a delivery
// failure is logged and never surfaces as the alert's error.
type AlertService struct {
	crud      *crud.TenantService[alerting.Alert]
	repo      alerting.AlertRepository
	notifiers []alerting.Notifier
	limiter   RateLimiter
	logger    *zap.Logger
}

// NewAlertService creates the alert service.
func NewAlertService(
	repo alerting.AlertRepository,
	notifiers []alerting.Notifier,
	limiter RateLimiter,
	logger *zap.Logger,
) *AlertService {
	return &AlertService{
		crud:      crud.NewTenantService[alerting.Alert](repo, alertStrategy{repo: repo}, logger),
		repo:      repo,
		notifiers: notifiers,
		limiter:   limiter,
		logger:    logger,
	}
}

// Get returns the alert when it exists under the tenant.
func (s *AlertService) Get(ctx context.Context, tenantID, id int64) shared.Result[*alerting.Alert] {
	return s.crud.Get(ctx, tenantID, id)
}

// List returns the tenant's alerts matching the query.
func (s *AlertService) List(ctx context.Context, tenantID int64, q shared.Query) shared.Result[[]alerting.Alert] {
	return s.crud.List(ctx, tenantID, q)
}

// Paginate returns one page of the tenant's alerts.
func (s *AlertService) Paginate(ctx context.Context, tenantID int64, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[alerting.Alert]] {
	return s.crud.Paginate(ctx, tenantID, page, pageSize, q)
}

// Count returns the number of matching alerts.
func (s *AlertService) Count(ctx context.Context, tenantID int64, q shared.Query) shared.Result[int64] {
	return s.crud.Count(ctx, tenantID, q)
}

// Raise validates and persists a new alert, then dispatches it to the
// configured channels. The returned result reflects only the persisted
// alert: by the time dispatch runs, the alert already exists.
func (s *AlertService) Raise(ctx context.Context, tenantID int64, data shared.Fields) shared.Result[*alerting.Alert] {
	result := s.crud.Create(ctx, tenantID, data)
	if !result.IsSuccess() {
		return result
	}

	alert := result.Data()
	if s.dispatch(ctx, alert) {
		alert.MarkNotified(time.Now())
		if err := s.repo.Save(ctx, alert); err != nil {
			s.logger.Warn("failed to record notification timestamp",
				zap.Int64("alert_id", alert.ID), zap.Error(err))
		}
	}
	return result
}

// Update overwrites the supplied fields after lookup and validation.
func (s *AlertService) Update(ctx context.Context, tenantID, id int64, data shared.Fields) shared.Result[*alerting.Alert] {
	return s.crud.Update(ctx, tenantID, id, data)
}

// Delete removes the alert.
func (s *AlertService) Delete(ctx context.Context, tenantID, id int64) shared.Result[*alerting.Alert] {
	return s.crud.Delete(ctx, tenantID, id)
}

// DeleteMany removes the given alerts and reports how many went away.
func (s *AlertService) DeleteMany(ctx context.Context, tenantID int64, ids []int64) shared.Result[int64] {
	return s.crud.DeleteMany(ctx, tenantID, ids)
}

// Acknowledge marks an open alert as seen.
func (s *AlertService) Acknowledge(ctx context.Context, tenantID, id int64) shared.Result[*alerting.Alert] {
	return s.transition(ctx, tenantID, id, func(a *alerting.Alert) { a.Acknowledge() })
}

// Resolve closes the alert.
func (s *AlertService) Resolve(ctx context.Context, tenantID, id int64) shared.Result[*alerting.Alert] {
	return s.transition(ctx, tenantID, id, func(a *alerting.Alert) { a.Resolve() })
}

func (s *AlertService) transition(ctx context.Context, tenantID, id int64, apply func(*alerting.Alert)) shared.Result[*alerting.Alert] {
	alert, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*alerting.Alert](s.logger, "alert", err, "update")
	}
	apply(alert)
	if err := s.repo.Save(ctx, alert); err != nil {
		return crud.Failure[*alerting.Alert](s.logger, "alert", err, "update")
	}
	return shared.OK(alert, "alert updated successfully")
}

// dispatch delivers the alert to every channel inside the rate budget
// and reports whether at least one delivery succeeded.
func (s *AlertService) dispatch(ctx context.Context, alert *alerting.Alert) bool {
	msg := alerting.Notification{
		TenantID: alert.TenantID,
		Subject:  alert.Type,
		Body:     alert.Message,
		Severity: alert.Severity,
	}

	delivered := false
	for _, notifier := range s.notifiers {
		if s.limiter != nil {
			key := fmt.Sprintf("%d:%s", alert.TenantID, notifier.Name())
			allowed, err := s.limiter.Allow(ctx, key)
			if err != nil {
				s.logger.Warn("rate limiter unavailable, delivering anyway",
					zap.String("channel", notifier.Name()), zap.Error(err))
			} else if !allowed {
				s.logger.Info("notification suppressed by rate limit",
					zap.Int64("tenant_id", alert.TenantID),
					zap.String("channel", notifier.Name()))
				continue
			}
		}
		if err := notifier.Notify(ctx, msg); err != nil {
			s.logger.Warn("notification delivery failed",
				zap.Int64("alert_id", alert.ID),
				zap.String("channel", notifier.Name()),
				zap.Error(err))
			continue
		}
		delivered = true
	}
	return delivered
}
