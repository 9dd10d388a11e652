package event

import (
	"context"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/brindes/backend/internal/domain/report"
	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportCacheInvalidationHandler drops the cached monthly reports of a
// tenant whenever something the report aggregates changes
type ReportCacheInvalidationHandler struct {
	cache  report.Cache
	logger *zap.Logger
}

// NewReportCacheInvalidationHandler creates a new ReportCacheInvalidationHandler
func NewReportCacheInvalidationHandler(cache report.Cache, logger *zap.Logger) *ReportCacheInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCacheInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ReportCacheInvalidationHandler) EventTypes() []string {
	return []string{
		sales.EventTypeOrderSaved,
		sales.EventTypeInstallmentConfirmed,
		sales.EventTypeCostComponentConfirmed,
		sales.EventTypeOrderStatusChanged,
		sales.EventTypeCommissionAccrued,
		sales.EventTypeOrderDeleted,
		finance.EventTypeCompanyExpenseCreated,
		finance.EventTypeCompanyExpensePaidToggled,
		finance.EventTypeCompanyExpenseDeleted,
	}
}

// Handle invalidates every cached month of the event's tenant
func (h *ReportCacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.InvalidateTenant(ctx, event.TenantID()); err != nil {
		h.logger.Warn("Failed to invalidate report cache",
			zap.String("tenant_id", event.TenantID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	h.logger.Debug("Report cache invalidated",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("event_type", event.EventType()),
	)
	return nil
}
