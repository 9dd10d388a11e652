package event

import (
	"context"
	"fmt"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FinancialMetrics records business counters for order financial events
type FinancialMetrics interface {
	RecordInstallmentConfirmed(ctx context.Context, installmentType string, amount decimal.Decimal)
	RecordCommissionAccrued(ctx context.Context, installmentType string, amount decimal.Decimal)
	RecordPayableConfirmed(ctx context.Context, component string)
	RecordStatusChanged(ctx context.Context, from, to string)
}

// MetricsHandler turns order events into business metrics
type MetricsHandler struct {
	metrics FinancialMetrics
	logger  *zap.Logger
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metrics FinancialMetrics, logger *zap.Logger) *MetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsHandler{metrics: metrics, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		sales.EventTypeInstallmentConfirmed,
		sales.EventTypeCommissionAccrued,
		sales.EventTypeCostComponentConfirmed,
		sales.EventTypeOrderStatusChanged,
	}
}

// Handle records the metric matching the event
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.InstallmentConfirmedEvent:
		h.metrics.RecordInstallmentConfirmed(ctx, string(e.InstallmentType), e.Amount)
	case *sales.CommissionAccruedEvent:
		h.metrics.RecordCommissionAccrued(ctx, string(e.Type), e.Amount)
	case *sales.CostComponentConfirmedEvent:
		h.metrics.RecordPayableConfirmed(ctx, e.Component)
	case *sales.OrderStatusChangedEvent:
		h.metrics.RecordStatusChanged(ctx, string(e.FromStatus), string(e.ToStatus))
	default:
		h.logger.Error("unexpected event type",
			zap.String("handler", "MetricsHandler"),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}
