package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/brindes/backend/internal/domain/report"
	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type MockFinancialMetrics struct {
	mock.Mock
}

func (m *MockFinancialMetrics) RecordInstallmentConfirmed(ctx context.Context, installmentType string, amount decimal.Decimal) {
	m.Called(ctx, installmentType, amount)
}

func (m *MockFinancialMetrics) RecordCommissionAccrued(ctx context.Context, installmentType string, amount decimal.Decimal) {
	m.Called(ctx, installmentType, amount)
}

func (m *MockFinancialMetrics) RecordPayableConfirmed(ctx context.Context, component string) {
	m.Called(ctx, component)
}

func (m *MockFinancialMetrics) RecordStatusChanged(ctx context.Context, from, to string) {
	m.Called(ctx, from, to)
}

type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, key report.CacheKey) (*report.MonthlyReport, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.MonthlyReport), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, key report.CacheKey, r *report.MonthlyReport, ttl time.Duration) error {
	return m.Called(ctx, key, r, ttl).Error(0)
}

func (m *MockReportCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *MockReportCache) Close() error {
	return m.Called().Error(0)
}

func base(eventType string) shared.EventHeader {
	return shared.NewEventHeader(eventType, sales.AggregateTypeOrder, uuid.New(), testTenantID)
}

func TestMetricsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	metrics := new(MockFinancialMetrics)
	h := NewMetricsHandler(metrics, nil)
	amount := decimal.RequireFromString("67.50")

	metrics.On("RecordInstallmentConfirmed", ctx, "ENTRY", amount).Once()
	metrics.On("RecordCommissionAccrued", ctx, "ENTRY", decimal.RequireFromString("0.68")).Once()
	metrics.On("RecordPayableConfirmed", ctx, "unit_price").Once()
	metrics.On("RecordStatusChanged", ctx, "EM ABERTO", "EM PRODUÇÃO").Once()

	events := []shared.DomainEvent{
		&sales.InstallmentConfirmedEvent{
			EventHeader: base(sales.EventTypeInstallmentConfirmed),
			InstallmentType: sales.InstallmentEntry,
			Amount:          amount,
		},
		&sales.CommissionAccruedEvent{
			EventHeader: base(sales.EventTypeCommissionAccrued),
			Type:            sales.InstallmentEntry,
			Amount:          decimal.RequireFromString("0.68"),
		},
		&sales.CostComponentConfirmedEvent{
			EventHeader: base(sales.EventTypeCostComponentConfirmed),
			Component:       "unit_price",
		},
		&sales.OrderStatusChangedEvent{
			EventHeader: base(sales.EventTypeOrderStatusChanged),
			FromStatus:      sales.StatusOpen,
			ToStatus:        sales.StatusInProduction,
		},
	}
	for _, e := range events {
		require.NoError(t, h.Handle(ctx, e))
	}
	metrics.AssertExpectations(t)
}

func TestMetricsHandler_UnexpectedEvent(t *testing.T) {
	h := NewMetricsHandler(new(MockFinancialMetrics), nil)
	err := h.Handle(context.Background(), &sales.OrderDeletedEvent{EventHeader: base(sales.EventTypeOrderDeleted)})
	assert.Error(t, err)
}

func TestReportCacheInvalidationHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("covers order and expense events", func(t *testing.T) {
		h := NewReportCacheInvalidationHandler(new(MockReportCache), nil)
		assert.Contains(t, h.EventTypes(), sales.EventTypeCommissionAccrued)
		assert.Contains(t, h.EventTypes(), finance.EventTypeCompanyExpensePaidToggled)
	})

	t.Run("invalidates the event tenant", func(t *testing.T) {
		cache := new(MockReportCache)
		h := NewReportCacheInvalidationHandler(cache, nil)
		cache.On("InvalidateTenant", ctx, testTenantID).Return(nil).Once()

		require.NoError(t, h.Handle(ctx, &sales.OrderSavedEvent{EventHeader: base(sales.EventTypeOrderSaved)}))
		cache.AssertExpectations(t)
	})

	t.Run("propagates cache failures", func(t *testing.T) {
		cache := new(MockReportCache)
		h := NewReportCacheInvalidationHandler(cache, nil)
		cache.On("InvalidateTenant", ctx, testTenantID).Return(errors.New("redis down"))

		err := h.Handle(ctx, &sales.OrderSavedEvent{EventHeader: base(sales.EventTypeOrderSaved)})
		assert.EqualError(t, err, "redis down")
	})
}
