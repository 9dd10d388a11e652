package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Business metric names
const (
	MetricInstallmentConfirmed     = "orders_installment_confirmed_total"
	MetricInstallmentAmount        = "orders_installment_confirmed_amount"
	MetricCommissionAccrued        = "orders_commission_accrued_total"
	MetricCommissionAmount         = "orders_commission_accrued_amount"
	MetricPayableConfirmed         = "orders_payable_confirmed_total"
	MetricStatusChanged            = "orders_status_changed_total"
	MetricPrivilegedTransitionDeny = "orders_privileged_transition_denied_total"
	MetricReportCache              = "orders_report_cache_total"
)

// BusinessMetrics counts the financial events of the order engine.
// Money is exported as float counters in BRL; the ledger itself stays decimal.
type BusinessMetrics struct {
	logger *zap.Logger

	installmentConfirmed *Counter
	installmentAmount    *FloatCounter
	commissionAccrued    *Counter
	commissionAmount     *FloatCounter
	payableConfirmed     *Counter
	statusChanged        *Counter
	transitionDenied     *Counter
	reportCache          *Counter
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics registers the business instruments on cfg.Meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}
	var err error

	counters := map[**Counter]Instrument{
		&bm.installmentConfirmed: {Name: MetricInstallmentConfirmed, Description: "Receivable installments confirmed", Unit: "{installment}"},
		&bm.commissionAccrued:    {Name: MetricCommissionAccrued, Description: "Commission rows accrued", Unit: "{commission}"},
		&bm.payableConfirmed:     {Name: MetricPayableConfirmed, Description: "Payable cost components confirmed", Unit: "{component}"},
		&bm.statusChanged:        {Name: MetricStatusChanged, Description: "Order lifecycle transitions", Unit: "{transition}"},
		&bm.transitionDenied:     {Name: MetricPrivilegedTransitionDeny, Description: "Privileged status transitions refused to non-administrators", Unit: "{transition}"},
		&bm.reportCache:          {Name: MetricReportCache, Description: "Monthly report cache lookups", Unit: "{lookup}"},
	}
	for target, in := range counters {
		if *target, err = NewCounter(cfg.Meter, in); err != nil {
			return nil, err
		}
	}

	if bm.installmentAmount, err = NewFloatCounter(cfg.Meter, Instrument{
		Name: MetricInstallmentAmount, Description: "Amount received through confirmed installments", Unit: "{BRL}",
	}); err != nil {
		return nil, err
	}
	if bm.commissionAmount, err = NewFloatCounter(cfg.Meter, Instrument{
		Name: MetricCommissionAmount, Description: "Commission amount accrued", Unit: "{BRL}",
	}); err != nil {
		return nil, err
	}
	return bm, nil
}

func amountFloat(amount decimal.Decimal) float64 {
	f, _ := amount.Float64()
	return f
}

// RecordInstallmentConfirmed counts a confirmed ENTRADA or RESTANTE installment
func (bm *BusinessMetrics) RecordInstallmentConfirmed(ctx context.Context, installmentType string, amount decimal.Decimal) {
	attr := AttrInstallmentType.String(installmentType)
	bm.installmentConfirmed.Inc(ctx, attr)
	if amount.IsPositive() {
		bm.installmentAmount.Add(ctx, amountFloat(amount), attr)
	}
}

// RecordCommissionAccrued counts a commission row that was actually inserted
func (bm *BusinessMetrics) RecordCommissionAccrued(ctx context.Context, installmentType string, amount decimal.Decimal) {
	attr := AttrInstallmentType.String(installmentType)
	bm.commissionAccrued.Inc(ctx, attr)
	if amount.IsPositive() {
		bm.commissionAmount.Add(ctx, amountFloat(amount), attr)
	}
}

// RecordPayableConfirmed counts a paid cost component
func (bm *BusinessMetrics) RecordPayableConfirmed(ctx context.Context, component string) {
	bm.payableConfirmed.Inc(ctx, AttrComponent.String(component))
}

// RecordStatusChanged counts a lifecycle transition
func (bm *BusinessMetrics) RecordStatusChanged(ctx context.Context, from, to string) {
	bm.statusChanged.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to))
}

// RecordPrivilegedTransitionDenied counts a refused move into a privileged status
func (bm *BusinessMetrics) RecordPrivilegedTransitionDenied(ctx context.Context, from, to string) {
	bm.transitionDenied.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to))
}

// RecordReportCache counts a monthly report cache hit or miss
func (bm *BusinessMetrics) RecordReportCache(ctx context.Context, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	bm.reportCache.Inc(ctx, AttrCacheResult.String(result))
}

// ErrMeterNil is returned when an instrument set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")
