package report

import (
	"context"
	"time"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/brindes/backend/internal/domain/report"
	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CacheRecorder counts report cache lookups
type CacheRecorder interface {
	RecordReportCache(ctx context.Context, hit bool)
}

// MonthlyReportRequest selects the month and cost policy of a report
type MonthlyReportRequest struct {
	Year       int    `form:"year" binding:"required,min=2000,max=2100"`
	Month      int    `form:"month" binding:"required,min=1,max=12"`
	CostPolicy string `form:"cost_policy" binding:"omitempty,oneof=realized_or_estimated estimated realized"`
}

// ReportService builds the monthly financial report. Reports are cached
// per tenant, month and cost policy; domain events drop the cache.
type ReportService struct {
	orderRepo      sales.OrderRepository
	commissionRepo sales.CommissionRepository
	expenseRepo    finance.CompanyExpenseRepository
	cache          report.Cache
	recorder       CacheRecorder
	defaultPolicy  report.CostPolicy
	cacheTTL       time.Duration
	location       *time.Location
	logger         *zap.Logger
}

// NewReportService creates a new ReportService. cache may be nil.
func NewReportService(
	orderRepo sales.OrderRepository,
	commissionRepo sales.CommissionRepository,
	expenseRepo finance.CompanyExpenseRepository,
	cache report.Cache,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		orderRepo:      orderRepo,
		commissionRepo: commissionRepo,
		expenseRepo:    expenseRepo,
		cache:          cache,
		defaultPolicy:  report.DefaultCostPolicy,
		location:       time.UTC,
		logger:         logger,
	}
}

// SetCacheRecorder sets the cache hit/miss recorder
func (s *ReportService) SetCacheRecorder(recorder CacheRecorder) {
	s.recorder = recorder
}

// SetDefaultCostPolicy sets the policy used when a request names none
func (s *ReportService) SetDefaultCostPolicy(policy report.CostPolicy) {
	if policy != "" {
		s.defaultPolicy = policy
	}
}

// SetCacheTTL sets how long computed reports stay cached. Zero uses the
// cache default.
func (s *ReportService) SetCacheTTL(ttl time.Duration) {
	s.cacheTTL = ttl
}

// SetLocation sets the business time zone that months are cut in
func (s *ReportService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// Monthly returns the report of one month
func (s *ReportService) Monthly(ctx context.Context, tenantID uuid.UUID, req MonthlyReportRequest) (*report.MonthlyReport, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, shared.NewValidationError("month must be between 1 and 12")
	}
	policy := s.defaultPolicy
	if req.CostPolicy != "" {
		parsed, err := report.ParseCostPolicy(req.CostPolicy)
		if err != nil {
			return nil, err
		}
		policy = parsed
	}

	key := report.CacheKey{TenantID: tenantID, Year: req.Year, Month: time.Month(req.Month), Policy: policy}
	if cached := s.cached(ctx, key); cached != nil {
		return cached, nil
	}

	var (
		r   *report.MonthlyReport
		err error
	)
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "monthly",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID),
		telemetry.WithAttribute(telemetry.SpanAttrReportPeriod, time.Date(key.Year, key.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")),
		telemetry.WithAttribute(telemetry.SpanAttrCostPolicy, string(policy)),
	)
	telemetry.WithProfileLabels(ctx, func(ctx context.Context) {
		r, err = s.build(ctx, key)
	}, "operation", "monthly_report", "cost_policy", string(policy))
	telemetry.RecordError(span, err)
	span.End()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, r, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache monthly report", zap.String("key", key.String()), zap.Error(err))
		}
	}
	return r, nil
}

func (s *ReportService) cached(ctx context.Context, key report.CacheKey) *report.MonthlyReport {
	if s.cache == nil {
		return nil
	}
	r, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Report cache lookup failed", zap.String("key", key.String()), zap.Error(err))
	}
	if s.recorder != nil {
		s.recorder.RecordReportCache(ctx, r != nil)
	}
	return r
}

func (s *ReportService) build(ctx context.Context, key report.CacheKey) (*report.MonthlyReport, error) {
	from, to := finance.MonthRange(key.Year, key.Month, s.location)

	filter := shared.Unpaged()
	filter.OrderBy = "order_date"
	filter.OrderDir = "asc"
	filter.Filters["from"] = from
	filter.Filters["to"] = to
	orders, err := s.orderRepo.FindAllForTenant(ctx, key.TenantID, filter)
	if err != nil {
		return nil, err
	}

	commissions, err := s.commissionRepo.SumForTenant(ctx, key.TenantID, sales.CommissionFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.SumForTenant(ctx, key.TenantID, from, to)
	if err != nil {
		return nil, err
	}

	return report.BuildMonthlyReport(report.MonthlyInput{
		Year:        key.Year,
		Month:       key.Month,
		Policy:      key.Policy,
		Orders:      orders,
		Commissions: commissions,
		Expenses:    expenses,
	}), nil
}
