package sales

import (
	"context"
	"time"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionService reads accrued commissions. Commissions are written only
// by order commits.
type CommissionService struct {
	commissionRepo sales.CommissionRepository
	location       *time.Location
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(commissionRepo sales.CommissionRepository) *CommissionService {
	return &CommissionService{commissionRepo: commissionRepo, location: time.UTC}
}

// SetLocation sets the timezone month boundaries are computed in
func (s *CommissionService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// List returns the matching commissions with their total and per-salesperson sums
func (s *CommissionService) List(ctx context.Context, tenantID uuid.UUID, filter CommissionListFilter) (*CommissionListResponse, error) {
	domainFilter, err := s.toDomainFilter(filter)
	if err != nil {
		return nil, err
	}

	commissions, err := s.commissionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	response := &CommissionListResponse{
		Items: make([]CommissionResponse, len(commissions)),
		Total: decimal.Zero,
	}
	for i := range commissions {
		response.Items[i] = ToCommissionResponse(&commissions[i])
		response.Total = response.Total.Add(commissions[i].Amount)
	}
	summaries := sales.SummarizeBySalesperson(commissions)
	response.BySalesperson = make([]SalespersonCommissionResponse, len(summaries))
	for i, sum := range summaries {
		response.BySalesperson[i] = SalespersonCommissionResponse{
			Salesperson: sum.Salesperson,
			Total:       sum.Total,
			Count:       sum.Count,
		}
	}
	return response, nil
}

func (s *CommissionService) toDomainFilter(filter CommissionListFilter) (sales.CommissionFilter, error) {
	out := sales.CommissionFilter{
		Salesperson: filter.Salesperson,
		Status:      sales.CommissionStatus(filter.Status),
		OrderID:     filter.OrderID,
	}
	if filter.Status != "" && !out.Status.IsValid() {
		return out, shared.NewValidationError("commission status must be PENDING or PAID")
	}
	switch {
	case filter.Year == 0 && filter.Month == 0:
	case filter.Year == 0 || filter.Month < 1 || filter.Month > 12:
		return out, shared.NewValidationError("year and month must be given together")
	default:
		from, to := finance.MonthRange(filter.Year, time.Month(filter.Month), s.location)
		out.From = &from
		out.To = &to
	}
	return out, nil
}
