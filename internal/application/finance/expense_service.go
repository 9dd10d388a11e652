package finance

import (
	"context"
	"time"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpenseService manages company expenses, the overhead bills the monthly
// report subtracts from the margin
type ExpenseService struct {
	expenseRepo    finance.CompanyExpenseRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	location       *time.Location
	now            func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.CompanyExpenseRepository, logger *zap.Logger) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{
		expenseRepo: expenseRepo,
		location:    time.UTC,
		now:         time.Now,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLocation sets the business time zone that month filters are cut in
func (s *ExpenseService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// Create registers a new expense
func (s *ExpenseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := finance.NewCompanyExpense(tenantID, finance.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Paid:        req.Paid,
		Category:    finance.ExpenseCategory(req.Category),
		Observation: req.Observation,
	})
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.publish(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// List returns the expenses matching the filter by due date, with totals
func (s *ExpenseService) List(ctx context.Context, tenantID uuid.UUID, filter ExpenseListFilter) (*ExpenseListResponse, error) {
	domainFilter := finance.ExpenseFilter{Paid: filter.Paid}
	switch {
	case filter.Year > 0 && filter.Month > 0:
		from, to := finance.MonthRange(filter.Year, time.Month(filter.Month), s.location)
		domainFilter.From, domainFilter.To = &from, &to
	case filter.Year > 0 || filter.Month > 0:
		return nil, shared.NewValidationError("year and month must be given together")
	}

	expenses, err := s.expenseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	resp := &ExpenseListResponse{
		Items:   make([]ExpenseResponse, len(expenses)),
		Paid:    decimal.Zero,
		Pending: decimal.Zero,
	}
	for i := range expenses {
		resp.Items[i] = ToExpenseResponse(&expenses[i])
		if expenses[i].Paid {
			resp.Paid = resp.Paid.Add(expenses[i].Amount)
		} else {
			resp.Pending = resp.Pending.Add(expenses[i].Amount)
		}
	}
	return resp, nil
}

// TogglePaid flips the paid flag of an expense
func (s *ExpenseService) TogglePaid(ctx context.Context, tenantID, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	expense.TogglePaid(s.now())
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.publish(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	expense.RecordEvent(finance.NewCompanyExpenseDeletedEvent(expense))
	s.publish(ctx, expense)
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, expense *finance.CompanyExpense) {
	events := expense.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish expense events",
			zap.String("expense_id", expense.ID.String()),
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}
