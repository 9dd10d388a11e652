package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap"
)

var testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// MockExpenseRepository is a mock implementation of CompanyExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CompanyExpense, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CompanyExpense), args.Error(1)
}

func (m *MockExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) ([]finance.CompanyExpense, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.CompanyExpense), args.Error(1)
}

func (m *MockExpenseRepository) SumForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *finance.CompanyExpense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newExpense(t *testing.T, amount string, paid bool) *finance.CompanyExpense {
	t.Helper()
	e, err := finance.NewCompanyExpense(testTenantID, finance.ExpenseInput{
		Description: "Aluguel galpão",
		Amount:      decimal.RequireFromString(amount),
		DueDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Paid:        paid,
	})
	require.NoError(t, err)
	e.DiscardEvents()
	return e
}

func TestExpenseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults category", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		publisher := new(MockEventPublisher)
		svc := NewExpenseService(repo, nil)
		svc.SetEventPublisher(publisher)
		repo.On("Save", ctx, mock.AnythingOfType("*finance.CompanyExpense")).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == finance.EventTypeCompanyExpenseCreated
		})).Return(nil)

		resp, err := svc.Create(ctx, testTenantID, CreateExpenseRequest{
			Description: "Contador",
			Amount:      decimal.RequireFromString("850.00"),
			DueDate:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, "FIXO", resp.Category)
		assert.False(t, resp.Paid)
		publisher.AssertExpectations(t)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewExpenseService(repo, nil)

		_, err := svc.Create(ctx, testTenantID, CreateExpenseRequest{
			Description: "Estorno",
			Amount:      decimal.RequireFromString("-10"),
			DueDate:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestExpenseService_List(t *testing.T) {
	ctx := context.Background()
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	repo := new(MockExpenseRepository)
	svc := NewExpenseService(repo, nil)
	svc.SetLocation(saoPaulo)

	expenses := []finance.CompanyExpense{
		*newExpense(t, "3000.00", true),
		*newExpense(t, "450.50", false),
		*newExpense(t, "120.00", false),
	}
	repo.On("FindAllForTenant", ctx, testTenantID, mock.MatchedBy(func(f finance.ExpenseFilter) bool {
		return f.From != nil && f.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, saoPaulo)) &&
			f.To != nil && f.To.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, saoPaulo)) &&
			f.Paid == nil
	})).Return(expenses, nil)

	resp, err := svc.List(ctx, testTenantID, ExpenseListFilter{Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 3)
	assert.True(t, decimal.RequireFromString("3000").Equal(resp.Paid))
	assert.True(t, decimal.RequireFromString("570.50").Equal(resp.Pending))

	_, err = svc.List(ctx, testTenantID, ExpenseListFilter{Month: 3})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestExpenseService_TogglePaid(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	svc := NewExpenseService(repo, nil)
	paidAt := time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return paidAt }

	expense := newExpense(t, "450.50", false)
	repo.On("FindByIDForTenant", ctx, testTenantID, expense.ID).Return(expense, nil)
	repo.On("Save", ctx, expense).Return(nil)

	resp, err := svc.TogglePaid(ctx, testTenantID, expense.ID)
	require.NoError(t, err)
	assert.True(t, resp.Paid)
	require.NotNil(t, resp.PaidAt)
	assert.True(t, paidAt.Equal(*resp.PaidAt))

	resp, err = svc.TogglePaid(ctx, testTenantID, expense.ID)
	require.NoError(t, err)
	assert.False(t, resp.Paid)
	assert.Nil(t, resp.PaidAt)
}

func TestExpenseService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	svc := NewExpenseService(repo, nil)
	id := uuid.New()
	repo.On("FindByIDForTenant", ctx, testTenantID, id).
		Return(nil, shared.NewDomainError(shared.CodeNotFound, "expense not found"))

	err := svc.Delete(ctx, testTenantID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestExpenseService_PublishFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.ErrorLevel)
	repo := new(MockExpenseRepository)
	publisher := new(MockEventPublisher)
	svc := NewExpenseService(repo, zap.New(core))
	svc.SetEventPublisher(publisher)

	repo.On("Save", ctx, mock.AnythingOfType("*finance.CompanyExpense")).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker unavailable"))

	resp, err := svc.Create(ctx, testTenantID, CreateExpenseRequest{
		Description: "Aluguel",
		Amount:      decimal.RequireFromString("3200.00"),
		DueDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Failed to publish expense events", entry.Message)
	assert.Equal(t, resp.ID.String(), entry.ContextMap()["expense_id"])
}
