package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCompanyExpenseRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCompanyExpenseRepository(db)
	ctx := context.Background()

	inputs := []finance.ExpenseInput{
		{Description: "Aluguel", Amount: dec("3000"), DueDate: march(5)},
		{Description: "Internet", Amount: dec("150.90"), DueDate: march(20)},
		{Description: "Contador", Amount: dec("800"), DueDate: time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, in := range inputs {
		expense, err := finance.NewCompanyExpense(repoTenant, in)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, expense))
	}

	from, to := finance.MonthRange(2026, time.March, time.UTC)

	t.Run("lists the month by due date", func(t *testing.T) {
		expenses, err := repo.FindAllForTenant(ctx, repoTenant, finance.ExpenseFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, "Aluguel", expenses[0].Description)
		assert.Equal(t, "Internet", expenses[1].Description)
	})

	t.Run("sums the month", func(t *testing.T) {
		total, err := repo.SumForTenant(ctx, repoTenant, from, to)
		require.NoError(t, err)
		assert.True(t, dec("3150.90").Equal(total), "total %s", total)
	})

	t.Run("sum of an empty month is zero", func(t *testing.T) {
		emptyFrom, emptyTo := finance.MonthRange(2025, time.January, time.UTC)
		total, err := repo.SumForTenant(ctx, repoTenant, emptyFrom, emptyTo)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("toggles paid", func(t *testing.T) {
		expenses, err := repo.FindAllForTenant(ctx, repoTenant, finance.ExpenseFilter{})
		require.NoError(t, err)
		expense := expenses[0]
		expense.TogglePaid(march(6))
		require.NoError(t, repo.Save(ctx, &expense))

		paid := true
		paidOnly, err := repo.FindAllForTenant(ctx, repoTenant, finance.ExpenseFilter{Paid: &paid})
		require.NoError(t, err)
		require.Len(t, paidOnly, 1)
		assert.Equal(t, expense.ID, paidOnly[0].ID)
		require.NotNil(t, paidOnly[0].PaidAt)
	})

	t.Run("delete", func(t *testing.T) {
		expenses, err := repo.FindAllForTenant(ctx, repoTenant, finance.ExpenseFilter{})
		require.NoError(t, err)
		require.NoError(t, repo.DeleteForTenant(ctx, repoTenant, expenses[2].ID))
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, repoTenant, expenses[2].ID), shared.ErrNotFound)
	})
}
