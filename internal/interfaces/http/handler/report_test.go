package handler

import (
	"net/http"
	"testing"

	reportapp "github.com/brindes/backend/internal/application/report"
	"github.com/brindes/backend/internal/domain/report"
	"github.com/brindes/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
)

func TestReportHandler_Monthly(t *testing.T) {
	env := newOrderEnv(t)
	svc := reportapp.NewReportService(
		persistence.NewGormOrderRepository(env.db),
		persistence.NewGormCommissionRepository(env.db),
		persistence.NewGormCompanyExpenseRepository(env.db),
		nil,
		nil,
	)
	env.api.GET("/reports/monthly", NewReportHandler(svc).Monthly)
	order := createOrder(t, env, "PED-3001")

	w := env.do(http.MethodGet, "/reports/monthly?year=2026&month=3", nil)
	requireStatus(t, w, http.StatusOK)
	var march report.MonthlyReport
	decodeData(t, w, &march)
	assert.Equal(t, 1, march.OrderCount)
	assert.True(t, order.TotalAmount.Equal(march.TotalSales), "sales %s", march.TotalSales)
	assert.Equal(t, report.DefaultCostPolicy, march.CostPolicy)

	w = env.do(http.MethodGet, "/reports/monthly?year=2026&month=4&cost_policy=realized", nil)
	requireStatus(t, w, http.StatusOK)
	var april report.MonthlyReport
	decodeData(t, w, &april)
	assert.Zero(t, april.OrderCount)

	for _, query := range []string{"?year=2026&month=13", "?month=3", "?year=2026&month=3&cost_policy=media"} {
		w := env.do(http.MethodGet, "/reports/monthly"+query, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}
