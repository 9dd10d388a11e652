package handler

import (
	reportapp "github.com/brindes/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the monthly financial report
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Monthly returns sales, costs, commissions, expenses and net result of
// one month. GET /reports/monthly?year=2026&month=3&cost_policy=realized
func (h *ReportHandler) Monthly(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	var req reportapp.MonthlyReportRequest
	if !h.BindQuery(c, &req) {
		return
	}
	resp, err := h.reportService.Monthly(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
