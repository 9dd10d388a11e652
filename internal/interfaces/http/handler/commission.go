package handler

import (
	salesapp "github.com/brindes/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// CommissionHandler serves the accrued commission listing
type CommissionHandler struct {
	BaseHandler
	commissionService *salesapp.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService *salesapp.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

// List returns commissions with per-salesperson totals.
// GET /commissions?year=2026&month=3&salesperson=VENDAS%2001
func (h *CommissionHandler) List(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	var filter salesapp.CommissionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	orderID, ok := h.QueryUUID(c, "order_id")
	if !ok {
		return
	}
	filter.OrderID = orderID

	resp, err := h.commissionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
