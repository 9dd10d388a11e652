package handler

import (
	financeapp "github.com/brindes/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler serves company expenses
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Create records an expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	var req financeapp.CreateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.expenseService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns the expenses of a month with paid and pending totals.
// GET /expenses?year=2026&month=3&paid=false
func (h *ExpenseHandler) List(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	var filter financeapp.ExpenseListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	resp, err := h.expenseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// TogglePaid flips the paid flag of an expense
func (h *ExpenseHandler) TogglePaid(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.expenseService.TogglePaid(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.expenseService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
