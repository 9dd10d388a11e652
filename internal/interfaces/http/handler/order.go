package handler

import (
	salesapp "github.com/brindes/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler serves the sales order endpoints: save, the payment and
// cost confirmations, status changes and the receivables/payables views.
type OrderHandler struct {
	BaseHandler
	orderService *salesapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *salesapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create saves a new order. POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	tenantID, actor, ok := h.TenantAndActor(c)
	if !ok {
		return
	}
	var req salesapp.SaveOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.ID = nil

	resp, err := h.orderService.SaveOrder(c.Request.Context(), tenantID, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update saves an existing order. The path id wins over any id in the
// body. PUT /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	tenantID, actor, ok := h.TenantAndActor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req salesapp.SaveOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.ID = &id

	resp, err := h.orderService.SaveOrder(c.Request.Context(), tenantID, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByID returns one order with its ledger and settlement
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.orderService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of orders
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	var filter salesapp.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	clientID, ok := h.QueryUUID(c, "client_id")
	if !ok {
		return
	}
	filter.ClientID = clientID

	items, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Delete removes an order with its commissions and audit trail
func (h *OrderHandler) Delete(c *gin.Context) {
	tenantID, actor, ok := h.TenantAndActor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), tenantID, actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmInstallment confirms receipt of the entry or the remainder.
// POST /orders/:id/installments/confirm
func (h *OrderHandler) ConfirmInstallment(c *gin.Context) {
	tenantID, actor, ok := h.TenantAndActor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req salesapp.ConfirmInstallmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.ConfirmInstallment(c.Request.Context(), tenantID, actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ConfirmPayable marks a cost component as paid.
// POST /orders/:id/payables/confirm
func (h *OrderHandler) ConfirmPayable(c *gin.Context) {
	tenantID, actor, ok := h.TenantAndActor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req salesapp.ConfirmPayableRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.ConfirmPayable(c.Request.Context(), tenantID, actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetRealizedCost records a realized cost value. PUT /orders/:id/costs
func (h *OrderHandler) SetRealizedCost(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req salesapp.SetRealizedCostRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.SetRealizedCost(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeStatus moves the order to another production status.
// POST /orders/:id/status
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	tenantID, actor, ok := h.TenantAndActor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req salesapp.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.ChangeStatus(c.Request.Context(), tenantID, actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Settlement returns the estimated and real balances of an order
func (h *OrderHandler) Settlement(c *gin.Context) {
	h.withOrder(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.orderService.Settlement(c.Request.Context(), tenantID, id)
	})
}

// AuditLog returns the audit trail of an order, newest first
func (h *OrderHandler) AuditLog(c *gin.Context) {
	h.withOrder(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.orderService.AuditLog(c.Request.Context(), tenantID, id)
	})
}

// Receivables lists installments. GET /receivables?filter=pending
func (h *OrderHandler) Receivables(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	resp, err := h.orderService.Receivables(c.Request.Context(), tenantID, c.Query("filter"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Payables lists cost components. GET /payables?filter=pending
func (h *OrderHandler) Payables(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	resp, err := h.orderService.Payables(c.Request.Context(), tenantID, c.Query("filter"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *OrderHandler) withOrder(c *gin.Context, fn func(tenantID, id uuid.UUID) (any, error)) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := fn(tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
