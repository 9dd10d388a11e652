package handler

import (
	partnerapp "github.com/brindes/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// PartnerHandler serves clients and suppliers
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// Create registers a client or supplier
func (h *PartnerHandler) Create(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	var req partnerapp.CreatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.partnerService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one partner
func (h *PartnerHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.partnerService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of partners, optionally of one type
func (h *PartnerHandler) List(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	var filter partnerapp.PartnerListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.partnerService.List(c.Request.Context(), tenantID, filter)
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

// Update replaces the editable fields of a partner
func (h *PartnerHandler) Update(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.partnerService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a partner that no order references
func (h *PartnerHandler) Delete(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.partnerService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
