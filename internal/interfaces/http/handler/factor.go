package handler

import (
	"strconv"

	salesapp "github.com/brindes/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// FactorHandler serves the markup factor catalog
type FactorHandler struct {
	BaseHandler
	factorService *salesapp.FactorService
}

// NewFactorHandler creates a new FactorHandler
func NewFactorHandler(factorService *salesapp.FactorService) *FactorHandler {
	return &FactorHandler{factorService: factorService}
}

// Create adds a markup factor
func (h *FactorHandler) Create(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	var req salesapp.CreateFactorRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.factorService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one markup factor
func (h *FactorHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.factorService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns all factors, or only active ones with ?active=true
func (h *FactorHandler) List(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid active flag")
			return
		}
		activeOnly = v
	}
	resp, err := h.factorService.List(c.Request.Context(), tenantID, activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update replaces a markup factor
func (h *FactorHandler) Update(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req salesapp.UpdateFactorRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.factorService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a markup factor
func (h *FactorHandler) Delete(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.factorService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SeedDefaults installs the default factor set on a tenant without factors
func (h *FactorHandler) SeedDefaults(c *gin.Context) {
	tenantID, ok := h.Tenant(c)
	if !ok {
		return
	}
	created, err := h.factorService.SeedDefaults(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"created": created})
}
