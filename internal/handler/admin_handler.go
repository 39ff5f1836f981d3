package handler

import (
	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/gin-gonic/gin"
)

// AdminReferenceHandler handles vocabulary maintenance.
type AdminReferenceHandler struct {
	service *application.ReferenceService
}

// NewAdminReferenceHandler creates a new AdminReferenceHandler.
func NewAdminReferenceHandler(service *application.ReferenceService) *AdminReferenceHandler {
	return &AdminReferenceHandler{service: service}
}

// RegisterRoutes registers admin reference routes.
func (h *AdminReferenceHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.POST("/reference/:kind", h.CreateItem)
		admin.PUT("/reference/:kind/:id", h.UpdateItem)
		admin.POST("/estimations", h.SaveEstimation)
	}
}

// CreateItem handles POST /api/v1/admin/reference/:kind.
func (h *AdminReferenceHandler) CreateItem(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	var req application.ReferenceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	item, err := h.service.Create(c.Request.Context(), kind, req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, item)
}

// UpdateItem handles PUT /api/v1/admin/reference/:kind/:id.
func (h *AdminReferenceHandler) UpdateItem(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req application.ReferenceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	item, err := h.service.Update(c.Request.Context(), kind, id, req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, item)
}

// SaveEstimation handles POST /api/v1/admin/estimations.
func (h *AdminReferenceHandler) SaveEstimation(c *gin.Context) {
	var req application.EstimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.service.SaveEstimation(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, result)
}
