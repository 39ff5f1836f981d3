package handler

import (
	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/gin-gonic/gin"
)

// OrganisationHandler handles HTTP requests for organisation operations.
type OrganisationHandler struct {
	service *application.OrganisationService
}

// NewOrganisationHandler creates a new OrganisationHandler.
func NewOrganisationHandler(service *application.OrganisationService) *OrganisationHandler {
	return &OrganisationHandler{service: service}
}

// RegisterRoutes registers all organisation routes.
func (h *OrganisationHandler) RegisterRoutes(r *gin.RouterGroup) {
	orgs := r.Group("/api/v1/organisations")
	{
		orgs.GET("", h.ListOrganisations)
		orgs.POST("", h.CreateOrganisation)
		orgs.GET("/:id", h.GetOrganisation)
		orgs.HEAD("/:id", h.OrganisationExists)
		orgs.PUT("/:id", h.UpdateOrganisation)
		orgs.DELETE("/:id", h.DeleteOrganisation)
	}
}

// ListOrganisations handles GET /api/v1/organisations.
func (h *OrganisationHandler) ListOrganisations(c *gin.Context) {
	result, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// GetOrganisation handles GET /api/v1/organisations/:id.
func (h *OrganisationHandler) GetOrganisation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// OrganisationExists handles HEAD /api/v1/organisations/:id.
func (h *OrganisationHandler) OrganisationExists(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	exists, err := h.service.ExistsByID(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	existenceStatus(c, exists)
}

// CreateOrganisation handles POST /api/v1/organisations.
func (h *OrganisationHandler) CreateOrganisation(c *gin.Context) {
	var req application.OrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, result)
}

// UpdateOrganisation handles PUT /api/v1/organisations/:id.
func (h *OrganisationHandler) UpdateOrganisation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req application.OrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// DeleteOrganisation handles DELETE /api/v1/organisations/:id.
func (h *OrganisationHandler) DeleteOrganisation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"deleted": deleted})
}
