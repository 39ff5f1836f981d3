package handler

import (
	"strconv"

	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/aidanjbailey/anidopt/internal/domain/reference"
	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the vocabularies as option lists.
type ReferenceHandler struct {
	service *application.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(service *application.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// RegisterRoutes registers the read-only reference routes.
func (h *ReferenceHandler) RegisterRoutes(r *gin.RouterGroup) {
	refs := r.Group("/api/v1/reference")
	{
		refs.GET("", h.ListKinds)
		refs.GET("/:kind", h.List)
		refs.GET("/:kind/:id", h.Get)
	}
	r.GET("/api/v1/estimations", h.Estimate)
}

// ListKinds handles GET /api/v1/reference.
func (h *ReferenceHandler) ListKinds(c *gin.Context) {
	Success(c, reference.Kinds)
}

// List handles GET /api/v1/reference/:kind.
func (h *ReferenceHandler) List(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	items, err := h.service.List(c.Request.Context(), kind)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, items)
}

// Get handles GET /api/v1/reference/:kind/:id.
func (h *ReferenceHandler) Get(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), kind, id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, item)
}

// Estimate handles GET /api/v1/estimations?breed_id=&sex_id=.
func (h *ReferenceHandler) Estimate(c *gin.Context) {
	breedID, err1 := strconv.ParseUint(c.Query("breed_id"), 10, 0)
	sexID, err2 := strconv.ParseUint(c.Query("sex_id"), 10, 0)
	if err1 != nil || err2 != nil {
		BadRequest(c, "breed_id and sex_id are required")
		return
	}
	result, err := h.service.Estimate(c.Request.Context(), uint(breedID), uint(sexID))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

func parseKind(c *gin.Context) (reference.Kind, bool) {
	kind, err := reference.ParseKind(c.Param("kind"))
	if err != nil {
		BadRequest(c, err.Error())
		return "", false
	}
	return kind, true
}
