package handler

import (
	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/gin-gonic/gin"
)

// UserHandler exposes the catalogue's copy of users and their memberships.
type UserHandler struct {
	service *application.MembershipService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *application.MembershipService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers user routes.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/users/:id", h.GetUser)
}

// GetUser handles GET /api/v1/users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}
