package handler

import (
	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/aidanjbailey/anidopt/internal/domain/link"
	"github.com/gin-gonic/gin"
)

// AnimalHandler handles HTTP requests for animal operations.
type AnimalHandler struct {
	service *application.AnimalService
}

// NewAnimalHandler creates a new AnimalHandler.
func NewAnimalHandler(service *application.AnimalService) *AnimalHandler {
	return &AnimalHandler{service: service}
}

// RegisterRoutes registers all animal routes.
func (h *AnimalHandler) RegisterRoutes(r *gin.RouterGroup) {
	animals := r.Group("/api/v1/animals")
	{
		animals.GET("", h.ListAnimals)
		animals.POST("", h.CreateAnimal)
		animals.GET("/:id", h.GetAnimal)
		animals.HEAD("/:id", h.AnimalExists)
		animals.PUT("/:id", h.UpdateAnimal)
		animals.DELETE("/:id", h.DeleteAnimal)

		animals.POST("/:id/pictures", h.AddPicture)
		animals.DELETE("/:id/pictures/:pictureId", h.RemovePicture)

		animals.PUT("/:id/descriptors/:targetId", h.associate(link.KindDescriptor))
		animals.DELETE("/:id/descriptors/:targetId", h.dissociate(link.KindDescriptor))
		animals.PUT("/:id/colours/:targetId", h.associate(link.KindColour))
		animals.DELETE("/:id/colours/:targetId", h.dissociate(link.KindColour))
	}
}

// ListAnimals handles GET /api/v1/animals.
func (h *AnimalHandler) ListAnimals(c *gin.Context) {
	result, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// GetAnimal handles GET /api/v1/animals/:id.
func (h *AnimalHandler) GetAnimal(c *gin.Context) {
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

// AnimalExists handles HEAD /api/v1/animals/:id.
func (h *AnimalHandler) AnimalExists(c *gin.Context) {
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

// CreateAnimal handles POST /api/v1/animals.
func (h *AnimalHandler) CreateAnimal(c *gin.Context) {
	var req application.AnimalRequest
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

// UpdateAnimal handles PUT /api/v1/animals/:id.
func (h *AnimalHandler) UpdateAnimal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req application.AnimalRequest
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

// DeleteAnimal handles DELETE /api/v1/animals/:id. Deleting an absent
// animal succeeds with deleted=false.
func (h *AnimalHandler) DeleteAnimal(c *gin.Context) {
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

// AddPicture handles POST /api/v1/animals/:id/pictures.
func (h *AnimalHandler) AddPicture(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req application.PictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.service.AddPicture(c.Request.Context(), id, req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, result)
}

// RemovePicture handles DELETE /api/v1/animals/:id/pictures/:pictureId.
func (h *AnimalHandler) RemovePicture(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pictureID, ok := parseID(c, "pictureId")
	if !ok {
		return
	}
	removed, err := h.service.RemovePicture(c.Request.Context(), id, pictureID)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"deleted": removed})
}

func (h *AnimalHandler) associate(kind link.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		targetID, ok := parseID(c, "targetId")
		if !ok {
			return
		}
		if err := h.service.Associate(c.Request.Context(), id, kind, targetID); err != nil {
			Error(c, err)
			return
		}
		Created(c, gin.H{"kind": kind, "owner_id": id, "target_id": targetID})
	}
}

func (h *AnimalHandler) dissociate(kind link.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		targetID, ok := parseID(c, "targetId")
		if !ok {
			return
		}
		if err := h.service.Dissociate(c.Request.Context(), id, kind, targetID); err != nil {
			Error(c, err)
			return
		}
		Success(c, gin.H{"kind": kind, "owner_id": id, "target_id": targetID})
	}
}
