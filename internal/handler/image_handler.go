package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/pkg/util"
)

// ImageHandler handles per-listing image HTTP requests.
type ImageHandler struct {
	service domain.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(service domain.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

// Upload handles POST /vehicles/:id/images (multipart field "images").
func (h *ImageHandler) Upload(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Não autenticado"})
		return
	}
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Requisição multipart inválida"})
		return
	}
	files := form.File["images"]

	images, err := h.service.Upload(c.Request.Context(), vehicleID, userID, files)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"images": images})
}

// ListByVehicle handles GET /vehicles/:id/images.
func (h *ImageHandler) ListByVehicle(c *gin.Context) {
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}
	images, err := h.service.ListByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// Get handles GET /vehicles/:id/images/:imageId.
func (h *ImageHandler) Get(c *gin.Context) {
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}
	imageID, ok := paramID(c, "imageId")
	if !ok {
		return
	}
	image, err := h.service.Get(c.Request.Context(), vehicleID, imageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// Cover handles GET /vehicles/:id/images/cover.
func (h *ImageHandler) Cover(c *gin.Context) {
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}
	image, err := h.service.Cover(c.Request.Context(), vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// Delete handles DELETE /vehicles/:id/images/:imageId.
func (h *ImageHandler) Delete(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Não autenticado"})
		return
	}
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}
	imageID, ok := paramID(c, "imageId")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), vehicleID, imageID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Imagem excluída com sucesso"})
}
