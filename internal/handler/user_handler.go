package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/pkg/util"
)

// UserHandler handles profile mutation and account deletion.
type UserHandler struct {
	service domain.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service domain.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateProfile handles PUT /user/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Não autenticado"})
		return
	}
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteAccount handles DELETE /user/delete.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Não autenticado"})
		return
	}
	if err := h.service.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conta excluída com sucesso"})
}
