package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/william-rossi/pontocarro-api/internal/apperror"
	"github.com/william-rossi/pontocarro-api/internal/validation"
)

// respondError maps an AppError to its status and `{message, [errors]}` body.
// Anything else becomes an opaque 500; no internal detail leaks to clients.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body := gin.H{"message": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		c.JSON(appErr.StatusCode(), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro interno do servidor"})
}

// respondBindingError shapes request-body validation failures.
func respondBindingError(c *gin.Context, err error) {
	respondError(c, validation.AsAppError(err))
}

// paramID parses a numeric path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return 0, false
	}
	return uint(id), true
}
