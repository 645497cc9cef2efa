package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/william-rossi/pontocarro-api/pkg/jwt"
	"github.com/william-rossi/pontocarro-api/pkg/util"
)

// UserExistsFunc reports whether the user referenced by a token still exists.
// Tokens of deleted accounts must stop authorizing requests.
type UserExistsFunc func(ctx context.Context, userID uint) (bool, error)

// AuthMiddleware returns a Gin middleware that validates the bearer token and
// injects the authenticated user id into the context.
func AuthMiddleware(tokenManager jwt.TokenManager, userExists UserExistsFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token de acesso ausente ou inválido"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokenManager.ValidateAccessToken(tokenString)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token de acesso expirado"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token de acesso inválido"})
			return
		}
		if userExists != nil {
			ok, err := userExists(c.Request.Context(), claims.UserID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Erro interno do servidor"})
				return
			}
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Usuário não encontrado"})
				return
			}
		}
		// Inject identity into context for downstream ownership checks
		util.SetUserID(c, claims.UserID)
		c.Next()
	}
}
