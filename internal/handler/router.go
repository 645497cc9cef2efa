package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/pkg/jwt"
	"github.com/william-rossi/pontocarro-api/pkg/middleware"
)

// NewRouter registers every route. Mutating routes go through the auth
// middleware; reads stay public.
func NewRouter(
	tokenManager jwt.TokenManager,
	userService domain.UserService,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	vehicleHandler *VehicleHandler,
	imageHandler *ImageHandler,
) *gin.Engine {
	r := gin.Default()

	authRequired := middleware.AuthMiddleware(tokenManager, userService.Exists)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh-token", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password/:resetToken", authHandler.ResetPassword)
	}

	user := r.Group("/user", authRequired)
	{
		user.PUT("/profile", userHandler.UpdateProfile)
		user.DELETE("/delete", userHandler.DeleteAccount)
	}

	vehicles := r.Group("/vehicles")
	{
		vehicles.GET("", vehicleHandler.List)
		vehicles.GET("/search", vehicleHandler.Search)
		vehicles.GET("/city-state", vehicleHandler.GetByCityState)
		vehicles.GET("/:id", vehicleHandler.Get)
		vehicles.GET("/:id/images", imageHandler.ListByVehicle)
		vehicles.GET("/:id/images/cover", imageHandler.Cover)
		vehicles.GET("/:id/images/:imageId", imageHandler.Get)

		vehicles.POST("", authRequired, vehicleHandler.Create)
		vehicles.PUT("/:id", authRequired, vehicleHandler.Update)
		vehicles.DELETE("/:id", authRequired, vehicleHandler.Delete)
		vehicles.POST("/:id/images", authRequired, imageHandler.Upload)
		vehicles.DELETE("/:id/images/:imageId", authRequired, imageHandler.Delete)
	}

	return r
}
