package routes

import (
	"github.com/gin-gonic/gin"

	"cloudauth/internal/handlers"
	"cloudauth/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
) *gin.Engine {
	v1 := r.Group("/api/v1")

	// ---- public
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/send-verification", authHandler.SendVerification)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/token", authHandler.Token)
	}

	// ---- protected (JWT)
	users := v1.Group("/users", middleware.AuthMiddleware())
	{
		users.GET("/me", userHandler.Me)
	}

	return r
}
