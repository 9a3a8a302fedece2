package routes

import (
	"github.com/gin-gonic/gin"

	"contactbook/internal/handlers"
	"contactbook/internal/middleware"
	"contactbook/internal/repositories"
	"contactbook/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	contactHandler *handlers.ContactHandler,
	tokens *services.TokenService,
	users repositories.UserRepository,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/confirm/:token", authHandler.ConfirmEmail)
		auth.POST("/request-confirmation", authHandler.RequestConfirmation)
	}

	// ---- protected
	api := r.Group("/api", middleware.AuthMiddleware(tokens, users))
	{
		contacts := api.Group("/contacts")
		{
			contacts.POST("", contactHandler.Create)
			contacts.GET("", contactHandler.List)
			contacts.GET("/search", contactHandler.Search)
			contacts.GET("/birthdays", contactHandler.UpcomingBirthdays)
			contacts.GET("/export", contactHandler.Export)
			contacts.GET("/:id", contactHandler.GetByID)
			contacts.PUT("/:id", contactHandler.Update)
			contacts.DELETE("/:id", contactHandler.Delete)
		}
	}

	return r
}
