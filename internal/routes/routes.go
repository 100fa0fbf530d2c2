package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"uptask/internal/handlers"
	"uptask/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	jwtSecret []byte,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// ---- public
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// ---- protected
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret))

	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/telegram", authHandler.LinkTelegram)

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.GET("/export", taskHandler.Export)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	return r
}
