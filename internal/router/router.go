package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/miguel-sanchez/PomodoroPal/internal/handler"
	"github.com/miguel-sanchez/PomodoroPal/internal/middleware"
	"github.com/miguel-sanchez/PomodoroPal/internal/service"
)

// New assembles the session backend API.
func New(
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	sessionHandler *handler.SessionHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	api := engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	sessions := api.Group("/sessions")
	sessions.Use(middleware.OptionalAuth(authService))
	sessions.GET("", sessionHandler.List)
	sessions.POST("", sessionHandler.Create)
	sessions.PUT("/:id", sessionHandler.Update)

	api.GET("/stats", sessionHandler.Stats)

	return engine
}
