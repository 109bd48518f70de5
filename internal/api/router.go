// Package api - Router setup
package api

import (
	"time"

	"github.com/Ocarreno01/aira-back/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(authHandler *AuthHandler, projectHandler *ProjectHandler, negotiationHandler *NegotiationHandler, corsConfig config.CORSConfig) *gin.Engine {
	r := gin.Default()

	// When credentials are used, specific origins must be provided (not *)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsConfig.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: corsConfig.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Health check (no auth required)
	r.GET("/health", Health)

	requireAuth := authHandler.RequireAuth()

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", requireAuth, authHandler.Me)
	}

	projects := r.Group("/projects")
	projects.Use(requireAuth)
	{
		projects.GET("", projectHandler.List)
		projects.POST("", projectHandler.Create)
		projects.PUT("/:id", projectHandler.Update)
		projects.PATCH("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)

		// Reference lookups
		projects.GET("/clients", projectHandler.Clients)
		projects.GET("/sellers", projectHandler.Sellers)
		projects.GET("/statuses", projectHandler.Statuses)
		projects.GET("/types", projectHandler.Types)
		projects.GET("/statusWithBitacora", projectHandler.StatusWithBitacora)
	}

	negotiations := r.Group("/negotiations")
	negotiations.Use(requireAuth)
	{
		negotiations.GET("", negotiationHandler.List)
		negotiations.GET("/:id", negotiationHandler.Get)
		negotiations.POST("", negotiationHandler.Create)
		negotiations.POST("/:id/logs", negotiationHandler.AddLog)
	}

	return r
}
