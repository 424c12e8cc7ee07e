package routes

import (
	"github.com/Cyvadra/farewatch/internal/handlers"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, historyHandler *handlers.HistoryHandler) {
	// API routes
	api := r.Group("/api/v1")
	{
		api.GET("/routes", historyHandler.GetRoutes)

		checks := api.Group("/checks")
		{
			checks.GET("", historyHandler.GetChecks)
			checks.GET("/latest", historyHandler.GetLatestCheck)
			checks.POST("/run", historyHandler.RunCheck)
		}

		api.GET("/alerts", historyHandler.GetAlerts)
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "farewatch",
		})
	})

	// Root endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Fare Watch",
			"version": "1.0.0",
			"endpoints": gin.H{
				"routes": "/api/v1/routes",
				"checks": "/api/v1/checks",
				"alerts": "/api/v1/alerts",
				"health": "/health",
			},
		})
	})
}
