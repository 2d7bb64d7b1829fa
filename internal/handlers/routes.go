package handlers

import (
	"github.com/alimgiray/langscope/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Routes groups the handlers served by the API
type Routes struct {
	Health    *HealthHandler
	Languages *LanguagesHandler
	Jobs      *JobsHandler
	Reports   *ReportsHandler
	NotFound  *NotFoundHandler
}

// SetupRoutes registers every route on router. Everything but the health
// check sits behind the API token when one is configured.
func SetupRoutes(router *gin.Engine, routes Routes, apiToken string) {
	router.GET("/health", routes.Health.HealthCheck)

	api := router.Group("/")
	api.Use(middleware.TokenRequired(apiToken))
	{
		api.GET("/users/:login/languages", routes.Languages.GetLanguages)
		api.POST("/users/:login/analyses", routes.Jobs.CreateAnalysis)
		api.GET("/users/:login/reports", routes.Reports.ListReports)
		api.GET("/jobs/:id", routes.Jobs.GetJob)
		api.GET("/reports/:id", routes.Reports.GetReport)
		api.GET("/reports/:id/export.xlsx", routes.Reports.ExportReport)
	}

	router.NoRoute(routes.NotFound.NotFound)
}
