package server

import (
	"github.com/OFFIS-RIT/gift/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/gift/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Run routes
	viewRuns := middleware.RequireAnyPermission("run.view", "run.view:all")
	apiRoutes.GET("/runs", routes.GetRunsHandler, viewRuns)
	apiRoutes.POST("/runs", routes.CreateRunHandler, middleware.RequirePermission("run.create"))
	apiRoutes.GET("/runs/:id", routes.GetRunHandler, viewRuns)
	apiRoutes.GET("/runs/:id/artifacts", routes.GetRunArtifactsHandler, viewRuns)
	apiRoutes.GET("/runs/:id/failed", routes.GetRunFailedQueriesHandler, viewRuns)
	apiRoutes.DELETE("/runs/:id", routes.DeleteRunHandler, middleware.RequirePermission("run.delete"))
}
