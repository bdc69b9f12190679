package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/OFFIS-RIT/gift/backend/internal/db"
	"github.com/OFFIS-RIT/gift/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/gift/backend/internal/storage"
	"github.com/OFFIS-RIT/gift/backend/pkg/graph"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetRunHandler returns one run. For completed runs the persisted graph
// statistics are fetched from the artifact store and embedded.
func GetRunHandler(c echo.Context) error {
	type getRunResponse struct {
		Run        RunView      `json:"run"`
		Statistics *graph.Stats `json:"statistics,omitempty"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	run, ok, err := fetchRun(c)
	if !ok {
		return err
	}

	response := getRunResponse{Run: buildRunView(run, runProgressFor(c, run))}

	if run.Status == db.RunStatusCompleted {
		ctx := c.Request().Context()
		app := c.(*middleware.AppContext).App

		statsKey := fmt.Sprintf("%s/stats.json", run.OutputPrefix)
		statsBytes, err := storage.GetFile(ctx, app.S3, statsKey)
		if err != nil {
			logger.Warn("[Server] Failed to fetch run statistics", "run_id", run.PublicID, "err", err)
		} else {
			stats := new(graph.Stats)
			if err := json.Unmarshal(statsBytes, stats); err != nil {
				logger.Warn("[Server] Failed to parse run statistics", "run_id", run.PublicID, "err", err)
			} else {
				response.Statistics = stats
			}
		}
	}

	return c.JSON(http.StatusOK, response)
}
