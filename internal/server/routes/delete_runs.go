package routes

import (
	"fmt"
	"net/http"

	"github.com/OFFIS-RIT/gift/backend/internal/db"
	"github.com/OFFIS-RIT/gift/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/gift/backend/internal/storage"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// DeleteRunHandler removes a run's row, its dataset and its artifacts.
func DeleteRunHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	run, ok, err := fetchRun(c)
	if !ok {
		return err
	}

	if run.Status == db.RunStatusProcessing {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Run is currently processing"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	if err := storage.DeleteFolder(ctx, app.S3, fmt.Sprintf("datasets/%s/", run.PublicID)); err != nil {
		logger.Warn("[Server] Failed to delete run dataset", "run_id", run.PublicID, "err", err)
	}
	if err := storage.DeleteFolder(ctx, app.S3, run.OutputPrefix+"/"); err != nil {
		logger.Warn("[Server] Failed to delete run artifacts", "run_id", run.PublicID, "err", err)
	}

	q := db.New(app.DBConn)
	if err := q.DeleteRun(ctx, run.PublicID); err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	logger.Info("[Server] Run deleted", "run_id", run.PublicID)
	return c.JSON(http.StatusOK, map[string]string{"message": "Run deleted"})
}
