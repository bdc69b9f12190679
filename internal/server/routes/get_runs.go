package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/gift/backend/internal/db"
	"github.com/OFFIS-RIT/gift/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/gift/backend/internal/timing"
	"github.com/OFFIS-RIT/gift/backend/internal/util"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetRunsHandler lists all runs with their stage progress and, for runs in
// flight, a duration estimate derived from past stage stats.
func GetRunsHandler(c echo.Context) error {
	type getRunsResponse struct {
		Runs []RunView `json:"runs"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	runs, err := q.ListRuns(ctx)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	views := make([]RunView, 0, len(runs))
	for _, run := range runs {
		progress := runProgressFor(c, run)
		views = append(views, buildRunView(run, progress))
	}

	return c.JSON(http.StatusOK, getRunsResponse{Runs: views})
}

func runProgressFor(c echo.Context, run db.Run) *util.RunProgress {
	if run.Status != db.RunStatusProcessing && run.Status != db.RunStatusQueued {
		return nil
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn

	var estimatedMs, remainingMs int64
	if run.QueryCount > 0 {
		estimated, err := timing.PredictRunProcessingTime(ctx, int64(run.QueryCount), timing.StatTypeGraph, conn)
		if err == nil && estimated > 0 {
			estimatedMs = estimated
			percentage := util.CalculateRunProgressPercentage(run)
			remainingMs = estimatedMs * int64(100-percentage) / 100
		}
	}

	progress := util.BuildRunProgress(run, estimatedMs, remainingMs)
	return &progress
}
