package routes

import (
	"net/http"
	"time"

	"github.com/OFFIS-RIT/gift/backend/internal/db"
	"github.com/OFFIS-RIT/gift/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/gift/backend/internal/util"

	"github.com/labstack/echo/v4"
)

// RunView is the API representation of a run row. Internal identifiers and
// storage keys stay server-side.
type RunView struct {
	RunID      string            `json:"run_id"`
	Name       string            `json:"name"`
	Status     string            `json:"status"`
	Stage      *string           `json:"stage,omitempty"`
	QueryCount int32             `json:"query_count"`
	ErrorText  *string           `json:"error_text,omitempty"`
	Progress   *util.RunProgress `json:"progress,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func buildRunView(run db.Run, progress *util.RunProgress) RunView {
	return RunView{
		RunID:      run.PublicID,
		Name:       run.Name,
		Status:     run.Status,
		Stage:      run.Stage,
		QueryCount: run.QueryCount,
		ErrorText:  run.ErrorText,
		Progress:   progress,
		CreatedAt:  run.CreatedAt,
		UpdatedAt:  run.UpdatedAt,
	}
}

// fetchRun resolves the :id path parameter to a run row. The boolean is
// false when a response has already been written.
func fetchRun(c echo.Context) (db.Run, bool, error) {
	publicID := c.Param("id")
	if publicID == "" {
		return db.Run{}, false, c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing run id"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	run, err := q.GetRunByPublicID(ctx, publicID)
	if err != nil {
		return db.Run{}, false, c.JSON(http.StatusNotFound, map[string]string{"error": "Run not found"})
	}

	return run, true, nil
}
