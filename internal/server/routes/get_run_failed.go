package routes

import (
	"net/http"
	"time"

	"github.com/OFFIS-RIT/gift/backend/internal/db"
	"github.com/OFFIS-RIT/gift/backend/internal/server/middleware"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetRunFailedQueriesHandler returns the queries the extraction could not
// turn into valid fragments.
func GetRunFailedQueriesHandler(c echo.Context) error {
	type failedQuery struct {
		Query     string    `json:"query"`
		Answer    string    `json:"answer"`
		Reason    string    `json:"reason,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	type getRunFailedResponse struct {
		FailedQueries []failedQuery `json:"failed_queries"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	run, ok, err := fetchRun(c)
	if !ok {
		return err
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	rows, err := q.GetRunFailedQueries(ctx, run.ID)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	failed := make([]failedQuery, 0, len(rows))
	for _, row := range rows {
		failed = append(failed, failedQuery{
			Query:     row.Query,
			Answer:    row.Answer,
			Reason:    row.Reason,
			CreatedAt: row.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, getRunFailedResponse{FailedQueries: failed})
}
