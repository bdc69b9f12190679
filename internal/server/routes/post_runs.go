package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/OFFIS-RIT/gift/backend/internal/db"
	"github.com/OFFIS-RIT/gift/backend/internal/queue"
	"github.com/OFFIS-RIT/gift/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/gift/backend/internal/storage"
	"github.com/OFFIS-RIT/gift/backend/internal/util"
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/loader"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// CreateRunHandler creates a new run from a multipart dataset upload or an
// inline JSON unit list, stores the dataset in S3 and queues the run.
func CreateRunHandler(c echo.Context) error {
	type createRunBody struct {
		Name  string             `json:"name" form:"name" validate:"required"`
		Units []common.QueryUnit `json:"units,omitempty"`
	}

	type createRunResponse struct {
		Message string   `json:"message"`
		Run     *RunView `json:"run,omitempty"`
	}

	data := new(createRunBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createRunResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createRunResponse{
			Message: "Invalid request body",
		})
	}

	// Dataset content comes either from the uploaded file or from the
	// inline unit list.
	datasetName := "units.json"
	var datasetBytes []byte

	if file, err := c.FormFile("dataset"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, createRunResponse{
				Message: "Could not read uploaded dataset",
			})
		}
		defer src.Close()

		datasetBytes, err = io.ReadAll(src)
		if err != nil {
			return c.JSON(http.StatusBadRequest, createRunResponse{
				Message: "Could not read uploaded dataset",
			})
		}
		datasetName = filepath.Base(file.Filename)
	} else if len(data.Units) > 0 {
		encoded, err := json.Marshal(data.Units)
		if err != nil {
			return c.JSON(http.StatusBadRequest, createRunResponse{
				Message: "Invalid unit list",
			})
		}
		datasetBytes = encoded
	} else {
		return c.JSON(http.StatusBadRequest, createRunResponse{
			Message: "A dataset file or an inline unit list is required",
		})
	}

	units, err := loader.ParseDataset(datasetName, datasetBytes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, createRunResponse{
			Message: fmt.Sprintf("Invalid dataset: %v", err),
		})
	}

	publicID, err := util.NewPublicID()
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	correlationID, err := util.NewCorrelationID()
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	datasetKey := fmt.Sprintf("datasets/%s/%s", publicID, datasetName)
	outputPrefix := fmt.Sprintf("runs/%s", publicID)

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	if err := storage.PutFile(ctx, app.S3, datasetKey, bytes.NewReader(datasetBytes)); err != nil {
		logger.Error("[Server] Failed to store dataset", "run_id", publicID, "err", err)
		return c.String(http.StatusInternalServerError, "Failed to store dataset")
	}

	q := db.New(app.DBConn)
	run, err := q.CreateRun(ctx, db.CreateRunParams{
		PublicID:      publicID,
		Name:          strings.TrimSpace(data.Name),
		DatasetKey:    datasetKey,
		OutputPrefix:  outputPrefix,
		CorrelationID: correlationID,
	})
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	if err := q.SetRunQueryCount(ctx, db.SetRunQueryCountParams{
		PublicID:   publicID,
		QueryCount: int32(len(units)),
	}); err != nil {
		logger.Warn("[Server] Failed to set query count", "run_id", publicID, "err", err)
	}
	run.QueryCount = int32(len(units))

	message := queue.RunMessage{
		RunID:         run.ID,
		DatasetKey:    datasetKey,
		OutputPrefix:  outputPrefix,
		CorrelationID: correlationID,
	}
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	if err := queue.PublishFIFO(app.Queue, queue.RunQueue, msgBytes); err != nil {
		logger.Error("[Server] Failed to queue run", "run_id", publicID, "err", err)
		errText := "failed to queue run"
		_ = q.SetRunFailed(ctx, db.SetRunFailedParams{PublicID: publicID, ErrorText: &errText})
		return c.String(http.StatusInternalServerError, "Failed to queue run")
	}

	logger.Info("[Server] Run queued", "run_id", publicID, "queries", len(units))

	view := buildRunView(run, nil)
	return c.JSON(http.StatusCreated, createRunResponse{
		Message: "Run queued",
		Run:     &view,
	})
}
