package routes

import (
	"net/http"
	"path"

	"github.com/OFFIS-RIT/gift/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/gift/backend/internal/storage"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetRunArtifactsHandler lists the run's stored outputs with presigned
// download links.
func GetRunArtifactsHandler(c echo.Context) error {
	type artifact struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	type getRunArtifactsResponse struct {
		Artifacts []artifact `json:"artifacts"`
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
	app := c.(*middleware.AppContext).App

	keys, err := storage.ListFilesWithPrefix(ctx, app.S3, run.OutputPrefix+"/")
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	artifacts := make([]artifact, 0, len(keys))
	for _, key := range keys {
		url, err := storage.GenerateDownloadLink(ctx, app.S3, key)
		if err != nil {
			logger.Warn("[Server] Failed to presign artifact", "run_id", run.PublicID, "key", key, "err", err)
			continue
		}
		artifacts = append(artifacts, artifact{
			Name: path.Base(key),
			URL:  url,
		})
	}

	return c.JSON(http.StatusOK, getRunArtifactsResponse{Artifacts: artifacts})
}
