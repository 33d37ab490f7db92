package v1

import (
	"net/http"
	"time"

	"code_runner_service/internal/domain/runs"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	runSubmissionService runs.RunSubmissionService,
	runMetadataService runs.RunMetadataService,
	runArtifactService runs.RunArtifactService,
	apiKey string,
	requestTimeout time.Duration) {

	v1 := r.Group(BasePath)
	v1.Use(APIKeyAuth(apiKey))
	v1.Use(RequestTimeout(requestTimeout))

	// Runs Routes
	runHandler := NewRunHandler(runSubmissionService, runMetadataService, runArtifactService)
	v1.POST("/runs", runHandler.Submit)
	v1.GET("/runs", runHandler.ListMetadata)
	v1.GET("/runs/:id", runHandler.GetMetadataByID)
	v1.GET("/runs/:id/output", runHandler.DownloadOutputByID)
	v1.GET("/runs/:id/bundle", runHandler.DownloadBundleByID)
	v1.DELETE("/runs/:id", runHandler.DeleteByID)

	// Liveness probe
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
