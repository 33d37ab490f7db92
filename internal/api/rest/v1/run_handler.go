package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"code_runner_service/internal/domain/execution"
	"code_runner_service/internal/domain/runs"
	"code_runner_service/internal/pkg/strutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RunHandler defines the interface for handling run-related operations
type RunHandler interface {
	Submit(ctx *gin.Context)
	ListMetadata(ctx *gin.Context)
	GetMetadataByID(ctx *gin.Context)
	DownloadOutputByID(ctx *gin.Context)
	DownloadBundleByID(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

type runHandler struct {
	runSubmissionService runs.RunSubmissionService
	runMetadataService   runs.RunMetadataService
	runArtifactService   runs.RunArtifactService
}

// NewRunHandler creates a new RunHandler
func NewRunHandler(runSubmissionService runs.RunSubmissionService, runMetadataService runs.RunMetadataService, runArtifactService runs.RunArtifactService) RunHandler {
	return &runHandler{
		runSubmissionService: runSubmissionService,
		runMetadataService:   runMetadataService,
		runArtifactService:   runArtifactService,
	}
}

// Submit accepts an uploaded source file or zip bundle and executes it
func (handler *runHandler) Submit(ctx *gin.Context) {
	userID := uuid.New().String() // TODO(code-runner): derive user id from the API key once keys become per-user

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid form data"))
		return
	}

	var entry string
	if entries := form.Value["entry"]; len(entries) > 0 {
		entry = entries[0]
	}

	runMeta, err := handler.runSubmissionService.Submit(ctx.Request.Context(), form, userID, entry)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, execution.ErrProvisionFailed) {
			status = http.StatusInternalServerError
		}
		ctx.JSON(status, errorResponse(fmt.Sprintf("error running submission: %v", err)))
		return
	}

	ctx.JSON(http.StatusCreated, newRunMetaResponse(runMeta))
}

// ListMetadata fetches run metadata optionally with query parameters
func (handler *runHandler) ListMetadata(ctx *gin.Context) {
	query := runs.NewRunMetaQuery()

	if status := ctx.Query("status"); len(status) > 0 {
		query.Status = status
	}

	if entryPoint := ctx.Query("entry"); len(entryPoint) > 0 {
		query.EntryPoint = entryPoint
	}

	if dateTimeCreated := ctx.Query("dateTimeCreated"); len(dateTimeCreated) > 0 {
		parsedTime, err := time.Parse(time.RFC3339, dateTimeCreated)
		if err == nil {
			query.DateTimeCreated = parsedTime
		}
	}

	if limit := ctx.Query("limit"); len(limit) > 0 {
		query.Limit = strutil.ConvertToInt(limit)
	}

	if offset := ctx.Query("offset"); len(offset) > 0 {
		query.Offset = strutil.ConvertToInt(offset)
	}

	if sortBy := ctx.Query("sortBy"); len(sortBy) > 0 {
		query.SortBy = sortBy
	}

	if sortOrder := ctx.Query("sortOrder"); len(sortOrder) > 0 {
		query.SortOrder = sortOrder
	}

	if err := query.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("validation failed: %v", err)))
		return
	}

	runMetas, err := handler.runMetadataService.List(ctx.Request.Context(), query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("list query failed: %v", err)))
		return
	}

	listResponse := make([]RunMetaResponse, 0, len(runMetas))
	for _, runMeta := range runMetas {
		listResponse = append(listResponse, newRunMetaResponse(runMeta))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// GetMetadataByID fetches run metadata by ID
func (handler *runHandler) GetMetadataByID(ctx *gin.Context) {
	runID := ctx.Param("id")

	runMeta, err := handler.runMetadataService.GetByID(ctx.Request.Context(), runID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("run with id %s not found", runID)))
		return
	}

	ctx.JSON(http.StatusOK, newRunMetaResponse(runMeta))
}

// DownloadOutputByID downloads a run's captured output
func (handler *runHandler) DownloadOutputByID(ctx *gin.Context) {
	runID := ctx.Param("id")

	data, err := handler.runArtifactService.DownloadOutputByID(ctx.Request.Context(), runID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("could not download output for run %s: %v", runID, err)))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.txt", runID))
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}

// DownloadBundleByID downloads a run's zipped workspace
func (handler *runHandler) DownloadBundleByID(ctx *gin.Context) {
	runID := ctx.Param("id")

	data, err := handler.runArtifactService.DownloadBundleByID(ctx.Request.Context(), runID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("could not download bundle for run %s: %v", runID, err)))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.zip", runID))
	ctx.Data(http.StatusOK, "application/zip", data)
}

// DeleteByID deletes a run and its stored artifacts by ID
func (handler *runHandler) DeleteByID(ctx *gin.Context) {
	runID := ctx.Param("id")

	if err := handler.runMetadataService.DeleteByID(ctx.Request.Context(), runID); err != nil {
		ctx.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("run with id %s not found", runID)))
		return
	}

	ctx.JSON(http.StatusNoContent, infoResponse(fmt.Sprintf("deleted run with id %s", runID)))
}
