package v1

import (
	"fmt"
	"time"

	"code_runner_service/internal/domain/runs"
)

// ErrorResponse carries a user-facing error message
type ErrorResponse struct {
	Message *string `json:"message,omitempty"`
}

// InfoResponse carries a user-facing informational message
type InfoResponse struct {
	Message *string `json:"message,omitempty"`
}

// RunMetaResponse is the API representation of run metadata
type RunMetaResponse struct {
	ID              string    `json:"id"`
	DateTimeCreated time.Time `json:"dateTimeCreated"`
	UserID          string    `json:"userId"`
	Status          string    `json:"status"`
	SourceName      string    `json:"sourceName"`
	SourceSize      int64     `json:"sourceSize"`
	EntryPoint      string    `json:"entryPoint,omitempty"`
	ExitCode        *int      `json:"exitCode,omitempty"`
	DurationMs      int64     `json:"durationMs"`
	OutputTruncated bool      `json:"outputTruncated"`
	OutputURL       string    `json:"outputUrl,omitempty"`
	BundleURL       string    `json:"bundleUrl,omitempty"`
}

// newRunMetaResponse maps a domain entity onto the API shape, pointing
// artifact URLs at this API's own download endpoints.
func newRunMetaResponse(runMeta *runs.RunMeta) RunMetaResponse {
	response := RunMetaResponse{
		ID:              runMeta.ID,
		DateTimeCreated: runMeta.DateTimeCreated,
		UserID:          runMeta.UserID,
		Status:          runMeta.Status,
		SourceName:      runMeta.SourceName,
		SourceSize:      runMeta.SourceSize,
		EntryPoint:      runMeta.EntryPoint,
		ExitCode:        runMeta.ExitCode,
		DurationMs:      runMeta.DurationMs,
		OutputTruncated: runMeta.OutputTruncated,
	}
	if runMeta.OutputArtifactKey != "" {
		response.OutputURL = fmt.Sprintf("%s/runs/%s/output", BasePath, runMeta.ID)
	}
	if runMeta.BundleArtifactKey != "" {
		response.BundleURL = fmt.Sprintf("%s/runs/%s/bundle", BasePath, runMeta.ID)
	}
	return response
}

func errorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: &message}
}

func infoResponse(message string) InfoResponse {
	return InfoResponse{Message: &message}
}
