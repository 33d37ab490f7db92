// Package app implements the domain service contracts, orchestrating
// workspaces, provisioning, execution, artifact storage and persistence.
package app

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"code_runner_service/internal/domain/artifacts"
	"code_runner_service/internal/domain/execution"
	"code_runner_service/internal/domain/runs"
	"code_runner_service/internal/pkg/logger"
	"code_runner_service/internal/pkg/workers"

	"github.com/google/uuid"
)

// WorkspaceManager is the slice of workspace behavior the services need.
type WorkspaceManager interface {
	Create(runID string) (string, error)
	SaveUpload(dir string, header *multipart.FileHeader) (string, error)
	IsZip(path string) bool
	ExtractZip(dir, archivePath string) error
	Bundle(dir string) ([]byte, error)
	Remove(dir string) error
}

// runSubmissionService implements the RunSubmissionService interface
type runSubmissionService struct {
	runRepository     runs.RunRepository
	artifactConnector artifacts.ArtifactConnector
	executor          execution.Executor
	provisioner       execution.Provisioner
	workspaces        WorkspaceManager
	pool              *workers.Pool
	limits            execution.Limits
	keepWorkspaces    bool
	logger            logger.Logger
}

// NewRunSubmissionService creates a new instance of RunSubmissionService
func NewRunSubmissionService(
	runRepository runs.RunRepository,
	artifactConnector artifacts.ArtifactConnector,
	executor execution.Executor,
	provisioner execution.Provisioner,
	workspaces WorkspaceManager,
	pool *workers.Pool,
	limits execution.Limits,
	keepWorkspaces bool,
	logger logger.Logger,
) (runs.RunSubmissionService, error) {
	return &runSubmissionService{
		runRepository:     runRepository,
		artifactConnector: artifactConnector,
		executor:          executor,
		provisioner:       provisioner,
		workspaces:        workspaces,
		pool:              pool,
		limits:            limits,
		keepWorkspaces:    keepWorkspaces,
		logger:            logger,
	}, nil
}

// Submit stores the upload, provisions dependencies, executes the resolved
// entrypoint and persists the run's output and workspace bundle.
func (s *runSubmissionService) Submit(ctx context.Context, form *multipart.Form, userID string, entry string) (*runs.RunMeta, error) {
	header, err := singleFileHeader(form)
	if err != nil {
		return nil, err
	}

	runMeta := &runs.RunMeta{
		ID:              uuid.New().String(),
		DateTimeCreated: time.Now().UTC(),
		UserID:          userID,
		Status:          runs.StatusPending,
		SourceName:      header.Filename,
		SourceSize:      header.Size,
	}
	if err := s.runRepository.Create(ctx, runMeta); err != nil {
		return nil, fmt.Errorf("failed to persist run metadata: %w", err)
	}

	dir, err := s.workspaces.Create(runMeta.ID)
	if err != nil {
		s.markFailed(ctx, runMeta)
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer s.cleanup(dir)

	savedPath, err := s.workspaces.SaveUpload(dir, header)
	if err != nil {
		s.markFailed(ctx, runMeta)
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	if s.workspaces.IsZip(savedPath) {
		if err := s.workspaces.ExtractZip(dir, savedPath); err != nil {
			s.markFailed(ctx, runMeta)
			return nil, fmt.Errorf("failed to extract archive: %w", err)
		}
	}

	// Queue waiting counts against the caller's deadline
	if err := s.pool.Acquire(ctx); err != nil {
		s.markFailed(ctx, runMeta)
		return nil, err
	}
	defer s.pool.Release()

	runMeta.Status = runs.StatusRunning
	if err := s.runRepository.UpdateByID(ctx, runMeta); err != nil {
		s.logger.Warn("failed to mark run ", runMeta.ID, " running: ", err)
	}

	interpreter, err := s.provisioner.Provision(ctx, dir)
	if err != nil {
		s.markFailed(ctx, runMeta)
		return nil, err
	}

	entryPoint, err := execution.ResolveEntrypoint(dir, entry)
	if err != nil {
		s.markFailed(ctx, runMeta)
		return nil, err
	}
	runMeta.EntryPoint = entryPoint

	result, err := s.executor.Execute(ctx, &execution.Request{
		WorkspaceDir: dir,
		EntryPoint:   entryPoint,
		Interpreter:  interpreter,
	})
	if err != nil {
		s.markFailed(ctx, runMeta)
		return nil, fmt.Errorf("failed to execute run: %w", err)
	}

	output, truncated := execution.ComposeOutput(result, s.limits.MaxRunSeconds, s.limits.MaxOutputBytes)

	outputKey := fmt.Sprintf("outputs/%s.txt", runMeta.ID)
	if _, err := s.artifactConnector.Upload(ctx, outputKey, output); err != nil {
		s.markFailed(ctx, runMeta)
		return nil, fmt.Errorf("failed to store output artifact: %w", err)
	}

	bundle, err := s.workspaces.Bundle(dir)
	if err != nil {
		s.markFailed(ctx, runMeta)
		return nil, fmt.Errorf("failed to bundle workspace: %w", err)
	}

	bundleKey := fmt.Sprintf("bundles/%s.zip", runMeta.ID)
	if _, err := s.artifactConnector.Upload(ctx, bundleKey, bundle); err != nil {
		s.markFailed(ctx, runMeta)
		return nil, fmt.Errorf("failed to store bundle artifact: %w", err)
	}

	exitCode := result.ExitCode
	runMeta.Status = finalStatus(result)
	runMeta.ExitCode = &exitCode
	runMeta.DurationMs = result.Duration.Milliseconds()
	runMeta.OutputTruncated = truncated
	runMeta.OutputArtifactKey = outputKey
	runMeta.BundleArtifactKey = bundleKey

	if err := s.runRepository.UpdateByID(context.WithoutCancel(ctx), runMeta); err != nil {
		return nil, fmt.Errorf("failed to finalize run metadata: %w", err)
	}

	s.logger.Info("run finished",
		" run_id=", runMeta.ID,
		" status=", runMeta.Status,
		" exit_code=", exitCode,
		" duration_ms=", runMeta.DurationMs)
	return runMeta, nil
}

func (s *runSubmissionService) markFailed(ctx context.Context, runMeta *runs.RunMeta) {
	// The failure is often the caller's context expiring (queue wait past
	// the request deadline, client disconnect); the terminal status must
	// still reach the database or the run is stranded in pending/running.
	ctx = context.WithoutCancel(ctx)
	runMeta.Status = runs.StatusFailed
	if err := s.runRepository.UpdateByID(ctx, runMeta); err != nil {
		s.logger.Error("failed to mark run ", runMeta.ID, " failed: ", err)
	}
}

func (s *runSubmissionService) cleanup(dir string) {
	if s.keepWorkspaces {
		return
	}
	if err := s.workspaces.Remove(dir); err != nil {
		s.logger.Warn("failed to remove workspace ", dir, ": ", err)
	}
}

func singleFileHeader(form *multipart.Form) (*multipart.FileHeader, error) {
	if form == nil || len(form.File["file"]) == 0 {
		return nil, fmt.Errorf("no file provided in upload request")
	}
	return form.File["file"][0], nil
}

func finalStatus(result *execution.Result) string {
	switch {
	case result.TimedOut:
		return runs.StatusTimedOut
	case result.ExitCode == 0:
		return runs.StatusSucceeded
	default:
		return runs.StatusFailed
	}
}

// runMetadataService implements the RunMetadataService interface
type runMetadataService struct {
	runRepository     runs.RunRepository
	artifactConnector artifacts.ArtifactConnector
	logger            logger.Logger
}

// NewRunMetadataService creates a new instance of RunMetadataService
func NewRunMetadataService(runRepository runs.RunRepository, artifactConnector artifacts.ArtifactConnector, logger logger.Logger) (runs.RunMetadataService, error) {
	return &runMetadataService{
		runRepository:     runRepository,
		artifactConnector: artifactConnector,
		logger:            logger,
	}, nil
}

// List retrieves run metadata considering a query filter when set.
func (s *runMetadataService) List(ctx context.Context, query *runs.RunMetaQuery) ([]*runs.RunMeta, error) {
	return s.runRepository.List(ctx, query)
}

// GetByID retrieves the run metadata by ID.
func (s *runMetadataService) GetByID(ctx context.Context, runID string) (*runs.RunMeta, error) {
	return s.runRepository.GetByID(ctx, runID)
}

// DeleteByID deletes a run's stored artifacts and metadata by ID.
func (s *runMetadataService) DeleteByID(ctx context.Context, runID string) error {
	runMeta, err := s.runRepository.GetByID(ctx, runID)
	if err != nil {
		return err
	}

	// Artifact removal is best effort; metadata is the source of truth
	for _, key := range []string{runMeta.OutputArtifactKey, runMeta.BundleArtifactKey} {
		if key == "" {
			continue
		}
		if err := s.artifactConnector.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete artifact ", key, ": ", err)
		}
	}

	return s.runRepository.DeleteByID(ctx, runID)
}

// runArtifactService implements the RunArtifactService interface
type runArtifactService struct {
	runRepository     runs.RunRepository
	artifactConnector artifacts.ArtifactConnector
	logger            logger.Logger
}

// NewRunArtifactService creates a new instance of RunArtifactService
func NewRunArtifactService(runRepository runs.RunRepository, artifactConnector artifacts.ArtifactConnector, logger logger.Logger) (runs.RunArtifactService, error) {
	return &runArtifactService{
		runRepository:     runRepository,
		artifactConnector: artifactConnector,
		logger:            logger,
	}, nil
}

// DownloadOutputByID retrieves the captured output of a run.
func (s *runArtifactService) DownloadOutputByID(ctx context.Context, runID string) ([]byte, error) {
	return s.downloadByKey(ctx, runID, func(r *runs.RunMeta) string { return r.OutputArtifactKey })
}

// DownloadBundleByID retrieves the zipped workspace of a run.
func (s *runArtifactService) DownloadBundleByID(ctx context.Context, runID string) ([]byte, error) {
	return s.downloadByKey(ctx, runID, func(r *runs.RunMeta) string { return r.BundleArtifactKey })
}

func (s *runArtifactService) downloadByKey(ctx context.Context, runID string, keyOf func(*runs.RunMeta) string) ([]byte, error) {
	runMeta, err := s.runRepository.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	key := keyOf(runMeta)
	if key == "" {
		return nil, fmt.Errorf("run %s has no stored artifact", runID)
	}

	return s.artifactConnector.Download(ctx, key)
}
