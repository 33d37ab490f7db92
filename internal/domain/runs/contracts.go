package runs

import (
	"context"
	"mime/multipart"
)

// RunSubmissionService defines methods for submitting code for execution.
type RunSubmissionService interface {
	// Submit stores the uploaded source, provisions dependencies, executes
	// the resolved entrypoint under resource limits and persists the run's
	// output and workspace bundle. It returns the metadata of the finished
	// run and any error encountered along the way.
	Submit(ctx context.Context, form *multipart.Form, userID string, entry string) (*RunMeta, error)
}

// RunMetadataService defines methods for retrieving and deleting run metadata.
type RunMetadataService interface {
	// List retrieves run metadata considering a query filter when set.
	List(ctx context.Context, query *RunMetaQuery) ([]*RunMeta, error)

	// GetByID retrieves the run metadata by ID.
	GetByID(ctx context.Context, runID string) (*RunMeta, error)

	// DeleteByID deletes a run's stored artifacts and metadata by ID.
	DeleteByID(ctx context.Context, runID string) error
}

// RunArtifactService defines methods for downloading stored run artifacts.
type RunArtifactService interface {
	// DownloadOutputByID retrieves the captured output of a run.
	DownloadOutputByID(ctx context.Context, runID string) ([]byte, error)

	// DownloadBundleByID retrieves the zipped workspace of a run.
	DownloadBundleByID(ctx context.Context, runID string) ([]byte, error)
}

// RunRepository defines the interface for run metadata persistence
type RunRepository interface {
	// Create adds a new RunMeta to the database
	Create(ctx context.Context, run *RunMeta) error
	// List lists RunMetas in the database with optional filter
	List(ctx context.Context, query *RunMetaQuery) ([]*RunMeta, error)
	// GetByID retrieves a RunMeta from the database by ID
	GetByID(ctx context.Context, runID string) (*RunMeta, error)
	// UpdateByID updates a RunMeta in the database by ID
	UpdateByID(ctx context.Context, run *RunMeta) error
	// DeleteByID deletes a RunMeta in the database by ID
	DeleteByID(ctx context.Context, runID string) error
}
