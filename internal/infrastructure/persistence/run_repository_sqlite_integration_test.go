//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"code_runner_service/internal/domain/runs"
	"code_runner_service/internal/infrastructure/persistence/models"
	"code_runner_service/internal/pkg/config"
	"code_runner_service/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRunRepository(t *testing.T) runs.RunRepository {
	t.Helper()
	log := testutil.SetupTestLogger(t)

	db, err := NewDBConnection(config.DatabaseSettings{Type: config.SqliteDbType})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := CloseDB(db); err != nil {
			t.Logf("failed to close db: %v", err)
		}
	})

	require.NoError(t, db.AutoMigrate(&models.RunModel{}))

	repo, err := NewGormRunRepository(db, log)
	require.NoError(t, err)
	return repo
}

func newPendingRun() *runs.RunMeta {
	return &runs.RunMeta{
		ID:              uuid.New().String(),
		DateTimeCreated: time.Now().UTC(),
		UserID:          uuid.New().String(),
		Status:          runs.StatusPending,
		SourceName:      "main.py",
		SourceSize:      64,
	}
}

func TestGormRunRepository_CreateAndGet(t *testing.T) {
	repo := setupRunRepository(t)
	ctx := context.Background()

	run := newPendingRun()
	require.NoError(t, repo.Create(ctx, run))

	fetched, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, fetched.ID)
	assert.Equal(t, runs.StatusPending, fetched.Status)
	assert.Equal(t, "main.py", fetched.SourceName)
}

func TestGormRunRepository_CreateRejectsInvalidEntity(t *testing.T) {
	repo := setupRunRepository(t)

	run := newPendingRun()
	run.Status = "unknown"
	err := repo.Create(context.Background(), run)
	require.Error(t, err)
}

func TestGormRunRepository_UpdatePersistsZeroValues(t *testing.T) {
	repo := setupRunRepository(t)
	ctx := context.Background()

	run := newPendingRun()
	require.NoError(t, repo.Create(ctx, run))

	exitCode := 0
	run.Status = runs.StatusSucceeded
	run.ExitCode = &exitCode
	run.DurationMs = 42
	run.OutputArtifactKey = "outputs/" + run.ID + ".txt"
	run.BundleArtifactKey = "bundles/" + run.ID + ".zip"
	require.NoError(t, repo.UpdateByID(ctx, run))

	fetched, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, runs.StatusSucceeded, fetched.Status)
	require.NotNil(t, fetched.ExitCode)
	assert.Equal(t, 0, *fetched.ExitCode)
	assert.Equal(t, int64(42), fetched.DurationMs)
}

func TestGormRunRepository_UpdateMissingRun(t *testing.T) {
	repo := setupRunRepository(t)

	run := newPendingRun()
	err := repo.UpdateByID(context.Background(), run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGormRunRepository_ListWithFilters(t *testing.T) {
	repo := setupRunRepository(t)
	ctx := context.Background()

	succeeded := newPendingRun()
	succeeded.Status = runs.StatusSucceeded
	succeeded.EntryPoint = "main.py"
	require.NoError(t, repo.Create(ctx, succeeded))

	failed := newPendingRun()
	failed.Status = runs.StatusFailed
	failed.EntryPoint = "app.py"
	require.NoError(t, repo.Create(ctx, failed))

	query := runs.NewRunMetaQuery()
	query.Status = runs.StatusSucceeded
	listed, err := repo.List(ctx, query)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, succeeded.ID, listed[0].ID)

	query = runs.NewRunMetaQuery()
	query.EntryPoint = "app.py"
	listed, err = repo.List(ctx, query)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, failed.ID, listed[0].ID)

	query = runs.NewRunMetaQuery()
	query.Limit = 1
	listed, err = repo.List(ctx, query)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestGormRunRepository_ListRejectsInvalidQuery(t *testing.T) {
	repo := setupRunRepository(t)

	query := runs.NewRunMetaQuery()
	query.SortBy = "id) --"
	_, err := repo.List(context.Background(), query)
	require.Error(t, err)
}

func TestGormRunRepository_DeleteByID(t *testing.T) {
	repo := setupRunRepository(t)
	ctx := context.Background()

	run := newPendingRun()
	require.NoError(t, repo.Create(ctx, run))
	require.NoError(t, repo.DeleteByID(ctx, run.ID))

	_, err := repo.GetByID(ctx, run.ID)
	require.Error(t, err)

	err = repo.DeleteByID(ctx, run.ID)
	require.Error(t, err)
}
