//go:build unit
// +build unit

package runs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRunMeta() *RunMeta {
	return &RunMeta{
		ID:              uuid.New().String(),
		DateTimeCreated: time.Now(),
		UserID:          uuid.New().String(),
		Status:          StatusPending,
		SourceName:      "main.py",
		SourceSize:      128,
	}
}

func TestRunMetaValidation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*RunMeta)
		expectedError bool
	}{
		{
			name:          "valid run",
			mutate:        func(*RunMeta) {},
			expectedError: false,
		},
		{
			name:          "invalid id",
			mutate:        func(r *RunMeta) { r.ID = "run-1" },
			expectedError: true,
		},
		{
			name:          "invalid status",
			mutate:        func(r *RunMeta) { r.Status = "cancelled" },
			expectedError: true,
		},
		{
			name:          "missing source name",
			mutate:        func(r *RunMeta) { r.SourceName = "" },
			expectedError: true,
		},
		{
			name:          "zero source size",
			mutate:        func(r *RunMeta) { r.SourceSize = 0 },
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := validRunMeta()
			tt.mutate(run)
			err := run.Validate()
			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRunMetaTerminal(t *testing.T) {
	run := validRunMeta()

	run.Status = StatusPending
	assert.False(t, run.Terminal())
	run.Status = StatusRunning
	assert.False(t, run.Terminal())

	run.Status = StatusSucceeded
	assert.True(t, run.Terminal())
	run.Status = StatusFailed
	assert.True(t, run.Terminal())
	run.Status = StatusTimedOut
	assert.True(t, run.Terminal())
}

func TestRunMetaQueryValidation(t *testing.T) {
	query := NewRunMetaQuery()
	require.NoError(t, query.Validate())

	query.Limit = 0
	require.Error(t, query.Validate())

	query = NewRunMetaQuery()
	query.Limit = maxQueryLimit + 1
	require.Error(t, query.Validate())

	query = NewRunMetaQuery()
	query.Status = "exploded"
	require.Error(t, query.Validate())

	query = NewRunMetaQuery()
	query.SortBy = "id; DROP TABLE runs"
	require.Error(t, query.Validate())

	query = NewRunMetaQuery()
	query.SortOrder = "sideways"
	require.Error(t, query.Validate())

	query = NewRunMetaQuery()
	query.Status = StatusSucceeded
	query.SortBy = "duration_ms"
	query.SortOrder = "asc"
	require.NoError(t, query.Validate())
}
