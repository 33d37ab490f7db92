//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validExecutorSettings() *ExecutorSettings {
	return &ExecutorSettings{
		PythonPath:        "python3",
		BaseWorkDir:       "/tmp/runs",
		MaxConcurrentRuns: 4,
		MaxRunSeconds:     30,
		MaxOutputBytes:    200000,
		MaxMemoryBytes:    256 * 1024 * 1024,
	}
}

func TestExecutorSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*ExecutorSettings)
		expectedError bool
	}{
		{
			name:          "valid settings",
			mutate:        func(*ExecutorSettings) {},
			expectedError: false,
		},
		{
			name:          "missing python path",
			mutate:        func(s *ExecutorSettings) { s.PythonPath = "" },
			expectedError: true,
		},
		{
			name:          "missing base work dir",
			mutate:        func(s *ExecutorSettings) { s.BaseWorkDir = "" },
			expectedError: true,
		},
		{
			name:          "zero concurrent runs",
			mutate:        func(s *ExecutorSettings) { s.MaxConcurrentRuns = 0 },
			expectedError: true,
		},
		{
			name:          "excessive concurrent runs",
			mutate:        func(s *ExecutorSettings) { s.MaxConcurrentRuns = 128 },
			expectedError: true,
		},
		{
			name:          "run seconds above cap",
			mutate:        func(s *ExecutorSettings) { s.MaxRunSeconds = 601 },
			expectedError: true,
		},
		{
			name:          "output limit below floor",
			mutate:        func(s *ExecutorSettings) { s.MaxOutputBytes = 512 },
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := validExecutorSettings()
			tt.mutate(settings)
			err := settings.Validate()
			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
