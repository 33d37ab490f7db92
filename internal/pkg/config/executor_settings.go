package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ExecutorSettings holds configuration for sandboxed run execution
type ExecutorSettings struct {
	PythonPath        string `mapstructure:"python_path" validate:"required"`
	BaseWorkDir       string `mapstructure:"base_work_dir" validate:"required"`
	MaxConcurrentRuns int    `mapstructure:"max_concurrent_runs" validate:"required,min=1,max=64"`
	MaxRunSeconds     int    `mapstructure:"max_run_seconds" validate:"required,min=1,max=600"`
	MaxOutputBytes    int64  `mapstructure:"max_output_bytes" validate:"required,min=1024"`
	MaxMemoryBytes    int64  `mapstructure:"max_memory_bytes" validate:"required,min=1048576"`
	KeepWorkspaces    bool   `mapstructure:"keep_workspaces"`
}

// Validate checks that all fields in ExecutorSettings are valid
func (s *ExecutorSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ExecutorSettings: %w", err)
	}

	return nil
}
