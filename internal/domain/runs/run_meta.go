package runs

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Run status constants
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusTimedOut  = "timed_out"
)

// RunMeta entity
type RunMeta struct {
	ID                string    `validate:"required,uuid4"`
	DateTimeCreated   time.Time `validate:"required"`
	UserID            string    `validate:"required,uuid4"`
	Status            string    `validate:"required,oneof=pending running succeeded failed timed_out"`
	SourceName        string    `validate:"required,min=1,max=255"`
	SourceSize        int64     `validate:"required,min=1"`
	EntryPoint        string    `validate:"omitempty,min=1,max=255"`
	ExitCode          *int      `validate:"omitempty"`
	DurationMs        int64     `validate:"omitempty,min=0"`
	OutputTruncated   bool
	OutputArtifactKey string `validate:"omitempty,min=1,max=512"`
	BundleArtifactKey string `validate:"omitempty,min=1,max=512"`
}

// Validate for validating RunMeta struct
func (r *RunMeta) Validate() error {
	validate := validator.New()

	err := validate.Struct(r)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// Terminal reports whether the run reached a final state.
func (r *RunMeta) Terminal() bool {
	switch r.Status {
	case StatusSucceeded, StatusFailed, StatusTimedOut:
		return true
	}
	return false
}
