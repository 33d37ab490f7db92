package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ServerSettings holds the HTTP server configuration
type ServerSettings struct {
	Port                   string `mapstructure:"port" validate:"required,numeric"`
	APIKey                 string `mapstructure:"api_key"`
	RequestTimeoutSeconds  int    `mapstructure:"request_timeout_seconds" validate:"required,min=1,max=3600"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"required,min=1,max=300"`
}

// Validate checks that all fields in ServerSettings are valid
func (s *ServerSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ServerSettings: %w", err)
	}

	return nil
}

// RequestTimeout returns the per-request deadline as a duration
func (s *ServerSettings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown drain window as a duration
func (s *ServerSettings) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}
