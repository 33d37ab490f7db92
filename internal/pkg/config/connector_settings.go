package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AzureStorageProvider stores artifacts in Azure Blob Storage
const AzureStorageProvider = "azure"

// FsStorageProvider stores artifacts on the local filesystem
const FsStorageProvider = "fs"

// ArtifactConnectorSettings holds configuration for the artifact store backing run outputs and bundles
type ArtifactConnectorSettings struct {
	Provider         string `mapstructure:"provider" validate:"required,oneof=azure fs"`
	ConnectionString string `mapstructure:"connection_string"`
	ContainerName    string `mapstructure:"container_name"`
	Directory        string `mapstructure:"directory"`
}

// Validate checks that all fields in ArtifactConnectorSettings are valid
func (s *ArtifactConnectorSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ArtifactConnectorSettings: %w", err)
	}

	switch s.Provider {
	case AzureStorageProvider:
		if s.ConnectionString == "" {
			return fmt.Errorf("connection string is required for the azure provider")
		}
		if s.ContainerName == "" {
			return fmt.Errorf("container name is required for the azure provider")
		}
	case FsStorageProvider:
		if s.Directory == "" {
			return fmt.Errorf("directory is required for the fs provider")
		}
	}

	return nil
}
