//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArtifactConnectorSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *ArtifactConnectorSettings
		expectedError bool
	}{
		{
			name: "valid azure settings",
			settings: &ArtifactConnectorSettings{
				Provider:         "azure",
				ConnectionString: "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;",
				ContainerName:    "artifacts",
			},
			expectedError: false,
		},
		{
			name: "valid fs settings",
			settings: &ArtifactConnectorSettings{
				Provider:  "fs",
				Directory: "/tmp/artifacts",
			},
			expectedError: false,
		},
		{
			name: "azure without connection string",
			settings: &ArtifactConnectorSettings{
				Provider:      "azure",
				ContainerName: "artifacts",
			},
			expectedError: true,
		},
		{
			name: "azure without container name",
			settings: &ArtifactConnectorSettings{
				Provider:         "azure",
				ConnectionString: "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;",
			},
			expectedError: true,
		},
		{
			name: "fs without directory",
			settings: &ArtifactConnectorSettings{
				Provider: "fs",
			},
			expectedError: true,
		},
		{
			name: "unknown provider",
			settings: &ArtifactConnectorSettings{
				Provider: "gcs",
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
