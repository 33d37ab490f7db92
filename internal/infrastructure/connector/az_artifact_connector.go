package connector

import (
	"context"
	"fmt"
	"io"
	"strings"

	"code_runner_service/internal/domain/artifacts"
	"code_runner_service/internal/pkg/config"
	"code_runner_service/internal/pkg/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

type azureArtifactConnector struct {
	client        *azblob.Client
	containerName string
	logger        logger.Logger
}

// NewAzureArtifactConnector creates an ArtifactConnector backed by Azure
// Blob Storage, creating the configured container if it does not exist.
func NewAzureArtifactConnector(ctx context.Context, settings *config.ArtifactConnectorSettings, logger logger.Logger) (artifacts.ArtifactConnector, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact connector settings: %w", err)
	}

	client, err := azblob.NewClientFromConnectionString(settings.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}

	_, err = client.CreateContainer(ctx, settings.ContainerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container %s: %w", settings.ContainerName, err)
	}

	logger.Info("Azure artifact connector ready for container ", settings.ContainerName)
	return &azureArtifactConnector{
		client:        client,
		containerName: settings.ContainerName,
		logger:        logger,
	}, nil
}

func (c *azureArtifactConnector) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if err := validateArtifactKey(key); err != nil {
		return "", err
	}

	_, err := c.client.UploadBuffer(ctx, c.containerName, key, data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact %s: %w", key, err)
	}

	location := fmt.Sprintf("%s%s/%s", c.client.URL(), c.containerName, key)
	c.logger.Info("Uploaded artifact ", key, " (", len(data), " bytes)")
	return location, nil
}

func (c *azureArtifactConnector) Download(ctx context.Context, key string) ([]byte, error) {
	if err := validateArtifactKey(key); err != nil {
		return nil, err
	}

	resp, err := c.client.DownloadStream(ctx, c.containerName, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download artifact %s: %w", key, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close download stream: ", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}

	return data, nil
}

func (c *azureArtifactConnector) Delete(ctx context.Context, key string) error {
	if err := validateArtifactKey(key); err != nil {
		return err
	}

	_, err := c.client.DeleteBlob(ctx, c.containerName, key, nil)
	if err != nil {
		return fmt.Errorf("failed to delete artifact %s: %w", key, err)
	}

	c.logger.Info("Deleted artifact ", key)
	return nil
}

// validateArtifactKey rejects keys that could escape the store's namespace.
func validateArtifactKey(key string) error {
	if key == "" {
		return fmt.Errorf("artifact key must not be empty")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid artifact key: %s", key)
	}
	return nil
}
