package connector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code_runner_service/internal/domain/artifacts"
	"code_runner_service/internal/pkg/config"
	"code_runner_service/internal/pkg/logger"
)

type fsArtifactConnector struct {
	directory string
	logger    logger.Logger
}

// NewFsArtifactConnector creates an ArtifactConnector storing artifacts as
// files under a local directory. Intended for development and testing.
func NewFsArtifactConnector(settings *config.ArtifactConnectorSettings, logger logger.Logger) (artifacts.ArtifactConnector, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact connector settings: %w", err)
	}

	if err := os.MkdirAll(settings.Directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory %s: %w", settings.Directory, err)
	}

	logger.Info("Filesystem artifact connector ready at ", settings.Directory)
	return &fsArtifactConnector{
		directory: settings.Directory,
		logger:    logger,
	}, nil
}

func (c *fsArtifactConnector) Upload(ctx context.Context, key string, data []byte) (string, error) {
	path, err := c.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("failed to create artifact subdirectory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", key, err)
	}

	c.logger.Info("Stored artifact ", key, " (", len(data), " bytes)")
	return "file://" + path, nil
}

func (c *fsArtifactConnector) Download(ctx context.Context, key string) ([]byte, error) {
	path, err := c.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}

	return data, nil
}

func (c *fsArtifactConnector) Delete(ctx context.Context, key string) error {
	path, err := c.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete artifact %s: %w", key, err)
	}

	c.logger.Info("Deleted artifact ", key)
	return nil
}

// resolve maps a key to an absolute path inside the artifact directory,
// rejecting keys that would escape it.
func (c *fsArtifactConnector) resolve(key string) (string, error) {
	if err := validateArtifactKey(key); err != nil {
		return "", err
	}

	path := filepath.Join(c.directory, filepath.FromSlash(key))
	absDir, err := filepath.Abs(c.directory)
	if err != nil {
		return "", fmt.Errorf("failed to resolve artifact directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve artifact path: %w", err)
	}
	if absPath != absDir && !strings.HasPrefix(absPath, absDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid artifact key: %s", key)
	}

	return absPath, nil
}
