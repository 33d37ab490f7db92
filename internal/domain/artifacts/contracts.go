// Package artifacts defines the contract for storing run outputs and bundles.
package artifacts

import "context"

// ArtifactConnector is an interface for interacting with artifact storage
type ArtifactConnector interface {
	// Upload stores data under the given key and returns the location
	// (a URL or file path) where the artifact can be retrieved.
	Upload(ctx context.Context, key string, data []byte) (string, error)

	// Download retrieves an artifact's content by key.
	Download(ctx context.Context, key string) ([]byte, error)

	// Delete removes an artifact by key and returns any error encountered.
	Delete(ctx context.Context, key string) error
}
