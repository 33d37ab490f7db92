// Package workspace manages per-run working directories: persisting
// uploads, extracting zip bundles and packaging results.
package workspace

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"code_runner_service/internal/pkg/logger"
)

// maxExtractedBytes caps the total uncompressed size of an uploaded archive.
const maxExtractedBytes = 512 << 20 // 512 MB

// Manager creates and tears down isolated run directories under a base dir.
type Manager struct {
	baseDir string
	logger  logger.Logger
}

// NewManager creates a workspace Manager rooted at baseDir.
func NewManager(baseDir string, logger logger.Logger) (*Manager, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base work dir must not be empty")
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create base work dir %s: %w", baseDir, err)
	}
	return &Manager{baseDir: baseDir, logger: logger}, nil
}

// Create makes a fresh working directory for the given run ID.
func (m *Manager) Create(runID string) (string, error) {
	if runID == "" || strings.ContainsAny(runID, "/\\") {
		return "", fmt.Errorf("invalid run id: %s", runID)
	}

	dir := filepath.Join(m.baseDir, runID)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create workspace %s: %w", dir, err)
	}
	return dir, nil
}

// SaveUpload writes the uploaded file into the workspace and returns the
// stored path. The client-supplied name is flattened to its base name so
// uploads cannot place files outside the workspace.
func (m *Manager) SaveUpload(dir string, header *multipart.FileHeader) (string, error) {
	name := filepath.Base(filepath.FromSlash(header.Filename))
	if name == "." || name == string(os.PathSeparator) || name == "" {
		name = "upload"
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			m.logger.Warn("failed to close uploaded file: ", err)
		}
	}()

	path := filepath.Join(dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create workspace file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close workspace file: %w", err)
	}

	return path, nil
}

// IsZip reports whether the file at path is a zip archive.
func (m *Manager) IsZip(path string) bool {
	r, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	_ = r.Close()
	return true
}

// ExtractZip unpacks the archive at archivePath into dir and removes the
// archive afterwards. Entries resolving outside dir are rejected.
func (m *Manager) ExtractZip(dir, archivePath string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.logger.Warn("failed to close archive reader: ", err)
		}
	}()

	var extracted int64
	for _, entry := range reader.File {
		target, err := resolveEntryPath(dir, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0750); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", entry.Name, err)
			}
			continue
		}

		extracted += int64(entry.UncompressedSize64)
		if extracted > maxExtractedBytes {
			return fmt.Errorf("archive exceeds extraction limit of %d bytes", int64(maxExtractedBytes))
		}

		if err := extractFile(entry, target); err != nil {
			return err
		}
	}

	if err := os.Remove(archivePath); err != nil {
		return fmt.Errorf("failed to remove extracted archive: %w", err)
	}

	m.logger.Info("Extracted archive into ", dir)
	return nil
}

// Bundle zips the entire workspace directory and returns the archive bytes.
func (m *Manager) Bundle(dir string) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path: %w", err)
		}

		entry, err := writer.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("failed to create bundle entry %s: %w", rel, err)
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s for bundling: %w", rel, err)
		}
		defer func() {
			if err := file.Close(); err != nil {
				m.logger.Warn("failed to close bundled file: ", err)
			}
		}()

		if _, err := io.Copy(entry, file); err != nil {
			return fmt.Errorf("failed to bundle %s: %w", rel, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bundle workspace: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize bundle: %w", err)
	}

	return buf.Bytes(), nil
}

// Remove deletes the workspace directory and everything beneath it.
func (m *Manager) Remove(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove workspace %s: %w", dir, err)
	}
	return nil
}

// resolveEntryPath joins an archive entry name onto dir, rejecting entries
// that would land outside it (zip slip).
func resolveEntryPath(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes workspace: %s", name)
	}
	return target, nil
}

func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", entry.Name, err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", entry.Name, err)
	}

	// LimitReader guards against decompression bombs lying about sizes
	if _, err := io.Copy(dst, io.LimitReader(src, maxExtractedBytes)); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", entry.Name, err)
	}

	return nil
}
