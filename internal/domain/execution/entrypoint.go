package execution

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// preferredEntrypoints are probed in order before falling back to the
// first python file in the workspace.
var preferredEntrypoints = []string{"main.py", "app.py"}

// ResolveEntrypoint picks the file to execute inside workspaceDir. An
// explicit entry wins when it names an existing file inside the workspace;
// otherwise main.py, then app.py, then the lexicographically first *.py at
// the workspace root. Returns the entry path relative to the workspace.
func ResolveEntrypoint(workspaceDir, explicit string) (string, error) {
	if explicit != "" {
		candidate, err := resolveExplicitEntry(workspaceDir, explicit)
		if err != nil {
			return "", err
		}
		if candidate != "" {
			return candidate, nil
		}
	}

	for _, name := range preferredEntrypoints {
		if fileExists(filepath.Join(workspaceDir, name)) {
			return name, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(workspaceDir, "*.py"))
	if err != nil {
		return "", fmt.Errorf("failed to scan workspace: %w", err)
	}
	sort.Strings(matches)
	for _, match := range matches {
		if fileExists(match) {
			return filepath.Base(match), nil
		}
	}

	return "", ErrNoEntrypoint
}

// resolveExplicitEntry validates a client-supplied entry name. A missing
// file is not an error; resolution falls through to the defaults.
func resolveExplicitEntry(workspaceDir, explicit string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(explicit))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid entry path: %s", explicit)
	}

	if fileExists(filepath.Join(workspaceDir, cleaned)) {
		return cleaned, nil
	}
	return "", nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
