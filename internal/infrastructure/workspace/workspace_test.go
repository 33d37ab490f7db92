//go:build unit
// +build unit

package workspace

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"code_runner_service/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	log := testutil.SetupTestLogger(t)

	manager, err := NewManager(t.TempDir(), log)
	require.NoError(t, err)
	return manager
}

func writeZip(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range entries {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
}

func TestManager_CreateRejectsPathyRunIDs(t *testing.T) {
	manager := setupManager(t)

	_, err := manager.Create("")
	require.Error(t, err)
	_, err = manager.Create("../evil")
	require.Error(t, err)

	dir, err := manager.Create("0f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestManager_SaveUpload(t *testing.T) {
	manager := setupManager(t)
	dir, err := manager.Create("0f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)

	form := testutil.CreateTestForm(t, "script.py", []byte("print('hi')"))
	headers := form.File["file"]
	require.NotEmpty(t, headers)

	path, err := manager.SaveUpload(dir, headers[0])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "script.py"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("print('hi')"), content)
}

func TestManager_SaveUploadFlattensTraversalNames(t *testing.T) {
	manager := setupManager(t)
	dir, err := manager.Create("1f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)

	form := testutil.CreateTestForm(t, "../../outside.py", []byte("print('hi')"))
	headers := form.File["file"]
	require.NotEmpty(t, headers)

	path, err := manager.SaveUpload(dir, headers[0])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "outside.py"), path)
}

func TestManager_IsZip(t *testing.T) {
	manager := setupManager(t)
	dir := t.TempDir()

	zipPath := filepath.Join(dir, "bundle.zip")
	writeZip(t, zipPath, map[string][]byte{"main.py": []byte("print(1)")})
	assert.True(t, manager.IsZip(zipPath))

	plainPath := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(plainPath, []byte("print(1)"), 0600))
	assert.False(t, manager.IsZip(plainPath))
}

func TestManager_ExtractZip(t *testing.T) {
	manager := setupManager(t)
	dir, err := manager.Create("2f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)

	archivePath := filepath.Join(dir, "bundle.zip")
	writeZip(t, archivePath, map[string][]byte{
		"main.py":          []byte("print('main')"),
		"pkg/helper.py":    []byte("x = 1"),
		"requirements.txt": []byte("requests\n"),
	})

	require.NoError(t, manager.ExtractZip(dir, archivePath))

	assert.FileExists(t, filepath.Join(dir, "main.py"))
	assert.FileExists(t, filepath.Join(dir, "pkg", "helper.py"))
	assert.NoFileExists(t, archivePath)
}

func TestManager_ExtractZipRejectsSlipEntries(t *testing.T) {
	manager := setupManager(t)
	dir, err := manager.Create("3f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)

	archivePath := filepath.Join(dir, "bundle.zip")
	writeZip(t, archivePath, map[string][]byte{
		"../escape.py": []byte("print('escaped')"),
	})

	err = manager.ExtractZip(dir, archivePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes workspace")
}

func TestManager_BundleRoundTrip(t *testing.T) {
	manager := setupManager(t)
	dir, err := manager.Create("4f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print(1)"), 0600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "out"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out", "result.txt"), []byte("done"), 0600))

	data, err := manager.Bundle(dir)
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range reader.File {
		names[f.Name] = true
	}
	assert.True(t, names["main.py"])
	assert.True(t, names["out/result.txt"])
}

func TestManager_Remove(t *testing.T) {
	manager := setupManager(t)
	dir, err := manager.Create("5f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)

	require.NoError(t, manager.Remove(dir))
	assert.NoDirExists(t, dir)
}
