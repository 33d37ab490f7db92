package testutil

import (
	"mime/multipart"
	"testing"

	"code_runner_service/internal/pkg/httputil"

	"github.com/stretchr/testify/require"
)

// CreateTestForm builds a multipart form with a single "file" part for tests.
func CreateTestForm(t *testing.T, fileName string, fileContent []byte) *multipart.Form {
	t.Helper()

	form, err := httputil.CreateForm(fileContent, fileName)
	require.NoError(t, err)

	return form
}

// CreateEmptyForm creates an empty multipart form for testing
func CreateEmptyForm() *multipart.Form {
	return &multipart.Form{
		File:  make(map[string][]*multipart.FileHeader),
		Value: make(map[string][]string),
	}
}
