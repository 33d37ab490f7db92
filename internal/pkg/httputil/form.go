// Package httputil provides helpers for building multipart forms.
package httputil

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// maxFormMemory bounds in-memory parsing of constructed forms.
const maxFormMemory = 32 << 20 // 32 MB

// CreateForm builds a multipart form containing a single "file" part with
// the given content and file name.
func CreateForm(fileContent []byte, fileName string) (*multipart.Form, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(fileContent); err != nil {
		return nil, fmt.Errorf("failed to write form file content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form writer: %w", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(maxFormMemory)
	if err != nil {
		return nil, fmt.Errorf("failed to read form: %w", err)
	}

	// ReadForm does not populate Size for in-memory parts
	if headers, ok := form.File["file"]; ok && len(headers) > 0 {
		headers[0].Size = int64(len(fileContent))
	}

	return form, nil
}
