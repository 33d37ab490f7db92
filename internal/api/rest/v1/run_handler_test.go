//go:build unit
// +build unit

package v1

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"code_runner_service/internal/domain/execution"
	"code_runner_service/internal/domain/runs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newHandlerWithMocks() (RunHandler, *MockRunSubmissionService, *MockRunMetadataService, *MockRunArtifactService) {
	submission := new(MockRunSubmissionService)
	metadata := new(MockRunMetadataService)
	artifacts := new(MockRunArtifactService)
	return NewRunHandler(submission, metadata, artifacts), submission, metadata, artifacts
}

func multipartRequest(t *testing.T, fileName string, fileContent []byte, fields map[string]string) *http.Request {
	t.Helper()

	var b bytes.Buffer
	writer := multipart.NewWriter(&b)

	fileWriter, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fileWriter.Write(fileContent)
	require.NoError(t, err)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("POST", "/runs", &b)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestRunHandler_Submit_Success(t *testing.T) {
	handler, submission, _, _ := newHandlerWithMocks()

	runMeta := runs.RunMeta{ID: uuid.New().String(), Status: runs.StatusSucceeded, OutputArtifactKey: "outputs/x.txt"}
	submission.On("Submit", mock.Anything, mock.Anything, mock.Anything, "").
		Return(&runMeta, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "main.py", []byte("print('hi')"), nil)

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), runMeta.ID)
	assert.Contains(t, w.Body.String(), "/runs/"+runMeta.ID+"/output")
	submission.AssertExpectations(t)
}

func TestRunHandler_Submit_PassesEntryField(t *testing.T) {
	handler, submission, _, _ := newHandlerWithMocks()

	runMeta := runs.RunMeta{ID: uuid.New().String(), Status: runs.StatusSucceeded}
	submission.On("Submit", mock.Anything, mock.Anything, mock.Anything, "tool.py").
		Return(&runMeta, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "bundle.zip", []byte("zipzip"), map[string]string{"entry": "tool.py"})

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	submission.AssertExpectations(t)
}

func TestRunHandler_Submit_InvalidForm(t *testing.T) {
	handler, _, _, _ := newHandlerWithMocks()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("POST", "/runs", nil)
	c.Request = req

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid form data")
}

func TestRunHandler_Submit_ProvisionFailureIsServerError(t *testing.T) {
	handler, submission, _, _ := newHandlerWithMocks()

	submission.On("Submit", mock.Anything, mock.Anything, mock.Anything, "").
		Return(nil, execution.ErrProvisionFailed)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "main.py", []byte("print('hi')"), nil)

	handler.Submit(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRunHandler_Submit_NoEntrypointIsBadRequest(t *testing.T) {
	handler, submission, _, _ := newHandlerWithMocks()

	submission.On("Submit", mock.Anything, mock.Anything, mock.Anything, "").
		Return(nil, execution.ErrNoEntrypoint)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "notes.txt", []byte("text"), nil)

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunHandler_ListMetadata_Success(t *testing.T) {
	handler, _, metadata, _ := newHandlerWithMocks()

	runMeta := runs.RunMeta{ID: uuid.New().String(), Status: runs.StatusSucceeded}
	metadata.On("List", mock.Anything, mock.Anything).Return([]*runs.RunMeta{&runMeta}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("GET", "/runs?status=succeeded&limit=10", nil)
	c.Request = req

	handler.ListMetadata(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), runMeta.ID)

	query := metadata.Calls[0].Arguments.Get(1).(*runs.RunMetaQuery)
	assert.Equal(t, runs.StatusSucceeded, query.Status)
	assert.Equal(t, 10, query.Limit)
}

func TestRunHandler_ListMetadata_InvalidQuery(t *testing.T) {
	handler, _, _, _ := newHandlerWithMocks()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("GET", "/runs?sortBy=secrets", nil)
	c.Request = req

	handler.ListMetadata(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
}

func TestRunHandler_GetMetadataByID_NotFound(t *testing.T) {
	handler, _, metadata, _ := newHandlerWithMocks()

	metadata.On("GetByID", mock.Anything, "missing").Return(nil, errors.New("not found"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("GET", "/runs/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.GetMetadataByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunHandler_DownloadOutputByID_Success(t *testing.T) {
	handler, _, _, artifacts := newHandlerWithMocks()

	runID := uuid.New().String()
	artifacts.On("DownloadOutputByID", mock.Anything, runID).Return([]byte("run output"), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("GET", "/runs/"+runID+"/output", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: runID}}

	handler.DownloadOutputByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "run output", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), runID)
}

func TestRunHandler_DownloadBundleByID_NotFound(t *testing.T) {
	handler, _, _, artifacts := newHandlerWithMocks()

	artifacts.On("DownloadBundleByID", mock.Anything, "missing").Return(nil, errors.New("no stored artifact"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("GET", "/runs/missing/bundle", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.DownloadBundleByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunHandler_DeleteByID_Success(t *testing.T) {
	handler, _, metadata, _ := newHandlerWithMocks()

	runID := uuid.New().String()
	metadata.On("DeleteByID", mock.Anything, runID).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("DELETE", "/runs/"+runID, nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: runID}}

	handler.DeleteByID(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	metadata.AssertExpectations(t)
}
