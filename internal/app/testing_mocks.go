//go:build unit
// +build unit

package app

import (
	"context"
	"mime/multipart"

	"code_runner_service/internal/domain/execution"
	"code_runner_service/internal/domain/runs"

	"github.com/stretchr/testify/mock"
)

// MockRunRepository is a mock implementation of RunRepository
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Create(ctx context.Context, run *runs.RunMeta) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) List(ctx context.Context, query *runs.RunMetaQuery) ([]*runs.RunMeta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*runs.RunMeta), args.Error(1)
}

func (m *MockRunRepository) GetByID(ctx context.Context, runID string) (*runs.RunMeta, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*runs.RunMeta), args.Error(1)
}

func (m *MockRunRepository) UpdateByID(ctx context.Context, run *runs.RunMeta) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) DeleteByID(ctx context.Context, runID string) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}

// MockArtifactConnector is a mock implementation of ArtifactConnector
type MockArtifactConnector struct {
	mock.Mock
}

func (m *MockArtifactConnector) Upload(ctx context.Context, key string, data []byte) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactConnector) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockArtifactConnector) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockExecutor is a mock implementation of Executor
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, request *execution.Request) (*execution.Result, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*execution.Result), args.Error(1)
}

// MockProvisioner is a mock implementation of Provisioner
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) Provision(ctx context.Context, workspaceDir string) (string, error) {
	args := m.Called(ctx, workspaceDir)
	return args.String(0), args.Error(1)
}

// MockWorkspaceManager is a mock implementation of WorkspaceManager
type MockWorkspaceManager struct {
	mock.Mock
}

func (m *MockWorkspaceManager) Create(runID string) (string, error) {
	args := m.Called(runID)
	return args.String(0), args.Error(1)
}

func (m *MockWorkspaceManager) SaveUpload(dir string, header *multipart.FileHeader) (string, error) {
	args := m.Called(dir, header)
	return args.String(0), args.Error(1)
}

func (m *MockWorkspaceManager) IsZip(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockWorkspaceManager) ExtractZip(dir, archivePath string) error {
	args := m.Called(dir, archivePath)
	return args.Error(0)
}

func (m *MockWorkspaceManager) Bundle(dir string) ([]byte, error) {
	args := m.Called(dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockWorkspaceManager) Remove(dir string) error {
	args := m.Called(dir)
	return args.Error(0)
}
