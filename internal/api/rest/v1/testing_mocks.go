//go:build unit
// +build unit

package v1

import (
	"context"
	"mime/multipart"

	"code_runner_service/internal/domain/runs"

	"github.com/stretchr/testify/mock"
)

// MockRunSubmissionService is a mock implementation of RunSubmissionService
type MockRunSubmissionService struct {
	mock.Mock
}

func (m *MockRunSubmissionService) Submit(ctx context.Context, form *multipart.Form, userID string, entry string) (*runs.RunMeta, error) {
	args := m.Called(ctx, form, userID, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*runs.RunMeta), args.Error(1)
}

// MockRunMetadataService is a mock implementation of RunMetadataService
type MockRunMetadataService struct {
	mock.Mock
}

func (m *MockRunMetadataService) List(ctx context.Context, query *runs.RunMetaQuery) ([]*runs.RunMeta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*runs.RunMeta), args.Error(1)
}

func (m *MockRunMetadataService) GetByID(ctx context.Context, runID string) (*runs.RunMeta, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*runs.RunMeta), args.Error(1)
}

func (m *MockRunMetadataService) DeleteByID(ctx context.Context, runID string) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}

// MockRunArtifactService is a mock implementation of RunArtifactService
type MockRunArtifactService struct {
	mock.Mock
}

func (m *MockRunArtifactService) DownloadOutputByID(ctx context.Context, runID string) ([]byte, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRunArtifactService) DownloadBundleByID(ctx context.Context, runID string) ([]byte, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
