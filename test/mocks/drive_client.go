package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"drivesync/domain/drive"
	"drivesync/infrastructure/driveclient"
)

// MockDriveClient implements driveclient.Client for testing
type MockDriveClient struct {
	mock.Mock
}

func (m *MockDriveClient) GetFile(ctx context.Context, fileID string) (*drive.FileRecord, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*drive.FileRecord), args.Error(1)
}

func (m *MockDriveClient) ListFiles(ctx context.Context, query, pageToken string) (*driveclient.Page, error) {
	args := m.Called(ctx, query, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driveclient.Page), args.Error(1)
}

func (m *MockDriveClient) Export(ctx context.Context, fileID, mimeType string) (string, error) {
	args := m.Called(ctx, fileID, mimeType)
	return args.String(0), args.Error(1)
}
