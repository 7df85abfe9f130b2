package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"drivesync/domain/drive"
)

// MockDocumentRepository implements contracts.DocumentRepository for testing
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) InsertNew(ctx context.Context, records []*drive.FileRecord) (int64, int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) SetCreatedByForParent(ctx context.Context, folderID, label string) (int64, error) {
	args := m.Called(ctx, folderID, label)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) DistinctFirstParents(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentRepository) FindCreatedAfter(ctx context.Context, after time.Time) ([]*drive.FileRecord, error) {
	args := m.Called(ctx, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*drive.FileRecord), args.Error(1)
}

func (m *MockDocumentRepository) DeleteCreatedAfter(ctx context.Context, after time.Time) (int64, error) {
	args := m.Called(ctx, after)
	return args.Get(0).(int64), args.Error(1)
}
