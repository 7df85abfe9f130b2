package collector

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivesync/domain/drive"
	"drivesync/test/helpers"
	"drivesync/test/mocks"
)

func TestBuildLabelMap_OneLookupPerDistinctParent(t *testing.T) {
	client := &mocks.MockDriveClient{}
	data := helpers.NewTestData()
	ctx := context.Background()

	client.On("GetFile", ctx, "P1").Return(data.Folder("P1", "Irene"), nil).Once()
	client.On("GetFile", ctx, "P2").Return(data.Folder("P2", "Marcus"), nil).Once()

	records := []*drive.FileRecord{
		data.Doc("a", "A", "2025-11-01T00:00:00Z", "P1"),
		data.Doc("b", "B", "2025-11-01T00:00:00Z", "P1"),
		data.Doc("c", "C", "2025-11-01T00:00:00Z", "P2"),
		data.File("d", "orphan", drive.MimeTypeDocument), // no parents
	}

	labels, err := NewAttributionResolver(client).BuildLabelMap(ctx, records)

	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "Irene", labels["P1"])
	assert.Equal(t, "Marcus", labels["P2"])
	client.AssertExpectations(t)
}

func TestBuildLabelMap_CacheSpansCalls(t *testing.T) {
	client := &mocks.MockDriveClient{}
	data := helpers.NewTestData()
	ctx := context.Background()

	// A second batch touching the same folder must not trigger a second lookup.
	client.On("GetFile", ctx, "P1").Return(data.Folder("P1", "Irene"), nil).Once()
	resolver := NewAttributionResolver(client)

	first, err := resolver.BuildLabelMap(ctx, []*drive.FileRecord{
		data.Doc("a", "A", "2025-11-01T00:00:00Z", "P1"),
	})
	require.NoError(t, err)

	second, err := resolver.BuildLabelMap(ctx, []*drive.FileRecord{
		data.Doc("b", "B", "2025-11-02T00:00:00Z", "P1"),
	})
	require.NoError(t, err)

	assert.Equal(t, first["P1"], second["P1"])
	client.AssertExpectations(t)
}

func TestBuildLabelMap_LookupFailureIsFatal(t *testing.T) {
	client := &mocks.MockDriveClient{}
	data := helpers.NewTestData()
	ctx := context.Background()

	client.On("GetFile", ctx, "P1").Return(nil, errors.New("403 forbidden"))

	labels, err := NewAttributionResolver(client).BuildLabelMap(ctx, []*drive.FileRecord{
		data.Doc("a", "A", "2025-11-01T00:00:00Z", "P1"),
	})

	assert.Nil(t, labels)
	assert.ErrorContains(t, err, "resolve label for folder P1")
}

func TestBuildLabelMapFromStore(t *testing.T) {
	client := &mocks.MockDriveClient{}
	repo := &mocks.MockDocumentRepository{}
	data := helpers.NewTestData()
	ctx := context.Background()

	repo.On("DistinctFirstParents", ctx).Return([]string{"P1", "P2", ""}, nil)
	client.On("GetFile", ctx, "P1").Return(data.Folder("P1", "Irene"), nil).Once()
	client.On("GetFile", ctx, "P2").Return(data.Folder("P2", "Marcus"), nil).Once()

	labels, err := NewAttributionResolver(client).BuildLabelMapFromStore(ctx, repo)

	require.NoError(t, err)
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"P1", "P2"}, keys)
	repo.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestBuildLabelMapFromStore_EnumerationFailure(t *testing.T) {
	client := &mocks.MockDriveClient{}
	repo := &mocks.MockDocumentRepository{}
	ctx := context.Background()

	repo.On("DistinctFirstParents", ctx).Return(nil, errors.New("connection reset"))

	labels, err := NewAttributionResolver(client).BuildLabelMapFromStore(ctx, repo)

	assert.Nil(t, labels)
	assert.ErrorContains(t, err, "enumerate persisted parent folders")
	client.AssertNotCalled(t, "GetFile")
}
