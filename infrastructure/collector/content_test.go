package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivesync/domain/drive"
	"drivesync/test/helpers"
	"drivesync/test/mocks"
)

func TestFetchContents_PreservesInputOrderAndLength(t *testing.T) {
	client := &mocks.MockDriveClient{}
	data := helpers.NewTestData()
	ctx := context.Background()

	client.On("GetFile", ctx, "d1").Return(data.Doc("d1", "One", "2025-11-01T00:00:00Z", "F"), nil)
	client.On("Export", ctx, "d1", drive.ExportMimeText).Return("one body", nil)
	client.On("GetFile", ctx, "d2").Return(nil, errors.New("404"))
	client.On("GetFile", ctx, "d3").Return(data.Doc("d3", "Three", "2025-11-01T00:00:00Z", "F"), nil)
	client.On("Export", ctx, "d3", drive.ExportMimeText).Return("three body", nil)

	results := NewContentFetcher(client).FetchContents(ctx, []string{"d1", "d2", "d3"})

	require.Len(t, results, 3)
	assert.Equal(t, "d1", results[0].ID)
	require.NotNil(t, results[0].Content)
	assert.Equal(t, "one body", *results[0].Content)

	// The middle failure occupies its slot rather than shifting later items.
	assert.Equal(t, "d2", results[1].ID)
	assert.Nil(t, results[1].Content)
	assert.Empty(t, results[1].Name)

	assert.Equal(t, "d3", results[2].ID)
	require.NotNil(t, results[2].Content)
	assert.Equal(t, "three body", *results[2].Content)
}

func TestFetchContents_SpreadsheetExportsAsCSV(t *testing.T) {
	client := &mocks.MockDriveClient{}
	data := helpers.NewTestData()
	ctx := context.Background()

	sheet := data.File("s1", "Budget", drive.MimeTypeSpreadsheet, "F")
	client.On("GetFile", ctx, "s1").Return(sheet, nil)
	client.On("Export", ctx, "s1", drive.ExportMimeCSV).Return("a,b\n1,2\n", nil)

	results := NewContentFetcher(client).FetchContents(ctx, []string{"s1"})

	require.Len(t, results, 1)
	require.NotNil(t, results[0].Content)
	assert.Equal(t, "a,b\n1,2\n", *results[0].Content)
	client.AssertExpectations(t)
}

func TestFetchContents_UnsupportedTypeKeepsNameWithoutContent(t *testing.T) {
	client := &mocks.MockDriveClient{}
	data := helpers.NewTestData()
	ctx := context.Background()

	image := data.File("i1", "photo.png", "image/png", "F")
	client.On("GetFile", ctx, "i1").Return(image, nil)

	results := NewContentFetcher(client).FetchContents(ctx, []string{"i1"})

	require.Len(t, results, 1)
	assert.Equal(t, "photo.png", results[0].Name)
	assert.Nil(t, results[0].Content)
	assert.True(t, results[0].Skipped)
	client.AssertNotCalled(t, "Export")
}

func TestFetchContents_ExportFailureIsolatedToItem(t *testing.T) {
	client := &mocks.MockDriveClient{}
	data := helpers.NewTestData()
	ctx := context.Background()

	client.On("GetFile", ctx, "d1").Return(data.Doc("d1", "One", "2025-11-01T00:00:00Z", "F"), nil)
	client.On("Export", ctx, "d1", drive.ExportMimeText).Return("", errors.New("export quota"))
	client.On("GetFile", ctx, "d2").Return(data.Doc("d2", "Two", "2025-11-01T00:00:00Z", "F"), nil)
	client.On("Export", ctx, "d2", drive.ExportMimeText).Return("two body", nil)

	results := NewContentFetcher(client).FetchContents(ctx, []string{"d1", "d2"})

	require.Len(t, results, 2)
	assert.Nil(t, results[0].Content)
	// An export error is a failure, not a skip
	assert.False(t, results[0].Skipped)
	require.NotNil(t, results[1].Content)
}

func TestContentByID(t *testing.T) {
	body := "hello"
	results := []FetchResult{
		{ID: "a", Name: "A", Content: &body},
		{ID: "b", Name: "B"},
		{ID: ""},
	}

	byID := ContentByID(results)

	require.Len(t, byID, 2)
	assert.Equal(t, &body, byID["a"])
	assert.Nil(t, byID["b"])
}
