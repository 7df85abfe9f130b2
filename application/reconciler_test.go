package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivesync/domain/contracts"
	"drivesync/domain/drive"
	"drivesync/test/helpers"
	"drivesync/test/mocks"
)

func TestApplyAttribution_FillsCreatedByFromFirstParent(t *testing.T) {
	data := helpers.NewTestData()
	records := []*drive.FileRecord{
		data.Doc("a", "A", "2025-11-01T00:00:00Z", "P1"),
		data.Doc("b", "B", "2025-11-01T00:00:00Z", "P2"),
	}
	labels := map[string]string{"P1": "Irene", "P2": "Marcus"}

	err := NewReconciler(&mocks.MockDocumentRepository{}).ApplyAttribution(records, labels)

	require.NoError(t, err)
	assert.Equal(t, "Irene", records[0].CreatedBy)
	assert.Equal(t, "Marcus", records[1].CreatedBy)
}

func TestApplyAttribution_MissingLabelIsHardError(t *testing.T) {
	data := helpers.NewTestData()
	records := []*drive.FileRecord{
		data.Doc("a", "A", "2025-11-01T00:00:00Z", "P1"),
		data.Doc("b", "B", "2025-11-01T00:00:00Z", "P9"),
	}
	labels := map[string]string{"P1": "Irene"}

	err := NewReconciler(&mocks.MockDocumentRepository{}).ApplyAttribution(records, labels)

	assert.ErrorIs(t, err, contracts.ErrMissingAttribution)
	assert.ErrorContains(t, err, "P9")
}

func TestApplyAttribution_ParentlessRecordRejected(t *testing.T) {
	data := helpers.NewTestData()
	// No parent means no possible label map entry
	records := []*drive.FileRecord{
		data.File("a", "orphan", drive.MimeTypeDocument),
	}

	err := NewReconciler(&mocks.MockDocumentRepository{}).ApplyAttribution(records, map[string]string{"P1": "Irene"})

	assert.ErrorIs(t, err, contracts.ErrMissingAttribution)
}

func TestUpsertLabels_SumsModifiedCounts(t *testing.T) {
	repo := &mocks.MockDocumentRepository{}
	ctx := context.Background()

	repo.On("SetCreatedByForParent", ctx, "P1", "Irene").Return(int64(3), nil)
	repo.On("SetCreatedByForParent", ctx, "P2", "Marcus").Return(int64(2), nil)

	modified, err := NewReconciler(repo).UpsertLabels(ctx, map[string]string{
		"P1": "Irene",
		"P2": "Marcus",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), modified)
	repo.AssertExpectations(t)
}

func TestUpsertLabels_FailurePropagates(t *testing.T) {
	repo := &mocks.MockDocumentRepository{}
	ctx := context.Background()

	repo.On("SetCreatedByForParent", ctx, "P1", "Irene").Return(int64(0), errors.New("write concern"))

	_, err := NewReconciler(repo).UpsertLabels(ctx, map[string]string{"P1": "Irene"})

	assert.ErrorContains(t, err, "upsert label for folder P1")
}

func TestInsertBatch_EmptyInputTouchesNothing(t *testing.T) {
	repo := &mocks.MockDocumentRepository{}

	inserted, skipped, err := NewReconciler(repo).InsertBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Zero(t, skipped)
	repo.AssertNotCalled(t, "InsertNew")
}

func TestInsertBatch_DelegatesToRepository(t *testing.T) {
	repo := &mocks.MockDocumentRepository{}
	data := helpers.NewTestData()
	ctx := context.Background()
	records := []*drive.FileRecord{data.Doc("a", "A", "2025-11-01T00:00:00Z", "P1")}

	repo.On("InsertNew", ctx, records).Return(int64(1), int64(0), nil)

	inserted, skipped, err := NewReconciler(repo).InsertBatch(ctx, records)

	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
	assert.Equal(t, int64(0), skipped)
}
