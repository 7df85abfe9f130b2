package contracts

import (
	"context"
	"time"

	"drivesync/domain/drive"
)

// DocumentRepository is the persisted-store boundary for reconciled file
// records. One repository instance is scoped to one logical collection.
type DocumentRepository interface {
	// InsertNew writes each record that is not already present, keyed by the
	// remote file ID. Records whose ID already exists are left untouched and
	// counted as skipped, making re-runs idempotent.
	InsertNew(ctx context.Context, records []*drive.FileRecord) (inserted, skipped int64, err error)

	// SetCreatedByForParent updates created_by on every persisted document
	// whose first parent equals folderID. Safe to re-run with the same label.
	SetCreatedByForParent(ctx context.Context, folderID, label string) (modified int64, err error)

	// DistinctFirstParents enumerates all distinct first-parent folder IDs
	// present in the collection.
	DistinctFirstParents(ctx context.Context) ([]string, error)

	// FindCreatedAfter returns a projection of documents created strictly
	// after the given instant.
	FindCreatedAfter(ctx context.Context, after time.Time) ([]*drive.FileRecord, error)

	// DeleteCreatedAfter removes documents created strictly after the given
	// instant, typically to re-ingest a window.
	DeleteCreatedAfter(ctx context.Context, after time.Time) (deleted int64, err error)
}
