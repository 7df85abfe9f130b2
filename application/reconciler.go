package application

import (
	"context"
	"fmt"

	"drivesync/domain/contracts"
	"drivesync/domain/drive"
	"drivesync/logging"
)

// Reconciler decides how discovered records land in the persisted store:
// insert-if-absent for new records, bulk label updates for attribution.
type Reconciler struct {
	repo   contracts.DocumentRepository
	logger *logging.Logger
}

func NewReconciler(repo contracts.DocumentRepository) *Reconciler {
	return &Reconciler{
		repo:   repo,
		logger: logging.Default().WithComponent("reconciler"),
	}
}

// ApplyAttribution fills created_by on every record from its first-parent
// entry in labels. Attribution must be total over the input: a record whose
// parent is missing from the map is a hard error and nothing is guaranteed
// about records already mutated. Parentless records always fail here, since
// BuildLabelMap never maps the empty parent ID.
func (r *Reconciler) ApplyAttribution(records []*drive.FileRecord, labels map[string]string) error {
	for _, rec := range records {
		parentID := rec.FirstParent()
		label, ok := labels[parentID]
		if !ok {
			return fmt.Errorf("%w: record %s parent %q", contracts.ErrMissingAttribution, rec.ID, parentID)
		}
		rec.CreatedBy = label
	}
	return nil
}

// UpsertLabels bulk-updates created_by for every folder in the map. The
// operation is idempotent; applying the same map twice leaves the store in
// the same state as applying it once.
func (r *Reconciler) UpsertLabels(ctx context.Context, labels map[string]string) (int64, error) {
	var modified int64
	for folderID, label := range labels {
		n, err := r.repo.SetCreatedByForParent(ctx, folderID, label)
		if err != nil {
			return modified, fmt.Errorf("upsert label for folder %s: %w", folderID, err)
		}
		modified += n
	}
	r.logger.Info("Labels upserted", "folders", len(labels), "documents_modified", modified)
	return modified, nil
}

// InsertBatch persists the records, skipping any whose remote ID already
// exists in the store.
func (r *Reconciler) InsertBatch(ctx context.Context, records []*drive.FileRecord) (inserted, skipped int64, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}
	return r.repo.InsertNew(ctx, records)
}
