package collector

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"drivesync/domain/contracts"
	"drivesync/domain/drive"
	"drivesync/infrastructure/driveclient"
	"drivesync/logging"
)

// AttributionResolver maps parent-folder IDs to the folder's own name, which
// serves as the created_by label. Resolutions are cached, so records sharing
// a parent cost one metadata lookup and the mapping is stable across calls
// within the cache TTL.
type AttributionResolver struct {
	client driveclient.Client
	cache  *gocache.Cache
	logger *logging.Logger
}

func NewAttributionResolver(client driveclient.Client) *AttributionResolver {
	return &AttributionResolver{
		client: client,
		cache:  gocache.New(30*time.Minute, 10*time.Minute),
		logger: logging.Default().WithComponent("attribution_resolver"),
	}
}

// BuildLabelMap resolves the first-parent folder of every record to its
// label. Exactly one metadata lookup is made per distinct folder ID. A
// parent with no resolvable label is a hard error: silently mislabeling
// ownership is worse than stopping. Records without a parent folder get no
// map entry; attributed sources do not support parentless records, and
// Reconciler.ApplyAttribution rejects them downstream.
func (r *AttributionResolver) BuildLabelMap(ctx context.Context, records []*drive.FileRecord) (map[string]string, error) {
	labels := make(map[string]string)
	for _, rec := range records {
		parentID := rec.FirstParent()
		if parentID == "" {
			continue
		}
		if _, ok := labels[parentID]; ok {
			continue
		}
		label, err := r.resolveLabel(ctx, parentID)
		if err != nil {
			return nil, err
		}
		labels[parentID] = label
	}
	r.logger.Drive("Label map built", "records", len(records), "folders", len(labels))
	return labels, nil
}

// BuildLabelMapFromStore resolves a label for every distinct first-parent
// already present in the persisted collection.
func (r *AttributionResolver) BuildLabelMapFromStore(ctx context.Context, repo contracts.DocumentRepository) (map[string]string, error) {
	parentIDs, err := repo.DistinctFirstParents(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate persisted parent folders: %w", err)
	}

	labels := make(map[string]string, len(parentIDs))
	for _, parentID := range parentIDs {
		if parentID == "" {
			continue
		}
		label, err := r.resolveLabel(ctx, parentID)
		if err != nil {
			return nil, err
		}
		labels[parentID] = label
	}
	r.logger.Drive("Label map built from store", "folders", len(labels))
	return labels, nil
}

func (r *AttributionResolver) resolveLabel(ctx context.Context, folderID string) (string, error) {
	if cached, ok := r.cache.Get(folderID); ok {
		return cached.(string), nil
	}
	meta, err := r.client.GetFile(ctx, folderID)
	if err != nil {
		return "", fmt.Errorf("resolve label for folder %s: %w", folderID, err)
	}
	r.cache.Set(folderID, meta.Name, gocache.DefaultExpiration)
	return meta.Name, nil
}
