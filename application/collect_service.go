package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"drivesync/domain/contracts"
	"drivesync/domain/drive"
	"drivesync/infrastructure/collector"
	"drivesync/logging"
)

// Source maps one Drive folder to the collection its records are reconciled
// into. Attribute marks sources whose records carry created_by derived from
// the owning folder.
type Source struct {
	Name       string
	FolderID   string
	Collection string
	Attribute  bool
}

// SourceSummary reports the outcome of one source within a run. Error is
// empty on success.
type SourceSummary struct {
	Source         string        `json:"source"`
	FolderID       string        `json:"folderId"`
	Collection     string        `json:"collection"`
	FilesFound     int           `json:"filesFound"`
	ContentFetched int           `json:"contentFetched"`
	ContentSkipped int           `json:"contentSkipped"`
	ContentFailed  int           `json:"contentFailed"`
	FoldersLabeled int           `json:"foldersLabeled"`
	Inserted       int64         `json:"inserted"`
	Skipped        int64         `json:"skipped"`
	Duration       time.Duration `json:"duration"`
	Error          string        `json:"error,omitempty"`
}

// RunSummary aggregates the per-source outcomes of one collection run.
type RunSummary struct {
	RunID      string          `json:"runId"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Sources    []SourceSummary `json:"sources"`
}

// Failed reports whether any source in the run failed.
func (s *RunSummary) Failed() bool {
	for _, src := range s.Sources {
		if src.Error != "" {
			return true
		}
	}
	return false
}

// RepositoryFactory yields a repository scoped to the named collection.
type RepositoryFactory func(collection string) contracts.DocumentRepository

// CollectService runs the discovery-and-synchronization pipeline: discover
// records, backfill content, derive attribution and reconcile into the
// persisted store, one source at a time.
type CollectService struct {
	engine   *collector.DiscoveryEngine
	fetcher  *collector.ContentFetcher
	resolver *collector.AttributionResolver
	repoFor  RepositoryFactory
	logger   *logging.Logger
}

func NewCollectService(
	engine *collector.DiscoveryEngine,
	fetcher *collector.ContentFetcher,
	resolver *collector.AttributionResolver,
	repoFor RepositoryFactory,
) *CollectService {
	return &CollectService{
		engine:   engine,
		fetcher:  fetcher,
		resolver: resolver,
		repoFor:  repoFor,
		logger:   logging.Default().WithComponent("collect_service"),
	}
}

// Run executes the pipeline for every source with the given filter. A
// failing source is recorded in its summary and the run continues with the
// remaining sources.
func (s *CollectService) Run(ctx context.Context, sources []Source, filter drive.FilterRequest) (*RunSummary, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	s.logger.Info("Collection run starting",
		"run_id", summary.RunID,
		"sources", len(sources),
		"start_date", filter.StartDate,
		"end_date", filter.EndDate,
		"search_type", filter.SearchType)

	for _, source := range sources {
		summary.Sources = append(summary.Sources, s.RunSource(ctx, source, filter))
	}

	summary.FinishedAt = time.Now().UTC()
	s.logger.Info("Collection run finished",
		"run_id", summary.RunID,
		"duration_ms", summary.FinishedAt.Sub(summary.StartedAt).Milliseconds(),
		"failed", summary.Failed())
	return summary, nil
}

// RunSource executes the pipeline for a single source.
func (s *CollectService) RunSource(ctx context.Context, source Source, filter drive.FilterRequest) SourceSummary {
	metrics := collector.NewRunMetrics()
	overallStart := metrics.StartTiming()

	result := SourceSummary{
		Source:     source.Name,
		FolderID:   source.FolderID,
		Collection: source.Collection,
	}
	fail := func(err error) SourceSummary {
		metrics.RecordError()
		metrics.CalculateTotalDuration(overallStart)
		metrics.LogRunSummary(s.logger, source.Name)
		result.Duration = metrics.TotalDuration
		result.Error = err.Error()
		s.logger.CollectError("Source collection failed", err, source.Name)
		return result
	}

	scoped := filter
	scoped.FolderID = source.FolderID

	// Step 1: discovery
	discoveryStart := metrics.StartTiming()
	records, err := s.engine.Discover(ctx, scoped)
	if err != nil {
		return fail(fmt.Errorf("discover: %w", err))
	}
	metrics.RecordDiscovery(discoveryStart, len(records))

	// Step 2: content backfill, attached by record ID
	contentStart := metrics.StartTiming()
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	fetched := s.fetcher.FetchContents(ctx, ids)
	byID := collector.ContentByID(fetched)
	succeeded, skippedContent := 0, 0
	for _, res := range fetched {
		if res.Skipped {
			skippedContent++
		}
	}
	for _, rec := range records {
		if content, ok := byID[rec.ID]; ok && content != nil {
			rec.Content = content
			succeeded++
		}
	}
	metrics.RecordContentFetch(contentStart, succeeded, skippedContent, len(records)-succeeded-skippedContent)

	repo := s.repoFor(source.Collection)
	reconciler := NewReconciler(repo)

	// Step 3: attribution
	if source.Attribute {
		attributionStart := metrics.StartTiming()
		labels, err := s.resolver.BuildLabelMap(ctx, records)
		if err != nil {
			return fail(fmt.Errorf("build label map: %w", err))
		}
		if err := reconciler.ApplyAttribution(records, labels); err != nil {
			return fail(fmt.Errorf("apply attribution: %w", err))
		}
		metrics.RecordAttribution(attributionStart, len(labels))
	}

	// Step 4: reconcile into the store
	persistStart := metrics.StartTiming()
	inserted, skipped, err := reconciler.InsertBatch(ctx, records)
	if err != nil {
		return fail(fmt.Errorf("insert batch: %w", err))
	}
	metrics.RecordPersist(persistStart, inserted, skipped)

	metrics.CalculateTotalDuration(overallStart)
	metrics.LogRunSummary(s.logger, source.Name)

	result.FilesFound = metrics.FilesFound
	result.ContentFetched = metrics.ContentFetched
	result.ContentSkipped = metrics.ContentSkipped
	result.ContentFailed = metrics.ContentFailed
	result.FoldersLabeled = metrics.FoldersLabeled
	result.Inserted = inserted
	result.Skipped = skipped
	result.Duration = metrics.TotalDuration
	return result
}

// ReingestAfter removes persisted documents created after the cutoff and
// re-collects the source with the given filter, replaying the window that
// produced them. Stale documents are enumerated before deletion so the log
// records exactly what is removed.
func (s *CollectService) ReingestAfter(ctx context.Context, source Source, cutoff time.Time, filter drive.FilterRequest) (SourceSummary, error) {
	repo := s.repoFor(source.Collection)

	stale, err := repo.FindCreatedAfter(ctx, cutoff)
	if err != nil {
		return SourceSummary{}, fmt.Errorf("enumerate documents after %s: %w", cutoff.Format(time.RFC3339), err)
	}
	for _, rec := range stale {
		s.logger.Debug("Document scheduled for re-ingest",
			"file_id", rec.ID, "name", rec.Name, "created_time", rec.CreatedTime)
	}

	deleted, err := repo.DeleteCreatedAfter(ctx, cutoff)
	if err != nil {
		return SourceSummary{}, fmt.Errorf("delete documents after %s: %w", cutoff.Format(time.RFC3339), err)
	}
	s.logger.Collect("Stale documents removed", source.Name,
		"deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))

	return s.RunSource(ctx, source, filter), nil
}

// RefreshAttribution relabels every persisted document in the source's
// collection from the current folder names: distinct first-parents are
// enumerated from the store, resolved, and bulk-updated. Safe to re-run.
func (s *CollectService) RefreshAttribution(ctx context.Context, source Source) (int64, error) {
	repo := s.repoFor(source.Collection)
	labels, err := s.resolver.BuildLabelMapFromStore(ctx, repo)
	if err != nil {
		return 0, fmt.Errorf("build label map from store: %w", err)
	}
	modified, err := NewReconciler(repo).UpsertLabels(ctx, labels)
	if err != nil {
		return modified, err
	}
	s.logger.Collect("Attribution refreshed", source.Name, "documents_modified", modified)
	return modified, nil
}
