package collector

import (
	"context"
	"fmt"
	"strings"

	"drivesync/domain/contracts"
	"drivesync/domain/drive"
	"drivesync/infrastructure/driveclient"
	"drivesync/logging"
)

// FolderTraverser discovers every descendant folder of a root via paginated
// child listings.
type FolderTraverser struct {
	client driveclient.Client
	logger *logging.Logger
}

func NewFolderTraverser(client driveclient.Client) *FolderTraverser {
	return &FolderTraverser{
		client: client,
		logger: logging.Default().WithComponent("folder_traverser"),
	}
}

// DiscoverDescendants returns the IDs of all folders below rootID, the root
// itself excluded. A failure listing one folder's children is logged and
// that subtree is skipped; a single inaccessible branch never aborts the
// traversal.
func (t *FolderTraverser) DiscoverDescendants(ctx context.Context, rootID string) []string {
	var descendants []string
	seen := map[string]bool{rootID: true}
	t.walk(ctx, rootID, &descendants, seen)
	return descendants
}

func (t *FolderTraverser) walk(ctx context.Context, folderID string, acc *[]string, seen map[string]bool) {
	// Drain every page of children before recursing.
	var children []string
	pageToken := ""
	for {
		page, err := t.client.ListFiles(ctx, drive.ChildFolderQuery(folderID), pageToken)
		if err != nil {
			t.logger.Warn("Failed to list child folders, continuing with folders already discovered",
				"folder_id", folderID, "error", err)
			break
		}
		for _, rec := range page.Records {
			children = append(children, rec.ID)
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	for _, childID := range children {
		if seen[childID] {
			continue
		}
		seen[childID] = true
		*acc = append(*acc, childID)
		t.walk(ctx, childID, acc, seen)
	}
}

// SearchExecutor runs one bounded query to exhaustion across its
// continuation tokens.
type SearchExecutor struct {
	client driveclient.Client
	logger *logging.Logger
}

func NewSearchExecutor(client driveclient.Client) *SearchExecutor {
	return &SearchExecutor{
		client: client,
		logger: logging.Default().WithComponent("search_executor"),
	}
}

// Execute returns all records matching the query. A request failure mid
// pagination is logged and the accumulation so far is returned; a partial
// result is preferred over a crashed batch.
func (e *SearchExecutor) Execute(ctx context.Context, query string) []*drive.FileRecord {
	var results []*drive.FileRecord
	pageToken := ""
	for {
		page, err := e.client.ListFiles(ctx, query, pageToken)
		if err != nil {
			e.logger.Warn("Search failed, returning partial results",
				"error", err, "accumulated", len(results))
			return results
		}
		results = append(results, page.Records...)
		if page.NextPageToken == "" {
			return results
		}
		pageToken = page.NextPageToken
	}
}

// DiscoveryEngine orchestrates traversal, query construction and search
// execution for one filter request, then deduplicates and post-filters the
// merged result.
type DiscoveryEngine struct {
	client    driveclient.Client
	traverser *FolderTraverser
	executor  *SearchExecutor
	logger    *logging.Logger
}

func NewDiscoveryEngine(client driveclient.Client) *DiscoveryEngine {
	return &DiscoveryEngine{
		client:    client,
		traverser: NewFolderTraverser(client),
		executor:  NewSearchExecutor(client),
		logger:    logging.Default().WithComponent("discovery_engine"),
	}
}

// Discover runs the full discovery pipeline for the request. The returned
// slice contains no two records with the same ID (first-seen order wins) and
// no record whose name matches an exclude keyword. An empty FolderID runs a
// single unscoped search over the whole store.
func (e *DiscoveryEngine) Discover(ctx context.Context, req drive.FilterRequest) ([]*drive.FileRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter request: %w", err)
	}
	window, err := req.Window()
	if err != nil {
		return nil, err
	}

	var folders []string
	if req.FolderID != "" {
		root, err := e.client.GetFile(ctx, req.FolderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", contracts.ErrRootFolderInaccessible, req.FolderID, err)
		}
		if !root.IsFolder() {
			return nil, fmt.Errorf("%w: %s has type %s", contracts.ErrNotAFolder, req.FolderID, root.MimeType)
		}
		e.logger.Drive("Root folder verified", "folder_id", root.ID, "name", root.Name, "drive_id", root.DriveID)

		folders = []string{req.FolderID}
		if req.Recursive {
			descendants := e.traverser.DiscoverDescendants(ctx, req.FolderID)
			folders = append(folders, descendants...)
			e.logger.Drive("Subfolder discovery complete", "folders_to_search", len(folders))
		}
	}

	var merged []*drive.FileRecord
	if len(folders) == 0 {
		query := drive.BuildQuery(req.SearchType, window, "", req.FileTypes, req.FilenameKeywords)
		if req.Debug {
			e.logger.Debug("Searching entire store", "query", query)
		}
		merged = e.executor.Execute(ctx, query)
	} else {
		for i, folderID := range folders {
			query := drive.BuildQuery(req.SearchType, window, folderID, req.FileTypes, req.FilenameKeywords)
			if req.Debug {
				e.logger.Debug("Searching folder", "index", i+1, "total", len(folders), "query", query)
			}
			merged = append(merged, e.executor.Execute(ctx, query)...)
		}
	}

	// The same file can surface from several folder-scoped queries.
	unique := dedupeByID(merged)
	filtered, excluded := filterExcludeKeywords(unique, req.ExcludeKeywords)

	e.logger.Drive("Discovery complete",
		"matched", len(merged),
		"unique", len(unique),
		"excluded", excluded,
		"returned", len(filtered))

	return filtered, nil
}

// dedupeByID drops records already seen, preserving first-seen order.
func dedupeByID(records []*drive.FileRecord) []*drive.FileRecord {
	seen := make(map[string]bool, len(records))
	unique := make([]*drive.FileRecord, 0, len(records))
	for _, rec := range records {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		unique = append(unique, rec)
	}
	return unique
}

// filterExcludeKeywords drops records whose name contains any keyword,
// case-insensitive. The Drive query language cannot express this natively.
func filterExcludeKeywords(records []*drive.FileRecord, keywords []string) ([]*drive.FileRecord, int) {
	if len(keywords) == 0 {
		return records, 0
	}
	kept := make([]*drive.FileRecord, 0, len(records))
	excluded := 0
	for _, rec := range records {
		name := strings.ToLower(rec.Name)
		drop := false
		for _, keyword := range keywords {
			if strings.Contains(name, strings.ToLower(keyword)) {
				drop = true
				break
			}
		}
		if drop {
			excluded++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, excluded
}
