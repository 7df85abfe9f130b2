package collector

import (
	"context"

	"drivesync/domain/drive"
	"drivesync/infrastructure/driveclient"
	"drivesync/logging"
)

// exportStrategies maps a source content type to the export MIME type used
// to pull its textual payload. Types absent from the table have no textual
// form and yield a nil content; that is a fallback, not an error.
var exportStrategies = map[string]string{
	drive.MimeTypeDocument:    drive.ExportMimeText,
	drive.MimeTypeSpreadsheet: drive.ExportMimeCSV,
}

// FetchResult is the outcome of one content retrieval. Content is nil when
// the file has no exportable text or retrieval failed; Name is empty only
// when the metadata lookup itself failed. Skipped distinguishes content
// types with no textual form from real retrieval failures.
type FetchResult struct {
	ID      string
	Name    string
	Content *string
	Skipped bool
}

// ContentFetcher retrieves the textual payload of records, one at a time,
// isolating per-item failures from the rest of the batch.
type ContentFetcher struct {
	client driveclient.Client
	logger *logging.Logger
}

func NewContentFetcher(client driveclient.Client) *ContentFetcher {
	return &ContentFetcher{
		client: client,
		logger: logging.Default().WithComponent("content_fetcher"),
	}
}

// FetchContents retrieves content for each ID. The result has the same
// length and positional order as ids, with a failed entry at any position
// where retrieval failed. A per-item error never aborts the remaining items.
func (f *ContentFetcher) FetchContents(ctx context.Context, ids []string) []FetchResult {
	results := make([]FetchResult, 0, len(ids))
	succeeded, skipped := 0, 0
	for i, id := range ids {
		res := f.fetchOne(ctx, id)
		if res.Content != nil {
			succeeded++
		}
		if res.Skipped {
			skipped++
		}
		f.logger.Debug("Fetched content", "index", i+1, "total", len(ids), "file_id", id, "ok", res.Content != nil)
		results = append(results, res)
	}
	f.logger.Drive("Content fetch complete", "requested", len(ids), "succeeded", succeeded, "skipped", skipped)
	return results
}

func (f *ContentFetcher) fetchOne(ctx context.Context, id string) FetchResult {
	meta, err := f.client.GetFile(ctx, id)
	if err != nil {
		f.logger.Warn("Metadata lookup failed, skipping item", "file_id", id, "error", err)
		return FetchResult{ID: id}
	}

	target, ok := exportStrategies[meta.MimeType]
	if !ok {
		f.logger.Debug("No export strategy for content type", "file_id", id, "mime_type", meta.MimeType)
		return FetchResult{ID: id, Name: meta.Name, Skipped: true}
	}

	content, err := f.client.Export(ctx, id, target)
	if err != nil {
		f.logger.Warn("Content export failed, skipping item", "file_id", id, "error", err)
		return FetchResult{ID: id}
	}
	return FetchResult{ID: id, Name: meta.Name, Content: &content}
}

// ContentByID indexes fetch results by record ID so callers attach content
// by identifier rather than by position.
func ContentByID(results []FetchResult) map[string]*string {
	byID := make(map[string]*string, len(results))
	for _, res := range results {
		if res.ID == "" {
			continue
		}
		byID[res.ID] = res.Content
	}
	return byID
}
