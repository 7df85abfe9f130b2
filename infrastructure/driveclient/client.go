package driveclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/cenkalti/backoff/v4"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"drivesync/domain/drive"
	"drivesync/logging"
)

// searchFields is the projection requested on every list call.
const searchFields = "nextPageToken, files(id, name, mimeType, createdTime, modifiedTime, size, webViewLink, owners, parents, driveId)"

// metadataFields is the projection requested on single-file lookups.
const metadataFields = "id, name, mimeType, createdTime, modifiedTime, size, webViewLink, owners, parents, driveId"

// pageSize is the Drive API maximum for files.list.
const pageSize = 1000

// Page is one page of a paginated search. An empty NextPageToken means the
// result set is exhausted.
type Page struct {
	Records       []*drive.FileRecord
	NextPageToken string
}

// Client abstracts the Drive REST operations the pipeline consumes: single
// file metadata, paginated search and content export. Every call supports
// items living in shared drives.
type Client interface {
	GetFile(ctx context.Context, fileID string) (*drive.FileRecord, error)
	ListFiles(ctx context.Context, query, pageToken string) (*Page, error)
	Export(ctx context.Context, fileID, mimeType string) (string, error)
}

// ClientImpl wraps the Drive SDK service. Transient failures (throttling,
// 5xx, network) are retried with exponential backoff before surfacing.
type ClientImpl struct {
	svc        *gdrive.Service
	maxRetries uint64
	logger     *logging.Logger
}

// NewClient creates a Drive client implementation around an authenticated
// service.
func NewClient(svc *gdrive.Service) *ClientImpl {
	return &ClientImpl{
		svc:        svc,
		maxRetries: 3,
		logger:     logging.Default().WithComponent("drive_client"),
	}
}

// GetFile fetches one file's metadata.
func (c *ClientImpl) GetFile(ctx context.Context, fileID string) (*drive.FileRecord, error) {
	var file *gdrive.File
	err := c.withRetry(ctx, "files.get", func() error {
		var err error
		file, err = c.svc.Files.Get(fileID).
			Fields(metadataFields).
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", fileID, err)
	}
	return toFileRecord(file), nil
}

// ListFiles issues one search call for the given query and continuation
// token.
func (c *ClientImpl) ListFiles(ctx context.Context, query, pageToken string) (*Page, error) {
	var list *gdrive.FileList
	err := c.withRetry(ctx, "files.list", func() error {
		var err error
		list, err = c.svc.Files.List().
			Q(query).
			Spaces("drive").
			Fields(searchFields).
			PageToken(pageToken).
			PageSize(pageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	records := make([]*drive.FileRecord, 0, len(list.Files))
	for _, f := range list.Files {
		records = append(records, toFileRecord(f))
	}
	return &Page{Records: records, NextPageToken: list.NextPageToken}, nil
}

// Export converts a Google Workspace file to the target MIME type and
// returns the body as text.
func (c *ClientImpl) Export(ctx context.Context, fileID, mimeType string) (string, error) {
	var body []byte
	err := c.withRetry(ctx, "files.export", func() error {
		res, err := c.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
		if err != nil {
			return err
		}
		defer res.Body.Close()
		body, err = io.ReadAll(res.Body)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("export file %s as %s: %w", fileID, mimeType, err)
	}
	return string(body), nil
}

// withRetry runs fn with exponential backoff on transient errors. Permanent
// errors (4xx other than 429) abort immediately.
func (c *ClientImpl) withRetry(ctx context.Context, op string, fn func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		c.logger.Warn("Transient Drive API error, retrying", "operation", op, "error", err)
		return err
	}, policy)
}

func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
