package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"drivesync/domain/drive"
	"drivesync/infrastructure/collector"
)

// previewLength bounds the content preview column.
const previewLength = 200

// WriteRecords writes discovered records as a CSV listing, one row per
// record.
func WriteRecords(w io.Writer, records []*drive.FileRecord) error {
	cw := csv.NewWriter(w)
	header := []string{
		"File Name", "File ID", "File Type", "Created", "Modified",
		"Size", "Link", "Owner", "Parent Folder ID", "Shared Drive ID", "Created By",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		owner := ""
		if len(rec.Owners) > 0 {
			owner = rec.Owners[0].EmailAddress
		}
		row := []string{
			rec.Name,
			rec.ID,
			rec.MimeType,
			rec.CreatedTime,
			rec.ModifiedTime,
			humanSize(rec.Size),
			rec.WebViewLink,
			owner,
			rec.FirstParent(),
			rec.DriveID,
			rec.CreatedBy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", rec.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFetchResults writes a CSV summary of content-fetch outcomes. With
// includeContent the full text is written; otherwise a bounded preview.
func WriteFetchResults(w io.Writer, results []collector.FetchResult, includeContent bool) error {
	cw := csv.NewWriter(w)

	contentColumn := "Preview"
	if includeContent {
		contentColumn = "Content"
	}
	if err := cw.Write([]string{"Index", "File Name", "Status", "Content Length", contentColumn}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, res := range results {
		status := "failed"
		if res.Skipped {
			status = "skipped"
		}
		length := 0
		text := ""
		if res.Content != nil {
			status = "ok"
			length = len(*res.Content)
			text = *res.Content
			if !includeContent && len(text) > previewLength {
				text = text[:previewLength] + "..."
			}
		}
		row := []string{strconv.Itoa(i + 1), res.Name, status, strconv.Itoa(length), text}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write result %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ContentPath derives the companion fetch-outcome CSV path from the records
// path: "records.csv" becomes "records_content.csv".
func ContentPath(recordsPath string) string {
	ext := filepath.Ext(recordsPath)
	if ext == "" {
		ext = ".csv"
	}
	return strings.TrimSuffix(recordsPath, ext) + "_content" + ext
}

// humanSize renders a byte count in a readable unit.
func humanSize(size int64) string {
	switch {
	case size <= 0:
		return "N/A"
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB", float64(size)/(1024*1024*1024))
	}
}
