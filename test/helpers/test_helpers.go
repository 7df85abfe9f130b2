package helpers

import (
	"drivesync/domain/drive"
	"drivesync/infrastructure/driveclient"
)

// TestData provides builders for common test fixtures
type TestData struct{}

func NewTestData() *TestData {
	return &TestData{}
}

// Doc builds a Google Doc record created at the given RFC 3339 instant with
// one parent folder.
func (d *TestData) Doc(id, name, createdTime, parentID string) *drive.FileRecord {
	return &drive.FileRecord{
		ID:           id,
		Name:         name,
		MimeType:     drive.MimeTypeDocument,
		CreatedTime:  createdTime,
		ModifiedTime: createdTime,
		Parents:      []string{parentID},
	}
}

// Folder builds a folder record.
func (d *TestData) Folder(id, name string) *drive.FileRecord {
	return &drive.FileRecord{
		ID:       id,
		Name:     name,
		MimeType: drive.MimeTypeFolder,
	}
}

// File builds a record with an arbitrary content type.
func (d *TestData) File(id, name, mimeType string, parents ...string) *drive.FileRecord {
	return &drive.FileRecord{
		ID:       id,
		Name:     name,
		MimeType: mimeType,
		Parents:  parents,
	}
}

// Page wraps records into one search result page.
func (d *TestData) Page(next string, records ...*drive.FileRecord) *driveclient.Page {
	return &driveclient.Page{Records: records, NextPageToken: next}
}

// EmptyPage is a terminal page with no records.
func (d *TestData) EmptyPage() *driveclient.Page {
	return &driveclient.Page{}
}
