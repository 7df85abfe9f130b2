package drive

// Google Workspace MIME types relevant to discovery and content export.
const (
	MimeTypeFolder      = "application/vnd.google-apps.folder"
	MimeTypeDocument    = "application/vnd.google-apps.document"
	MimeTypeSpreadsheet = "application/vnd.google-apps.spreadsheet"

	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// Owner identifies a Drive user that owns a file.
type Owner struct {
	DisplayName  string `bson:"displayName" json:"displayName"`
	EmailAddress string `bson:"emailAddress" json:"emailAddress"`
}

// FileRecord is the internal representation of one remote file: the metadata
// projection returned by discovery plus the derived fields filled in later
// in the pipeline. Content is populated by the content fetcher and CreatedBy
// by attribution; both are empty at discovery time. The persisted document
// uses exactly these field names.
type FileRecord struct {
	ID           string   `bson:"id" json:"id"`
	Name         string   `bson:"name" json:"name"`
	MimeType     string   `bson:"mimeType" json:"mimeType"`
	CreatedTime  string   `bson:"createdTime" json:"createdTime"`
	ModifiedTime string   `bson:"modifiedTime" json:"modifiedTime"`
	Size         int64    `bson:"size" json:"size"`
	WebViewLink  string   `bson:"webViewLink" json:"webViewLink"`
	Owners       []Owner  `bson:"owners" json:"owners"`
	Parents      []string `bson:"parents" json:"parents"`
	DriveID      string   `bson:"driveId,omitempty" json:"driveId,omitempty"`
	Content      *string  `bson:"content" json:"content"`
	CreatedBy    string   `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// FirstParent returns the first parent folder ID, or "" when the file has
// none. Drive reports at most one parent per file; only the first is ever
// consulted.
func (f *FileRecord) FirstParent() string {
	if len(f.Parents) == 0 {
		return ""
	}
	return f.Parents[0]
}

// IsFolder reports whether the record is a folder node.
func (f *FileRecord) IsFolder() bool {
	return f.MimeType == MimeTypeFolder
}
