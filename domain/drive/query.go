package drive

import (
	"fmt"
	"strings"
)

// queryTimeLayout is the timestamp format accepted by the Drive search
// endpoint for time comparisons.
const queryTimeLayout = "2006-01-02T15:04:05"

// mimeTypeFilters maps file-type tags to native Drive query filters. Tags
// absent from the table fall back to a filename-extension substring match.
var mimeTypeFilters = map[string]string{
	// Documents
	"pdf":  "mimeType='application/pdf'",
	"doc":  "mimeType='application/msword'",
	"docx": "mimeType='application/vnd.openxmlformats-officedocument.wordprocessingml.document'",
	"txt":  "mimeType='text/plain'",
	"rtf":  "mimeType='application/rtf'",

	// Spreadsheets
	"xls":  "mimeType='application/vnd.ms-excel'",
	"xlsx": "mimeType='application/vnd.openxmlformats-officedocument.spreadsheetml.sheet'",
	"csv":  "mimeType='text/csv'",

	// Presentations
	"ppt":  "mimeType='application/vnd.ms-powerpoint'",
	"pptx": "mimeType='application/vnd.openxmlformats-officedocument.presentationml.presentation'",

	// Google Workspace files
	"gdoc":     "mimeType='application/vnd.google-apps.document'",
	"gsheet":   "mimeType='application/vnd.google-apps.spreadsheet'",
	"gslide":   "mimeType='application/vnd.google-apps.presentation'",
	"gform":    "mimeType='application/vnd.google-apps.form'",
	"gdrawing": "mimeType='application/vnd.google-apps.drawing'",

	// Images
	"image": "mimeType contains 'image/'",
	"jpg":   "mimeType='image/jpeg'",
	"jpeg":  "mimeType='image/jpeg'",
	"png":   "mimeType='image/png'",
	"gif":   "mimeType='image/gif'",
	"bmp":   "mimeType='image/bmp'",
	"svg":   "mimeType='image/svg+xml'",
	"webp":  "mimeType='image/webp'",

	// Videos
	"video": "mimeType contains 'video/'",
	"mp4":   "mimeType='video/mp4'",
	"avi":   "mimeType='video/x-msvideo'",
	"mov":   "mimeType='video/quicktime'",
	"wmv":   "mimeType='video/x-ms-wmv'",

	// Audio
	"audio": "mimeType contains 'audio/'",
	"mp3":   "mimeType='audio/mpeg'",
	"wav":   "mimeType='audio/wav'",

	// Archives
	"zip": "mimeType='application/zip'",
	"rar": "mimeType='application/x-rar-compressed'",
	"7z":  "mimeType='application/x-7z-compressed'",
	"tar": "mimeType='application/x-tar'",
	"gz":  "mimeType='application/gzip'",

	// Others
	"json": "mimeType='application/json'",
	"xml":  "mimeType='application/xml'",
	"html": "mimeType='text/html'",
	"css":  "mimeType='text/css'",
	"js":   "mimeType='application/javascript'",
	"py":   "mimeType='text/x-python'",
}

// FileTypeFilter resolves a single file-type tag to its native query filter.
func FileTypeFilter(tag string) string {
	lower := strings.ToLower(tag)
	if f, ok := mimeTypeFilters[lower]; ok {
		return f
	}
	return fmt.Sprintf("name contains '.%s'", escapeQueryValue(lower))
}

// FileTypeDisjunction joins the filters for a tag list with "or". Returns ""
// for an empty list.
func FileTypeDisjunction(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	filters := make([]string, 0, len(tags))
	for _, tag := range tags {
		filters = append(filters, FileTypeFilter(tag))
	}
	return strings.Join(filters, " or ")
}

// BuildQuery translates a filter request scoped to one folder into the
// native Drive search expression: the conjunction of the inclusive time
// window on timeField, not-trashed, the parent scope, the file-type
// disjunction and the filename-keyword disjunction. Exclude keywords are
// deliberately absent; the query language has no safe "not contains" and
// they are applied as a post-filter after merging.
func BuildQuery(searchType SearchType, window Window, folderID string, fileTypes, filenameKeywords []string) string {
	field := searchType.TimeField()

	parts := []string{
		fmt.Sprintf("%s >= '%s'", field, window.Start.UTC().Format(queryTimeLayout)),
		fmt.Sprintf("%s <= '%s'", field, window.End.UTC().Format(queryTimeLayout)),
		"trashed = false",
	}

	if folderID != "" {
		parts = append(parts, fmt.Sprintf("'%s' in parents", escapeQueryValue(folderID)))
	}

	if typeFilter := FileTypeDisjunction(fileTypes); typeFilter != "" {
		parts = append(parts, "("+typeFilter+")")
	}

	if len(filenameKeywords) > 0 {
		nameFilters := make([]string, 0, len(filenameKeywords))
		for _, keyword := range filenameKeywords {
			nameFilters = append(nameFilters, fmt.Sprintf("name contains '%s'", escapeQueryValue(keyword)))
		}
		parts = append(parts, "("+strings.Join(nameFilters, " or ")+")")
	}

	return strings.Join(parts, " and ")
}

// ChildFolderQuery matches the non-trashed folder children of parentID, used
// by folder traversal.
func ChildFolderQuery(parentID string) string {
	return fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", escapeQueryValue(parentID), MimeTypeFolder)
}

// escapeQueryValue escapes single quotes and backslashes inside a quoted
// Drive query literal.
func escapeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
