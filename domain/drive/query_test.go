package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end string) Window {
	t.Helper()
	req := FilterRequest{StartDate: start, EndDate: end, SearchType: SearchTypeCreated}
	w, err := req.Window()
	require.NoError(t, err)
	return w
}

func TestBuildQuery_FullConjunction(t *testing.T) {
	w := mustWindow(t, "2025-11-01", "2025-11-15")

	query := BuildQuery(SearchTypeCreated, w, "F1", []string{"gdoc"}, []string{"gemini"})

	assert.Equal(t,
		"createdTime >= '2025-11-01T00:00:00' and "+
			"createdTime <= '2025-11-15T23:59:59' and "+
			"trashed = false and "+
			"'F1' in parents and "+
			"(mimeType='application/vnd.google-apps.document') and "+
			"(name contains 'gemini')",
		query)
}

func TestBuildQuery_ModifiedTimeField(t *testing.T) {
	w := mustWindow(t, "2025-01-01", "2025-01-02")

	query := BuildQuery(SearchTypeModified, w, "", nil, nil)

	assert.Contains(t, query, "modifiedTime >= '2025-01-01T00:00:00'")
	assert.Contains(t, query, "modifiedTime <= '2025-01-02T23:59:59'")
	assert.NotContains(t, query, "in parents")
}

func TestBuildQuery_MultipleTypesAndKeywords(t *testing.T) {
	w := mustWindow(t, "2025-01-01", "2025-01-02")

	query := BuildQuery(SearchTypeCreated, w, "root", []string{"pdf", "docx"}, []string{"report", "summary"})

	assert.Contains(t, query, "(mimeType='application/pdf' or mimeType='application/vnd.openxmlformats-officedocument.wordprocessingml.document')")
	assert.Contains(t, query, "(name contains 'report' or name contains 'summary')")
}

func TestBuildQuery_ExcludeKeywordsNeverEncoded(t *testing.T) {
	w := mustWindow(t, "2025-01-01", "2025-01-02")

	query := BuildQuery(SearchTypeCreated, w, "root", nil, nil)

	assert.NotContains(t, query, "not")
}

func TestFileTypeFilter_UnknownTagFallsBackToExtension(t *testing.T) {
	assert.Equal(t, "name contains '.xyz'", FileTypeFilter("xyz"))
	assert.Equal(t, "name contains '.xyz'", FileTypeFilter("XYZ"))
}

func TestFileTypeFilter_ContainsFilters(t *testing.T) {
	assert.Equal(t, "mimeType contains 'image/'", FileTypeFilter("image"))
	assert.Equal(t, "mimeType contains 'video/'", FileTypeFilter("video"))
}

func TestBuildQuery_EscapesQuotes(t *testing.T) {
	w := mustWindow(t, "2025-01-01", "2025-01-02")

	query := BuildQuery(SearchTypeCreated, w, "", nil, []string{"o'brien"})

	assert.Contains(t, query, `name contains 'o\'brien'`)
}

func TestChildFolderQuery(t *testing.T) {
	assert.Equal(t,
		"'F' in parents and mimeType='application/vnd.google-apps.folder' and trashed=false",
		ChildFolderQuery("F"))
}

func TestWindow_BoundariesInclusiveAtSecondResolution(t *testing.T) {
	w := mustWindow(t, "2025-11-01", "2025-11-15")

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"exact_start", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), true},
		{"one_second_before_start", time.Date(2025, 10, 31, 23, 59, 59, 0, time.UTC), false},
		{"exact_end", time.Date(2025, 11, 15, 23, 59, 59, 0, time.UTC), true},
		{"one_second_after_end", time.Date(2025, 11, 16, 0, 0, 0, 0, time.UTC), false},
		{"inside", time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.at))
		})
	}
}
