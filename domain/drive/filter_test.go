package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     FilterRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  FilterRequest{StartDate: "2025-11-01", EndDate: "2025-11-15", SearchType: SearchTypeCreated},
		},
		{
			name:    "malformed_start_date",
			req:     FilterRequest{StartDate: "11/01/2025", EndDate: "2025-11-15", SearchType: SearchTypeCreated},
			wantErr: "parse start date",
		},
		{
			name:    "malformed_end_date",
			req:     FilterRequest{StartDate: "2025-11-01", EndDate: "not-a-date", SearchType: SearchTypeModified},
			wantErr: "parse end date",
		},
		{
			name:    "unsupported_search_type",
			req:     FilterRequest{StartDate: "2025-11-01", EndDate: "2025-11-15", SearchType: "accessed"},
			wantErr: "unsupported search type",
		},
		{
			name:    "end_before_start",
			req:     FilterRequest{StartDate: "2025-11-15", EndDate: "2025-11-01", SearchType: SearchTypeCreated},
			wantErr: "precedes start date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestSearchType_TimeField(t *testing.T) {
	assert.Equal(t, "createdTime", SearchTypeCreated.TimeField())
	assert.Equal(t, "modifiedTime", SearchTypeModified.TimeField())
}

func TestFileRecord_FirstParent(t *testing.T) {
	rec := &FileRecord{Parents: []string{"p1", "p2"}}
	assert.Equal(t, "p1", rec.FirstParent())

	orphan := &FileRecord{}
	assert.Equal(t, "", orphan.FirstParent())
}

func TestFileRecord_IsFolder(t *testing.T) {
	assert.True(t, (&FileRecord{MimeType: MimeTypeFolder}).IsFolder())
	assert.False(t, (&FileRecord{MimeType: MimeTypeDocument}).IsFolder())
}
