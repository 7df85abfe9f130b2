package drive

import (
	"fmt"
	"time"
)

// SearchType selects which timestamp field a discovery run filters on.
type SearchType string

const (
	SearchTypeCreated  SearchType = "created"
	SearchTypeModified SearchType = "modified"
)

// TimeField returns the Drive query field for the search type.
func (s SearchType) TimeField() string {
	if s == SearchTypeModified {
		return "modifiedTime"
	}
	return "createdTime"
}

// Valid reports whether the search type is one of the supported values.
func (s SearchType) Valid() bool {
	return s == SearchTypeCreated || s == SearchTypeModified
}

// DateLayout is the wire format for filter request dates.
const DateLayout = "2006-01-02"

// FilterRequest is a declarative description of one discovery run. An empty
// FolderID degrades the run to an unscoped whole-store search.
type FilterRequest struct {
	FolderID         string     `json:"folderId,omitempty"`
	StartDate        string     `json:"startDate"`
	EndDate          string     `json:"endDate"`
	SearchType       SearchType `json:"searchType"`
	Recursive        bool       `json:"recursive"`
	FileTypes        []string   `json:"fileTypes,omitempty"`
	FilenameKeywords []string   `json:"filenameKeywords,omitempty"`
	ExcludeKeywords  []string   `json:"excludeKeywords,omitempty"`
	Debug            bool       `json:"debug"`
}

// Validate rejects malformed requests before any remote call is made.
func (r *FilterRequest) Validate() error {
	if !r.SearchType.Valid() {
		return fmt.Errorf("unsupported search type %q (want %q or %q)", r.SearchType, SearchTypeCreated, SearchTypeModified)
	}
	w, err := r.Window()
	if err != nil {
		return err
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("end date %s precedes start date %s", r.EndDate, r.StartDate)
	}
	return nil
}

// Window parses the request dates into an inclusive UTC time window.
func (r *FilterRequest) Window() (Window, error) {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return Window{}, fmt.Errorf("parse start date %q: %w", r.StartDate, err)
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return Window{}, fmt.Errorf("parse end date %q: %w", r.EndDate, err)
	}
	return NewWindow(start, end), nil
}

// Window is an inclusive time range at second resolution. Boundaries are
// pinned to UTC day edges: start-of-day for Start and 23:59:59 for End.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds the inclusive UTC window covering startDate through
// endDate.
func NewWindow(startDate, endDate time.Time) Window {
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, time.UTC)
	return Window{Start: start, End: end}
}

// Contains reports whether t falls inside the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.Start) && !t.After(w.End)
}
