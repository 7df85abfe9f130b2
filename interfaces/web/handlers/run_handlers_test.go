package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"drivesync/domain/drive"
)

func validFilter() drive.FilterRequest {
	return drive.FilterRequest{
		StartDate:  "2025-11-01",
		EndDate:    "2025-11-15",
		SearchType: drive.SearchTypeCreated,
	}
}

func TestTriggerRun_MalformedBodyRejected(t *testing.T) {
	h := NewRunHandlers(nil, nil, nil, validFilter())

	req := httptest.NewRequest(http.MethodPost, "/collect", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.TriggerRun(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid filter request")
}

func TestTriggerRun_InvalidOverrideRejected(t *testing.T) {
	h := NewRunHandlers(nil, nil, nil, validFilter())

	body := `{"searchType":"accessed"}`
	req := httptest.NewRequest(http.MethodPost, "/collect", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.TriggerRun(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLatestRun_NotFoundBeforeFirstRun(t *testing.T) {
	h := NewRunHandlers(nil, nil, nil, validFilter())

	req := httptest.NewRequest(http.MethodGet, "/runs/latest", nil)
	rec := httptest.NewRecorder()
	h.LatestRun(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no completed runs")
}
