package collector

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"drivesync/logging"
)

func TestLogRunSummary_EmitsCountsAndPerPhaseTimings(t *testing.T) {
	var buf bytes.Buffer
	logger := &logging.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	m := NewRunMetrics()
	m.FilesFound = 3
	m.ContentFetched = 2
	m.ContentSkipped = 1
	m.DiscoveryDuration = 250 * time.Millisecond
	m.ContentDuration = 400 * time.Millisecond
	m.TotalDuration = time.Second

	m.LogRunSummary(logger, "recordings")

	out := buf.String()
	assert.Contains(t, out, `"content_skipped":1`)
	assert.Contains(t, out, `"operation":"discovery"`)
	assert.Contains(t, out, `"operation":"content_fetch"`)
	assert.Contains(t, out, `"operation":"attribution"`)
	assert.Contains(t, out, `"operation":"persist"`)
	assert.Contains(t, out, `"operation":"collect_source"`)
	assert.Contains(t, out, `"duration_ms":400`)
}
