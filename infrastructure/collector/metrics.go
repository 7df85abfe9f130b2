package collector

import (
	"time"

	"drivesync/logging"
)

// RunMetrics tracks per-source counters and timings for one collection run.
// Every dropped, filtered or failed item is counted so the run summary
// leaves no partial result silent.
type RunMetrics struct {
	DiscoveryDuration   time.Duration
	ContentDuration     time.Duration
	AttributionDuration time.Duration
	PersistDuration     time.Duration
	TotalDuration       time.Duration

	FilesFound     int
	ContentFetched int
	ContentSkipped int
	ContentFailed  int
	FoldersLabeled int
	Inserted       int64
	Skipped        int64

	Errors int
}

// NewRunMetrics creates a new metrics collection instance
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{}
}

// StartTiming begins timing for a specific operation
func (m *RunMetrics) StartTiming() time.Time {
	return time.Now()
}

func (m *RunMetrics) RecordDiscovery(start time.Time, found int) {
	m.DiscoveryDuration = time.Since(start)
	m.FilesFound = found
}

// RecordContentFetch separates the three content outcomes: fetched carries
// text, skipped had no textual form for its content type, failed is a real
// retrieval error.
func (m *RunMetrics) RecordContentFetch(start time.Time, fetched, skipped, failed int) {
	m.ContentDuration = time.Since(start)
	m.ContentFetched = fetched
	m.ContentSkipped = skipped
	m.ContentFailed = failed
}

func (m *RunMetrics) RecordAttribution(start time.Time, folders int) {
	m.AttributionDuration = time.Since(start)
	m.FoldersLabeled = folders
}

func (m *RunMetrics) RecordPersist(start time.Time, inserted, skipped int64) {
	m.PersistDuration = time.Since(start)
	m.Inserted = inserted
	m.Skipped = skipped
}

func (m *RunMetrics) CalculateTotalDuration(start time.Time) {
	m.TotalDuration = time.Since(start)
}

// RecordError increments the error counter
func (m *RunMetrics) RecordError() {
	m.Errors++
}

// LogRunSummary emits the structured end-of-run summary for one source: one
// line of counts, then a performance line per pipeline phase.
func (m *RunMetrics) LogRunSummary(logger *logging.Logger, source string) {
	logger.Collect("Run summary", source,
		"files_found", m.FilesFound,
		"content_fetched", m.ContentFetched,
		"content_skipped", m.ContentSkipped,
		"content_failed", m.ContentFailed,
		"folders_labeled", m.FoldersLabeled,
		"inserted", m.Inserted,
		"skipped", m.Skipped,
		"errors", m.Errors)
	logger.Performance("discovery", m.DiscoveryDuration, "source", source)
	logger.Performance("content_fetch", m.ContentDuration, "source", source)
	logger.Performance("attribution", m.AttributionDuration, "source", source)
	logger.Performance("persist", m.PersistDuration, "source", source)
	logger.Performance("collect_source", m.TotalDuration, "source", source)
}
