package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"drivesync/application"
	"drivesync/database"
	"drivesync/domain/drive"
	"drivesync/logging"
)

// RunHandlers exposes the admin surface of the collector: health, run
// triggering and the latest run summary. Runs are single-flight; a trigger
// while a run is in progress is rejected.
type RunHandlers struct {
	service *application.CollectService
	db      *database.Database
	sources []application.Source
	filter  drive.FilterRequest
	logger  *logging.Logger

	mu      sync.Mutex
	running bool
	last    *application.RunSummary
}

func NewRunHandlers(
	service *application.CollectService,
	db *database.Database,
	sources []application.Source,
	filter drive.FilterRequest,
) *RunHandlers {
	return &RunHandlers{
		service: service,
		db:      db,
		sources: sources,
		filter:  filter,
		logger:  logging.Default().WithComponent("run_handlers"),
	}
}

// Health reports persisted-store connectivity.
func (h *RunHandlers) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.Health(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"database": stats,
	})
}

// TriggerRun starts a collection run in the background. The request body may
// carry a filter request overriding the configured defaults; an empty body
// uses them as-is.
func (h *RunHandlers) TriggerRun(w http.ResponseWriter, r *http.Request) {
	filter := h.filter
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
			http.Error(w, "invalid filter request: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := filter.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		http.Error(w, "a collection run is already in progress", http.StatusConflict)
		return
	}
	h.running = true
	h.mu.Unlock()

	go func() {
		// Detached from the request context; the run outlives the trigger.
		summary, err := h.service.Run(context.Background(), h.sources, filter)

		h.mu.Lock()
		h.running = false
		if summary != nil {
			h.last = summary
		}
		h.mu.Unlock()

		if err != nil {
			h.logger.Error("Triggered run failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// LatestRun returns the summary of the most recent completed run.
func (h *RunHandlers) LatestRun(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	last := h.last
	running := h.running
	h.mu.Unlock()

	if last == nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"status":  "no completed runs",
			"running": running,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running": running,
		"summary": last,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
