package ui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"valuerank/domain/comparison"
	"valuerank/domain/core"
	apperrors "valuerank/internal/errors"
)

// handleHealth reports liveness
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runListItem is the list view of a stored analysis
type runListItem struct {
	RunID        core.RunID     `json:"runId"`
	Models       []core.ModelID `json:"models"`
	TotalSamples int            `json:"totalSamples"`
	CreatedAt    core.Timestamp `json:"createdAt"`
	CompletedAt  core.Timestamp `json:"completedAt,omitempty"`
}

// handleListRuns returns available run analyses, newest first.
// Query: limit (optional, default 50).
func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			a.writeError(w, apperrors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	runs, err := a.reader.ListRunAnalyses(r.Context(), limit)
	if err != nil {
		a.writeError(w, err)
		return
	}

	items := make([]runListItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, runListItem{
			RunID:        run.RunID,
			Models:       run.ModelIDs(),
			TotalSamples: run.TotalSamples(),
			CreatedAt:    run.CreatedAt,
			CompletedAt:  run.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCompare returns the full cross-run comparison.
// Query: runs (required, comma-separated run ids).
func (a *App) handleCompare(w http.ResponseWriter, r *http.Request) {
	runIDs, err := parseRunIDs(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := a.service.Compare(r.Context(), runIDs)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCompareValues returns per-value win rates across the selected runs.
// Query: runs (required), model (optional filter).
func (a *App) handleCompareValues(w http.ResponseWriter, r *http.Request) {
	runIDs, err := parseRunIDs(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	modelFilter := core.ModelID(r.URL.Query().Get("model"))

	values, err := a.service.CompareValues(r.Context(), runIDs, modelFilter)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

// handleTimeline returns the chronological metric view of the selected runs.
// Query: runs (required), metric (mean|stddev, default mean), model (optional).
func (a *App) handleTimeline(w http.ResponseWriter, r *http.Request) {
	runIDs, err := parseRunIDs(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	metric, err := comparison.ParseTimelineMetric(r.URL.Query().Get("metric"))
	if err != nil {
		a.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	modelFilter := core.ModelID(r.URL.Query().Get("model"))

	timeline, err := a.service.Timeline(r.Context(), runIDs, metric, modelFilter)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, timeline)
}

// parseRunIDs extracts the runs query parameter as an ordered id list
func parseRunIDs(r *http.Request) ([]core.RunID, error) {
	raw := r.URL.Query().Get("runs")
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.InvalidInput("runs query parameter is required")
	}

	parts := strings.Split(raw, ",")
	runIDs := make([]core.RunID, 0, len(parts))
	for _, part := range parts {
		runID, err := core.ParseRunID(strings.TrimSpace(part))
		if err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		runIDs = append(runIDs, runID)
	}
	return runIDs, nil
}

// errorResponse is the JSON error envelope
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps application error codes onto HTTP status codes
func (a *App) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	} else {
		a.logger.Debug("request rejected: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
