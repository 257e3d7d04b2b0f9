// Package testkit provides an in-memory analysis store and synthetic run
// fixtures for tests and for running the server without a database.
package testkit

import (
	"context"
	"sort"
	"sync"
	"time"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
	apperrors "valuerank/internal/errors"
	"valuerank/ports"
)

// TestKit owns a shared in-memory analysis store seeded with a synthetic
// run series.
type TestKit struct {
	store  *InMemoryAnalysisReader
	runIDs []core.RunID
}

// NewTestKit creates a test kit seeded with a deterministic demo series.
func NewTestKit() (*TestKit, error) {
	return NewTestKitWithSeed(DefaultSeed, DefaultRunCount)
}

// NewTestKitWithSeed creates a test kit seeded with a run series generated
// from the given seed.
func NewTestKitWithSeed(seed uint64, runCount int) (*TestKit, error) {
	gen := NewGenerator(seed)
	runs := gen.RunSeries(runCount, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC))

	store := NewInMemoryAnalysisReader()
	runIDs := make([]core.RunID, 0, len(runs))
	for _, run := range runs {
		store.Put(run)
		runIDs = append(runIDs, run.RunID)
	}
	return &TestKit{store: store, runIDs: runIDs}, nil
}

// AnalysisReaderAdapter returns the shared reader port.
func (t *TestKit) AnalysisReaderAdapter() ports.AnalysisReader {
	return t.store
}

// Store returns the underlying store for tests that need to add runs.
func (t *TestKit) Store() *InMemoryAnalysisReader {
	return t.store
}

// RunIDs returns the seeded run ids in generation (chronological) order.
func (t *TestKit) RunIDs() []core.RunID {
	ids := make([]core.RunID, len(t.runIDs))
	copy(ids, t.runIDs)
	return ids
}

// InMemoryAnalysisReader is a thread-safe AnalysisReader backed by a map.
type InMemoryAnalysisReader struct {
	mu   sync.RWMutex
	runs map[core.RunID]*analysis.RunAnalysis
}

// NewInMemoryAnalysisReader creates an empty in-memory reader.
func NewInMemoryAnalysisReader() *InMemoryAnalysisReader {
	return &InMemoryAnalysisReader{runs: make(map[core.RunID]*analysis.RunAnalysis)}
}

// Put stores or replaces a run analysis.
func (r *InMemoryAnalysisReader) Put(run *analysis.RunAnalysis) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.RunID] = run
}

// GetRunAnalysis returns the stored analysis or NOT_FOUND.
func (r *InMemoryAnalysisReader) GetRunAnalysis(_ context.Context, runID core.RunID) (*analysis.RunAnalysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[runID]
	if !ok {
		return nil, apperrors.NotFound("analysis for run " + runID.String())
	}
	return run, nil
}

// ListRunAnalyses returns stored analyses newest first.
func (r *InMemoryAnalysisReader) ListRunAnalyses(_ context.Context, limit int) ([]*analysis.RunAnalysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*analysis.RunAnalysis, 0, len(r.runs))
	for _, run := range r.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		ti, tj := runs[i].CreatedAt.Time(), runs[j].CreatedAt.Time()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return runs[i].RunID < runs[j].RunID
	})

	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return runs, nil
}
