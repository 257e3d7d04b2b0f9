package ports

import (
	"context"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
)

// AnalysisReader provides read access to per-run analysis snapshots.
// The snapshots are produced by an external analysis job; this engine
// only ever reads them.
type AnalysisReader interface {
	// GetRunAnalysis returns the analysis for one run. A run id that
	// cannot be resolved is a caller error, reported as NOT_FOUND.
	GetRunAnalysis(ctx context.Context, runID core.RunID) (*analysis.RunAnalysis, error)

	// ListRunAnalyses returns the most recent analyses, newest first.
	// A limit of 0 means no limit.
	ListRunAnalyses(ctx context.Context, limit int) ([]*analysis.RunAnalysis, error)
}
