package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"valuerank/domain/analysis"
	"valuerank/domain/comparison"
	"valuerank/domain/core"
	"valuerank/internal/errors"
	"valuerank/ports"
)

// ComparisonService resolves selected run ids through the analysis reader
// and invokes the pure comparison engine. It holds no state beyond its
// dependencies, so it is safe to call concurrently; callers may re-invoke
// it on every filter change.
type ComparisonService struct {
	reader ports.AnalysisReader
}

// NewComparisonService creates a comparison service backed by the reader
func NewComparisonService(reader ports.AnalysisReader) *ComparisonService {
	return &ComparisonService{reader: reader}
}

// Compare produces the full cross-run statistical summary for the selected
// runs, preserving selection order for pairing. Fewer than two runs is a
// caller error (INVALID_INPUT); an unresolvable run id is NOT_FOUND.
func (s *ComparisonService) Compare(ctx context.Context, runIDs []core.RunID) (*comparison.ComparisonStatistics, error) {
	if len(runIDs) < 2 {
		return nil, errors.InvalidInput(comparison.ErrInsufficientRuns.Error())
	}

	runs, err := s.fetchRuns(ctx, runIDs)
	if err != nil {
		return nil, err
	}

	result, err := comparison.BuildComparisonStatistics(runs)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return result, nil
}

// CompareValues produces the per-value win-rate comparison across the
// selected runs, optionally restricted to a single model.
func (s *ComparisonService) CompareValues(ctx context.Context, runIDs []core.RunID, modelFilter core.ModelID) ([]comparison.ValueComparison, error) {
	if len(runIDs) == 0 {
		return nil, errors.InvalidInput("at least 1 run is required")
	}

	runs, err := s.fetchRuns(ctx, runIDs)
	if err != nil {
		return nil, err
	}
	return comparison.CompareValueWinRates(runs, modelFilter), nil
}

// Timeline produces the chronological drift view of the selected runs for
// the chosen metric.
func (s *ComparisonService) Timeline(ctx context.Context, runIDs []core.RunID, metric comparison.TimelineMetric, modelFilter core.ModelID) (*comparison.Timeline, error) {
	if len(runIDs) == 0 {
		return nil, errors.InvalidInput("at least 1 run is required")
	}

	runs, err := s.fetchRuns(ctx, runIDs)
	if err != nil {
		return nil, err
	}
	return comparison.BuildTimeline(runs, metric, modelFilter), nil
}

// fetchRuns resolves all selected analyses concurrently, preserving the
// caller's selection order in the result.
func (s *ComparisonService) fetchRuns(ctx context.Context, runIDs []core.RunID) ([]*analysis.RunAnalysis, error) {
	runs := make([]*analysis.RunAnalysis, len(runIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, runID := range runIDs {
		g.Go(func() error {
			run, err := s.reader.GetRunAnalysis(gctx, runID)
			if err != nil {
				return errors.Wrapf(err, "failed to load analysis for run %s", runID)
			}
			if run == nil {
				return errors.NotFound(fmt.Sprintf("analysis for run %s", runID))
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}
