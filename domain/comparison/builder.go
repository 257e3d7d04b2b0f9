package comparison

import (
	"errors"
	"sort"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
)

// ErrInsufficientRuns is returned when fewer than two runs are selected.
// This is a caller error, not messy data: every degenerate-but-valid input
// (empty samples, n<2, no common models) degrades to "no signal" values
// instead.
var ErrInsufficientRuns = errors.New("at least 2 runs are required for comparison")

// BuildComparisonStatistics produces the full cross-run statistical summary
// for an ordered selection of runs. Input order is preserved for pairing;
// the caller's selection order defines which run is "run1" in each pair.
func BuildComparisonStatistics(runs []*analysis.RunAnalysis) (*ComparisonStatistics, error) {
	if len(runs) < 2 {
		return nil, ErrInsufficientRuns
	}

	result := &ComparisonStatistics{
		RunPairs:     make([]RunPairComparison, 0, len(runs)*(len(runs)-1)/2),
		UniqueModels: make(map[core.RunID][]core.ModelID),
	}

	for i := 0; i < len(runs); i++ {
		for j := i + 1; j < len(runs); j++ {
			result.RunPairs = append(result.RunPairs, compareRunPair(runs[i], runs[j]))
		}
	}

	result.CommonModels = commonModels(runs)
	common := make(map[core.ModelID]bool, len(result.CommonModels))
	for _, id := range result.CommonModels {
		common[id] = true
	}
	for _, run := range runs {
		unique := make([]core.ModelID, 0)
		for _, id := range run.ModelIDs() {
			if !common[id] {
				unique = append(unique, id)
			}
		}
		result.UniqueModels[run.RunID] = unique
	}

	result.Summary = summarize(runs)
	return result, nil
}

// compareRunPair contrasts two runs: aggregate mean difference, Cohen's d on
// the aggregated summaries, and the values whose win rates moved
// significantly between just these two runs (most-changed first).
func compareRunPair(run1, run2 *analysis.RunAnalysis) RunPairComparison {
	mean1, stdDev1, n1 := run1.AggregateOverall()
	mean2, stdDev2, n2 := run2.AggregateOverall()

	effect := CohensD(mean1, stdDev1, n1, mean2, stdDev2, n2)

	changes := make([]core.ValueName, 0)
	for _, vc := range CompareValueWinRates([]*analysis.RunAnalysis{run1, run2}, "") {
		if vc.HasSignificantChange {
			changes = append(changes, vc.ValueName)
		}
	}

	return RunPairComparison{
		Run1ID:                  run1.RunID,
		Run2ID:                  run2.RunID,
		MeanDifference:          mean1 - mean2,
		EffectSize:              effect.D,
		EffectInterpretation:    effect.Interpretation,
		SignificantValueChanges: changes,
	}
}

// commonModels intersects the model sets of all runs, sorted ascending.
func commonModels(runs []*analysis.RunAnalysis) []core.ModelID {
	counts := make(map[core.ModelID]int)
	for _, run := range runs {
		for id := range run.PerModel {
			counts[id]++
		}
	}

	common := make([]core.ModelID, 0)
	for id, count := range counts {
		if count == len(runs) {
			common = append(common, id)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })
	return common
}

// summarize computes the run-set rollup: total runs, total samples, and the
// [min, max] range of per-run aggregate means.
func summarize(runs []*analysis.RunAnalysis) ComparisonSummary {
	summary := ComparisonSummary{TotalRuns: len(runs)}
	for i, run := range runs {
		summary.TotalSamples += run.TotalSamples()
		mean, _, _ := run.AggregateOverall()
		if i == 0 {
			summary.MeanDecisionRange = [2]float64{mean, mean}
			continue
		}
		if mean < summary.MeanDecisionRange[0] {
			summary.MeanDecisionRange[0] = mean
		}
		if mean > summary.MeanDecisionRange[1] {
			summary.MeanDecisionRange[1] = mean
		}
	}
	return summary
}
