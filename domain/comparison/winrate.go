package comparison

import (
	"sort"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
)

// ValueAggregate is a run's collapsed win rate for one value.
type ValueAggregate struct {
	WinRate            float64                     `json:"winRate"`
	ConfidenceInterval analysis.ConfidenceInterval `json:"confidenceInterval"`
	SampleSize         int                         `json:"sampleSize"`
	ModelCount         int                         `json:"modelCount"`
}

// AggregateWinRates collapses a run's per-model value statistics into one
// win rate per value name, optionally restricted to a single model.
//
// The win rate is the equal-weighted average across qualifying models. The
// confidence interval is NOT re-derived when models are averaged: the first
// contributing model's interval (models visited in ascending id order, for
// determinism) is carried through verbatim. Values with no qualifying model
// data are absent from the result, not reported as zero.
func AggregateWinRates(run *analysis.RunAnalysis, modelFilter core.ModelID) map[core.ValueName]ValueAggregate {
	aggregates := make(map[core.ValueName]ValueAggregate)
	if run == nil {
		return aggregates
	}

	for _, modelID := range run.ModelIDs() {
		if modelFilter != "" && modelID != modelFilter {
			continue
		}
		model := run.PerModel[modelID]
		for name, value := range model.Values {
			agg, seen := aggregates[name]
			if !seen {
				// First contributing model: keep its CI verbatim.
				agg.ConfidenceInterval = value.ConfidenceInterval
			}
			agg.WinRate += value.WinRate
			agg.SampleSize += value.Count.Total()
			agg.ModelCount++
			aggregates[name] = agg
		}
	}

	for name, agg := range aggregates {
		agg.WinRate /= float64(agg.ModelCount)
		aggregates[name] = agg
	}
	return aggregates
}

// CompareValueWinRates builds one ValueComparison per value name appearing
// in any of the selected runs. Runs contribute tuples in input order; runs
// without data for a value contribute nothing. The result is sorted
// descending by MaxDifference (value name ascending on ties) so the
// most-changed values surface first.
func CompareValueWinRates(runs []*analysis.RunAnalysis, modelFilter core.ModelID) []ValueComparison {
	perRun := make([]map[core.ValueName]ValueAggregate, len(runs))
	for i, run := range runs {
		perRun[i] = AggregateWinRates(run, modelFilter)
	}

	names := make(map[core.ValueName]bool)
	for _, aggregates := range perRun {
		for name := range aggregates {
			names[name] = true
		}
	}

	comparisons := make([]ValueComparison, 0, len(names))
	for name := range names {
		vc := ValueComparison{ValueName: name}
		minRate, maxRate := 0.0, 0.0
		for i, run := range runs {
			agg, ok := perRun[i][name]
			if !ok {
				continue
			}
			if len(vc.RunWinRates) == 0 || agg.WinRate < minRate {
				minRate = agg.WinRate
			}
			if len(vc.RunWinRates) == 0 || agg.WinRate > maxRate {
				maxRate = agg.WinRate
			}
			vc.RunWinRates = append(vc.RunWinRates, RunWinRate{
				RunID:              run.RunID,
				WinRate:            agg.WinRate,
				ConfidenceInterval: agg.ConfidenceInterval,
				SampleSize:         agg.SampleSize,
			})
		}
		if len(vc.RunWinRates) == 0 {
			continue
		}
		vc.MaxDifference = maxRate - minRate
		vc.HasSignificantChange = vc.MaxDifference >= SignificantChangeThreshold
		comparisons = append(comparisons, vc)
	}

	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].MaxDifference != comparisons[j].MaxDifference {
			return comparisons[i].MaxDifference > comparisons[j].MaxDifference
		}
		return comparisons[i].ValueName < comparisons[j].ValueName
	})
	return comparisons
}
