package comparison

import (
	"sort"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
)

// BuildTimeline orders the runs chronologically (completedAt when present,
// createdAt otherwise; input order preserved on ties) and emits one data
// point per run holding the chosen metric for every model that survives the
// optional filter. Runs with no qualifying model contribute no point.
//
// A trend is reported for every model with at least two data points:
// change = last - first, with a dead-band of TrendDeadBand on the 1-5
// decision scale so noise is not read as drift.
func BuildTimeline(runs []*analysis.RunAnalysis, metric TimelineMetric, modelFilter core.ModelID) *Timeline {
	ordered := make([]*analysis.RunAnalysis, 0, len(runs))
	for _, run := range runs {
		if run != nil {
			ordered = append(ordered, run)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EffectiveTime().Before(ordered[j].EffectiveTime())
	})

	timeline := &Timeline{
		Data:   make([]TimelineDataPoint, 0, len(ordered)),
		Trends: make(map[core.ModelID]ModelTrend),
	}
	seen := make(map[core.ModelID]bool)

	for _, run := range ordered {
		point := TimelineDataPoint{
			RunID:  run.RunID,
			Date:   run.EffectiveTime(),
			Values: make(map[core.ModelID]float64),
		}
		for _, modelID := range run.ModelIDs() {
			if modelFilter != "" && modelID != modelFilter {
				continue
			}
			point.Values[modelID] = metricValue(run.PerModel[modelID].Overall, metric)
			if !seen[modelID] {
				seen[modelID] = true
				timeline.Models = append(timeline.Models, modelID)
			}
		}
		if len(point.Values) == 0 {
			continue
		}
		timeline.Data = append(timeline.Data, point)
	}

	sort.Slice(timeline.Models, func(i, j int) bool { return timeline.Models[i] < timeline.Models[j] })

	for _, modelID := range timeline.Models {
		if trend, ok := modelTrend(timeline.Data, modelID); ok {
			timeline.Trends[modelID] = trend
		}
	}
	return timeline
}

// metricValue selects the tracked scalar from a model summary.
func metricValue(summary analysis.ModelSummary, metric TimelineMetric) float64 {
	if metric == MetricStdDev {
		return summary.StdDev
	}
	return summary.Mean
}

// modelTrend computes the first-vs-last delta for one model. Reported only
// for models with at least two data points.
func modelTrend(points []TimelineDataPoint, modelID core.ModelID) (ModelTrend, bool) {
	var first, last float64
	count := 0
	for _, point := range points {
		value, ok := point.Values[modelID]
		if !ok {
			continue
		}
		if count == 0 {
			first = value
		}
		last = value
		count++
	}
	if count < 2 {
		return ModelTrend{}, false
	}

	change := last - first
	changePercent := 0.0
	if first != 0 {
		changePercent = change / first * 100
	}

	direction := TrendStable
	if change > TrendDeadBand {
		direction = TrendUp
	} else if change < -TrendDeadBand {
		direction = TrendDown
	}

	return ModelTrend{
		ModelID:       modelID,
		First:         first,
		Last:          last,
		Change:        change,
		ChangePercent: changePercent,
		Direction:     direction,
		DataPoints:    count,
	}, true
}
