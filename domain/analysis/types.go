package analysis

import (
	"sort"

	"valuerank/domain/core"
)

// ConfidenceInterval bounds a win rate at a stated confidence level.
// Computed upstream (Wilson score method) and passed through unchanged.
type ConfidenceInterval struct {
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Level  float64 `json:"level"`
	Method string  `json:"method"`
}

// MethodWilsonScore is the CI method emitted by the upstream analysis worker.
const MethodWilsonScore = "wilson_score"

// FullUncertainty returns the CI used when a value has no win/loss data.
func FullUncertainty(level float64) ConfidenceInterval {
	return ConfidenceInterval{Lower: 0.0, Upper: 1.0, Level: level, Method: MethodWilsonScore}
}

// ValueCounts tallies prioritization outcomes for one value.
type ValueCounts struct {
	Prioritized   int `json:"prioritized"`
	Deprioritized int `json:"deprioritized"`
	Neutral       int `json:"neutral"`
}

// Total returns the observed sample count for the value.
func (c ValueCounts) Total() int {
	return c.Prioritized + c.Deprioritized + c.Neutral
}

// WinRate computes prioritized / (prioritized + deprioritized).
// Neutral responses are excluded from the denominator; no data means 0.5.
func (c ValueCounts) WinRate() float64 {
	decided := c.Prioritized + c.Deprioritized
	if decided == 0 {
		return 0.5
	}
	return float64(c.Prioritized) / float64(decided)
}

// ValueStats holds per-value statistics within a model.
type ValueStats struct {
	WinRate            float64            `json:"winRate"`
	ConfidenceInterval ConfidenceInterval `json:"confidenceInterval"`
	Count              ValueCounts        `json:"count"`
}

// ModelSummary holds overall decision-score statistics for a model (1-5 scale).
type ModelSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ModelStats holds complete statistics for one model within a run.
type ModelStats struct {
	SampleSize int                           `json:"sampleSize"`
	Values     map[core.ValueName]ValueStats `json:"values"`
	Overall    ModelSummary                  `json:"overall"`
}

// ValueNames returns the model's value names in ascending order.
func (m ModelStats) ValueNames() []core.ValueName {
	names := make([]core.ValueName, 0, len(m.Values))
	for name := range m.Values {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// DecisionDistribution is a histogram of a model's 1-5 decision outputs,
// keyed by decision code ("1".."5") as emitted upstream.
type DecisionDistribution map[string]int

// Total returns the number of decisions in the histogram.
func (d DecisionDistribution) Total() int {
	total := 0
	for _, count := range d {
		total += count
	}
	return total
}

// VisualizationData carries precomputed chart inputs for a run.
type VisualizationData struct {
	DecisionDistribution map[core.ModelID]DecisionDistribution `json:"decisionDistribution"`
}

// RunAnalysis is the immutable analysis snapshot for one run, produced by
// the external analysis job. Read-only to the comparison engine.
type RunAnalysis struct {
	RunID             core.RunID                  `json:"runId"`
	PerModel          map[core.ModelID]ModelStats `json:"perModel"`
	VisualizationData VisualizationData           `json:"visualizationData"`
	CreatedAt         core.Timestamp              `json:"createdAt"`
	CompletedAt       core.Timestamp              `json:"completedAt,omitempty"`
}

// ModelIDs returns the run's model ids in ascending order.
func (r *RunAnalysis) ModelIDs() []core.ModelID {
	ids := make([]core.ModelID, 0, len(r.PerModel))
	for id := range r.PerModel {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TotalSamples sums sample sizes across the run's models.
func (r *RunAnalysis) TotalSamples() int {
	total := 0
	for _, m := range r.PerModel {
		total += m.SampleSize
	}
	return total
}

// EffectiveTime returns the chronological anchor for the run:
// completedAt when present, createdAt otherwise.
func (r *RunAnalysis) EffectiveTime() core.Timestamp {
	if !r.CompletedAt.IsZero() {
		return r.CompletedAt
	}
	return r.CreatedAt
}

// AggregateOverall collapses the run's per-model summaries into a single
// (mean, stdDev, n) triple: means and stdDevs are equal-weighted across
// models, n is the total sample count. Zero-valued when the run has no models.
func (r *RunAnalysis) AggregateOverall() (mean, stdDev float64, n int) {
	if len(r.PerModel) == 0 {
		return 0, 0, 0
	}
	for _, m := range r.PerModel {
		mean += m.Overall.Mean
		stdDev += m.Overall.StdDev
		n += m.SampleSize
	}
	count := float64(len(r.PerModel))
	return mean / count, stdDev / count, n
}
