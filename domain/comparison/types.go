package comparison

import (
	"fmt"
	"strings"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
)

// ============================================================================
// THRESHOLD CONSTANTS
// ============================================================================
// Category cut points are exact (no rounding): a statistic equal to a bound
// belongs to the next category up. Tests assert on these directly.

const (
	// Cohen's d interpretation bounds on |d|
	EffectNegligibleMax = 0.2
	EffectSmallMax      = 0.5
	EffectMediumMax     = 0.8

	// |d| below this reports no direction
	EffectDirectionEpsilon = 0.01

	// KS statistic interpretation bounds
	KSIdenticalMax = 0.1
	KSSimilarMax   = 0.2
	KSDifferentMax = 0.4

	// Minimum win-rate spread (10 percentage points) that counts as a
	// significant change across a run set
	SignificantChangeThreshold = 0.10

	// Dead-band on the 1-5 decision scale below which first-vs-last
	// metric movement is reported as stable
	TrendDeadBand = 0.05
)

// EffectInterpretation categorizes |d| into the standard Cohen buckets
type EffectInterpretation string

const (
	EffectNegligible EffectInterpretation = "negligible"
	EffectSmall      EffectInterpretation = "small"
	EffectMedium     EffectInterpretation = "medium"
	EffectLarge      EffectInterpretation = "large"
)

// EffectDirection reports which group's mean is larger
type EffectDirection string

const (
	DirectionPositive EffectDirection = "positive"
	DirectionNegative EffectDirection = "negative"
	DirectionNone     EffectDirection = "none"
)

// KSInterpretation categorizes a KS statistic
type KSInterpretation string

const (
	KSIdentical     KSInterpretation = "identical"
	KSSimilar       KSInterpretation = "similar"
	KSDifferent     KSInterpretation = "different"
	KSVeryDifferent KSInterpretation = "very_different"
)

// TrendDirection classifies first-vs-last drift of a model metric
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// TimelineMetric selects the per-model scalar tracked across runs
type TimelineMetric string

const (
	MetricMean   TimelineMetric = "mean"
	MetricStdDev TimelineMetric = "stddev"
)

// ParseTimelineMetric maps a request string onto a TimelineMetric.
// An empty string defaults to the mean.
func ParseTimelineMetric(s string) (TimelineMetric, error) {
	switch strings.ToLower(s) {
	case "", string(MetricMean):
		return MetricMean, nil
	case string(MetricStdDev):
		return MetricStdDev, nil
	default:
		return "", fmt.Errorf("unknown timeline metric %q", s)
	}
}

// ============================================================================
// RESULT TYPES
// ============================================================================
// All outputs are plain serializable data, safe to pass across a process
// boundary unchanged.

// CohensDResult is the standardized mean difference between two groups
type CohensDResult struct {
	D              float64              `json:"d"`
	AbsD           float64              `json:"absD"`
	Interpretation EffectInterpretation `json:"interpretation"`
	Direction      EffectDirection      `json:"direction"`
}

// KSResult is the maximum ECDF gap between two empirical distributions
type KSResult struct {
	Statistic      float64          `json:"statistic"`
	Interpretation KSInterpretation `json:"interpretation"`
	N1             int              `json:"n1"`
	N2             int              `json:"n2"`
}

// RunWinRate is one run's aggregated win rate for a value
type RunWinRate struct {
	RunID              core.RunID                  `json:"runId"`
	WinRate            float64                     `json:"winRate"`
	ConfidenceInterval analysis.ConfidenceInterval `json:"confidenceInterval"`
	SampleSize         int                         `json:"sampleSize"`
}

// ValueComparison tracks one value's win rate across a run set
type ValueComparison struct {
	ValueName            core.ValueName `json:"valueName"`
	RunWinRates          []RunWinRate   `json:"runWinRates"`
	HasSignificantChange bool           `json:"hasSignificantChange"`
	MaxDifference        float64        `json:"maxDifference"`
}

// RunPairComparison is the pairwise contrast between two runs
type RunPairComparison struct {
	Run1ID                  core.RunID           `json:"run1Id"`
	Run2ID                  core.RunID           `json:"run2Id"`
	MeanDifference          float64              `json:"meanDifference"`
	EffectSize              float64              `json:"effectSize"`
	EffectInterpretation    EffectInterpretation `json:"effectInterpretation"`
	SignificantValueChanges []core.ValueName     `json:"significantValueChanges"`
}

// ComparisonSummary aggregates the selected run set
type ComparisonSummary struct {
	TotalRuns         int        `json:"totalRuns"`
	TotalSamples      int        `json:"totalSamples"`
	MeanDecisionRange [2]float64 `json:"meanDecisionRange"`
}

// ComparisonStatistics is the engine's full output for a selected run set
type ComparisonStatistics struct {
	RunPairs     []RunPairComparison           `json:"runPairs"`
	CommonModels []core.ModelID                `json:"commonModels"`
	UniqueModels map[core.RunID][]core.ModelID `json:"uniqueModels"`
	Summary      ComparisonSummary             `json:"summary"`
}

// TimelineDataPoint is one run's per-model metric snapshot
type TimelineDataPoint struct {
	RunID  core.RunID               `json:"runId"`
	Date   core.Timestamp           `json:"date"`
	Values map[core.ModelID]float64 `json:"values"`
}

// ModelTrend is the first-vs-last drift of a model across the run sequence
type ModelTrend struct {
	ModelID       core.ModelID   `json:"modelId"`
	First         float64        `json:"first"`
	Last          float64        `json:"last"`
	Change        float64        `json:"change"`
	ChangePercent float64        `json:"changePercent"`
	Direction     TrendDirection `json:"direction"`
	DataPoints    int            `json:"dataPoints"`
}

// Timeline is the chronological view of a run set for one metric
type Timeline struct {
	Data   []TimelineDataPoint         `json:"data"`
	Models []core.ModelID              `json:"models"`
	Trends map[core.ModelID]ModelTrend `json:"trends"`
}
