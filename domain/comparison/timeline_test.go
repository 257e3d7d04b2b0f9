package comparison

import (
	"math"
	"testing"
	"time"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
)

func timedRun(id string, completed time.Time, overall map[string]analysis.ModelSummary) *analysis.RunAnalysis {
	perModel := make(map[core.ModelID]analysis.ModelStats, len(overall))
	for modelID, summary := range overall {
		perModel[core.ModelID(modelID)] = analysis.ModelStats{SampleSize: 50, Overall: summary}
	}
	return &analysis.RunAnalysis{
		RunID:       core.RunID(id),
		PerModel:    perModel,
		CreatedAt:   core.NewTimestamp(completed.Add(-time.Hour)),
		CompletedAt: core.NewTimestamp(completed),
	}
}

func TestBuildTimeline_ChronologicalOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	runs := []*analysis.RunAnalysis{
		timedRun("run-c", base.AddDate(0, 0, 2), map[string]analysis.ModelSummary{"m1": {Mean: 3.4}}),
		timedRun("run-a", base, map[string]analysis.ModelSummary{"m1": {Mean: 3.0}}),
		timedRun("run-b", base.AddDate(0, 0, 1), map[string]analysis.ModelSummary{"m1": {Mean: 3.2}}),
	}

	timeline := BuildTimeline(runs, MetricMean, "")
	if len(timeline.Data) != 3 {
		t.Fatalf("Expected 3 data points, got %d", len(timeline.Data))
	}
	order := []core.RunID{timeline.Data[0].RunID, timeline.Data[1].RunID, timeline.Data[2].RunID}
	if order[0] != "run-a" || order[1] != "run-b" || order[2] != "run-c" {
		t.Errorf("Expected chronological order run-a, run-b, run-c, got %v", order)
	}
}

func TestBuildTimeline_FallsBackToCreatedAt(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	incomplete := &analysis.RunAnalysis{
		RunID:     "run-pending",
		PerModel:  map[core.ModelID]analysis.ModelStats{"m1": {SampleSize: 5, Overall: analysis.ModelSummary{Mean: 2.8}}},
		CreatedAt: core.NewTimestamp(base),
	}
	finished := timedRun("run-done", base.AddDate(0, 0, 3), map[string]analysis.ModelSummary{"m1": {Mean: 3.1}})

	timeline := BuildTimeline([]*analysis.RunAnalysis{finished, incomplete}, MetricMean, "")
	if timeline.Data[0].RunID != "run-pending" {
		t.Errorf("Expected createdAt ordering to place run-pending first, got %s", timeline.Data[0].RunID)
	}
}

func TestBuildTimeline_TrendDeadBand(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		first    float64
		last     float64
		expected TrendDirection
	}{
		{"movement above dead-band", 3.00, 3.06, TrendUp},
		{"movement below dead-band", 3.06, 3.00, TrendDown},
		{"exactly at dead-band is stable", 3.00, 3.05, TrendStable},
		{"no movement", 3.00, 3.00, TrendStable},
	}

	for _, tc := range cases {
		runs := []*analysis.RunAnalysis{
			timedRun("run-1", base, map[string]analysis.ModelSummary{"m1": {Mean: tc.first}}),
			timedRun("run-2", base.AddDate(0, 0, 1), map[string]analysis.ModelSummary{"m1": {Mean: tc.last}}),
		}
		timeline := BuildTimeline(runs, MetricMean, "")
		trend, ok := timeline.Trends["m1"]
		if !ok {
			t.Fatalf("%s: expected trend for m1", tc.name)
		}
		if trend.Direction != tc.expected {
			t.Errorf("%s: expected %s, got %s (change=%f)", tc.name, tc.expected, trend.Direction, trend.Change)
		}
	}
}

func TestBuildTimeline_ChangePercent(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	runs := []*analysis.RunAnalysis{
		timedRun("run-1", base, map[string]analysis.ModelSummary{"m1": {Mean: 2.0}}),
		timedRun("run-2", base.AddDate(0, 0, 1), map[string]analysis.ModelSummary{"m1": {Mean: 2.5}}),
	}

	timeline := BuildTimeline(runs, MetricMean, "")
	trend := timeline.Trends["m1"]
	if math.Abs(trend.Change-0.5) > 1e-12 {
		t.Errorf("Expected change 0.5, got %f", trend.Change)
	}
	if math.Abs(trend.ChangePercent-25.0) > 1e-12 {
		t.Errorf("Expected change percent 25, got %f", trend.ChangePercent)
	}

	// Zero first value: no percent reported
	zeroFirst := []*analysis.RunAnalysis{
		timedRun("run-1", base, map[string]analysis.ModelSummary{"m1": {StdDev: 0}}),
		timedRun("run-2", base.AddDate(0, 0, 1), map[string]analysis.ModelSummary{"m1": {StdDev: 0.4}}),
	}
	trend = BuildTimeline(zeroFirst, MetricStdDev, "").Trends["m1"]
	if trend.ChangePercent != 0 {
		t.Errorf("Expected zero change percent when first value is 0, got %f", trend.ChangePercent)
	}
}

func TestBuildTimeline_StdDevMetric(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	runs := []*analysis.RunAnalysis{
		timedRun("run-1", base, map[string]analysis.ModelSummary{"m1": {Mean: 3.0, StdDev: 1.2}}),
		timedRun("run-2", base.AddDate(0, 0, 1), map[string]analysis.ModelSummary{"m1": {Mean: 3.0, StdDev: 0.8}}),
	}

	timeline := BuildTimeline(runs, MetricStdDev, "")
	if timeline.Data[0].Values["m1"] != 1.2 {
		t.Errorf("Expected stdDev value 1.2, got %f", timeline.Data[0].Values["m1"])
	}
	trend := timeline.Trends["m1"]
	if math.Abs(trend.Change-(-0.4)) > 1e-12 {
		t.Errorf("Expected change -0.4, got %f", trend.Change)
	}
	if trend.Direction != TrendDown {
		t.Errorf("Expected down, got %s", trend.Direction)
	}
}

func TestBuildTimeline_SinglePointHasNoTrend(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	runs := []*analysis.RunAnalysis{
		timedRun("run-1", base, map[string]analysis.ModelSummary{"m1": {Mean: 3.0}, "m2": {Mean: 3.2}}),
		timedRun("run-2", base.AddDate(0, 0, 1), map[string]analysis.ModelSummary{"m1": {Mean: 3.4}}),
	}

	timeline := BuildTimeline(runs, MetricMean, "")
	if _, ok := timeline.Trends["m2"]; ok {
		t.Error("Expected no trend for m2 with a single data point")
	}
	if _, ok := timeline.Trends["m1"]; !ok {
		t.Error("Expected trend for m1 with two data points")
	}
	if len(timeline.Models) != 2 {
		t.Errorf("Expected both models listed, got %v", timeline.Models)
	}
}

func TestBuildTimeline_ModelFilter(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	runs := []*analysis.RunAnalysis{
		timedRun("run-1", base, map[string]analysis.ModelSummary{"m1": {Mean: 3.0}, "m2": {Mean: 3.2}}),
		timedRun("run-2", base.AddDate(0, 0, 1), map[string]analysis.ModelSummary{"m2": {Mean: 3.5}}),
	}

	timeline := BuildTimeline(runs, MetricMean, "m1")
	// run-2 has no m1 data, so it contributes no point at all
	if len(timeline.Data) != 1 {
		t.Fatalf("Expected 1 data point after filtering, got %d", len(timeline.Data))
	}
	if len(timeline.Models) != 1 || timeline.Models[0] != "m1" {
		t.Errorf("Expected only m1 listed, got %v", timeline.Models)
	}
	if len(timeline.Trends) != 0 {
		t.Errorf("Expected no trends with a single surviving point, got %d", len(timeline.Trends))
	}
}
