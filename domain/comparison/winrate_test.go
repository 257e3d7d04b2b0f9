package comparison

import (
	"math"
	"testing"
	"time"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
)

func TestAggregateWinRates_SingleModelKeepsExactStats(t *testing.T) {
	run := testRun("run-a", map[string]analysis.ModelStats{
		"m1": modelWithValues(50, map[string]analysis.ValueStats{
			"Freedom": valueStats(0.75, 0.61, 0.85, 30, 10, 2),
		}),
	})

	aggregates := AggregateWinRates(run, "")
	agg, ok := aggregates["Freedom"]
	if !ok {
		t.Fatal("Expected aggregate for Freedom")
	}
	if agg.WinRate != 0.75 {
		t.Errorf("Expected exact win rate 0.75, got %f", agg.WinRate)
	}
	if agg.ConfidenceInterval.Lower != 0.61 || agg.ConfidenceInterval.Upper != 0.85 {
		t.Errorf("Expected CI kept verbatim, got %+v", agg.ConfidenceInterval)
	}
	if agg.SampleSize != 42 {
		t.Errorf("Expected sample size 42, got %d", agg.SampleSize)
	}
}

func TestAggregateWinRates_AveragesAcrossModels(t *testing.T) {
	run := testRun("run-a", map[string]analysis.ModelStats{
		"m1": modelWithValues(50, map[string]analysis.ValueStats{
			"Freedom": valueStats(0.80, 0.70, 0.88, 40, 10, 0),
		}),
		"m2": modelWithValues(50, map[string]analysis.ValueStats{
			"Freedom": valueStats(0.60, 0.48, 0.71, 30, 20, 0),
		}),
	})

	aggregates := AggregateWinRates(run, "")
	agg := aggregates["Freedom"]
	if math.Abs(agg.WinRate-0.70) > 1e-12 {
		t.Errorf("Expected averaged win rate 0.70, got %f", agg.WinRate)
	}
	// Known simplification: the first contributing model's CI (ascending
	// model id order) is carried through, not a merged interval.
	if agg.ConfidenceInterval.Lower != 0.70 || agg.ConfidenceInterval.Upper != 0.88 {
		t.Errorf("Expected m1's CI carried through, got %+v", agg.ConfidenceInterval)
	}
	if agg.SampleSize != 100 {
		t.Errorf("Expected summed sample size 100, got %d", agg.SampleSize)
	}
	if agg.ModelCount != 2 {
		t.Errorf("Expected 2 contributing models, got %d", agg.ModelCount)
	}
}

func TestAggregateWinRates_ModelFilter(t *testing.T) {
	run := testRun("run-a", map[string]analysis.ModelStats{
		"m1": modelWithValues(50, map[string]analysis.ValueStats{
			"Freedom": valueStats(0.80, 0.70, 0.88, 40, 10, 0),
		}),
		"m2": modelWithValues(50, map[string]analysis.ValueStats{
			"Freedom": valueStats(0.60, 0.48, 0.71, 30, 20, 0),
			"Safety":  valueStats(0.40, 0.28, 0.53, 20, 30, 0),
		}),
	})

	aggregates := AggregateWinRates(run, "m2")
	if len(aggregates) != 2 {
		t.Fatalf("Expected 2 values for m2, got %d", len(aggregates))
	}
	if aggregates["Freedom"].WinRate != 0.60 {
		t.Errorf("Expected m2's exact win rate 0.60, got %f", aggregates["Freedom"].WinRate)
	}

	none := AggregateWinRates(run, "m9")
	if len(none) != 0 {
		t.Errorf("Expected no aggregates for unknown model, got %d", len(none))
	}
}

func TestCompareValueWinRates_SignificantChangeThreshold(t *testing.T) {
	runA := testRun("run-a", map[string]analysis.ModelStats{
		"m1": modelWithValues(50, map[string]analysis.ValueStats{
			"Freedom": valueStats(0.75, 0.61, 0.85, 30, 10, 0),
			"Safety":  valueStats(0.45, 0.32, 0.58, 18, 22, 0),
		}),
	})
	runB := testRun("run-b", map[string]analysis.ModelStats{
		"m1": modelWithValues(50, map[string]analysis.ValueStats{
			"Freedom": valueStats(0.55, 0.41, 0.68, 22, 18, 0),
			"Safety":  valueStats(0.48, 0.35, 0.61, 19, 21, 0),
		}),
	})

	comparisons := CompareValueWinRates([]*analysis.RunAnalysis{runA, runB}, "")
	if len(comparisons) != 2 {
		t.Fatalf("Expected 2 value comparisons, got %d", len(comparisons))
	}

	// Sorted descending by max difference: Freedom (0.20) before Safety (0.03)
	freedom := comparisons[0]
	if freedom.ValueName != "Freedom" {
		t.Fatalf("Expected Freedom first, got %s", freedom.ValueName)
	}
	if math.Abs(freedom.MaxDifference-0.20) > 1e-12 {
		t.Errorf("Expected max difference 0.20, got %f", freedom.MaxDifference)
	}
	if !freedom.HasSignificantChange {
		t.Error("Expected Freedom change to be significant")
	}

	safety := comparisons[1]
	if math.Abs(safety.MaxDifference-0.03) > 1e-12 {
		t.Errorf("Expected max difference 0.03, got %f", safety.MaxDifference)
	}
	if safety.HasSignificantChange {
		t.Error("Expected Safety change to be insignificant")
	}
}

func TestCompareValueWinRates_ThresholdIsInclusive(t *testing.T) {
	runA := testRun("run-a", map[string]analysis.ModelStats{
		"m1": modelWithValues(50, map[string]analysis.ValueStats{
			"Candor": valueStats(0.50, 0.37, 0.63, 20, 20, 0),
		}),
	})
	runB := testRun("run-b", map[string]analysis.ModelStats{
		"m1": modelWithValues(50, map[string]analysis.ValueStats{
			"Candor": valueStats(0.60, 0.46, 0.72, 24, 16, 0),
		}),
	})

	comparisons := CompareValueWinRates([]*analysis.RunAnalysis{runA, runB}, "")
	if len(comparisons) != 1 {
		t.Fatalf("Expected 1 comparison, got %d", len(comparisons))
	}
	// Exactly 10 percentage points counts as significant
	if !comparisons[0].HasSignificantChange {
		t.Errorf("Expected max difference %f to be significant", comparisons[0].MaxDifference)
	}
}

func TestCompareValueWinRates_RunWithoutDataContributesNothing(t *testing.T) {
	runA := testRun("run-a", map[string]analysis.ModelStats{
		"m1": modelWithValues(50, map[string]analysis.ValueStats{
			"Freedom": valueStats(0.75, 0.61, 0.85, 30, 10, 0),
		}),
	})
	runB := testRun("run-b", map[string]analysis.ModelStats{
		"m1": modelWithValues(50, nil),
	})

	comparisons := CompareValueWinRates([]*analysis.RunAnalysis{runA, runB}, "")
	if len(comparisons) != 1 {
		t.Fatalf("Expected 1 comparison, got %d", len(comparisons))
	}
	freedom := comparisons[0]
	if len(freedom.RunWinRates) != 1 {
		t.Fatalf("Expected only run-a to contribute, got %d tuples", len(freedom.RunWinRates))
	}
	if freedom.RunWinRates[0].RunID != "run-a" {
		t.Errorf("Expected run-a tuple, got %s", freedom.RunWinRates[0].RunID)
	}
	// Single contributing run: zero spread, no significant change
	if freedom.MaxDifference != 0 || freedom.HasSignificantChange {
		t.Errorf("Expected zero spread, got %f (significant=%v)", freedom.MaxDifference, freedom.HasSignificantChange)
	}
}

// ============================================================================
// FIXTURE HELPERS
// ============================================================================

func testRun(id string, models map[string]analysis.ModelStats) *analysis.RunAnalysis {
	perModel := make(map[core.ModelID]analysis.ModelStats, len(models))
	for modelID, stats := range models {
		perModel[core.ModelID(modelID)] = stats
	}
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &analysis.RunAnalysis{
		RunID:       core.RunID(id),
		PerModel:    perModel,
		CreatedAt:   core.NewTimestamp(created),
		CompletedAt: core.NewTimestamp(created.Add(time.Hour)),
	}
}

func modelWithValues(sampleSize int, values map[string]analysis.ValueStats) analysis.ModelStats {
	named := make(map[core.ValueName]analysis.ValueStats, len(values))
	for name, stats := range values {
		named[core.ValueName(name)] = stats
	}
	return analysis.ModelStats{
		SampleSize: sampleSize,
		Values:     named,
		Overall:    analysis.ModelSummary{Mean: 3.0, StdDev: 1.0, Min: 1, Max: 5},
	}
}

func valueStats(winRate, lower, upper float64, prioritized, deprioritized, neutral int) analysis.ValueStats {
	return analysis.ValueStats{
		WinRate: winRate,
		ConfidenceInterval: analysis.ConfidenceInterval{
			Lower:  lower,
			Upper:  upper,
			Level:  0.95,
			Method: analysis.MethodWilsonScore,
		},
		Count: analysis.ValueCounts{
			Prioritized:   prioritized,
			Deprioritized: deprioritized,
			Neutral:       neutral,
		},
	}
}
