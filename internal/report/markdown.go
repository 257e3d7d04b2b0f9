// Package report renders comparison results as markdown documents,
// suitable for terminal output, commit comments, or HTML conversion.
package report

import (
	"fmt"
	"strings"

	"valuerank/domain/comparison"
	"valuerank/domain/core"
)

// ComparisonReport bundles the three comparison views into one document
type ComparisonReport struct {
	Title      string
	Statistics *comparison.ComparisonStatistics
	Values     []comparison.ValueComparison
	Timeline   *comparison.Timeline
}

// RenderMarkdown produces the full markdown report. Nil sections are
// omitted so partial reports stay readable.
func RenderMarkdown(r ComparisonReport) string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = "Run Comparison"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if r.Statistics != nil {
		writeSummary(&b, r.Statistics)
		writeRunPairs(&b, r.Statistics)
		writeModels(&b, r.Statistics)
	}
	if len(r.Values) > 0 {
		writeValueChanges(&b, r.Values)
	}
	if r.Timeline != nil && len(r.Timeline.Trends) > 0 {
		writeTrends(&b, r.Timeline)
	}

	return b.String()
}

func writeSummary(b *strings.Builder, stats *comparison.ComparisonStatistics) {
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- Runs compared: %d\n", stats.Summary.TotalRuns)
	fmt.Fprintf(b, "- Total samples: %d\n", stats.Summary.TotalSamples)
	fmt.Fprintf(b, "- Mean decision range: %.2f to %.2f\n\n",
		stats.Summary.MeanDecisionRange[0], stats.Summary.MeanDecisionRange[1])
}

func writeRunPairs(b *strings.Builder, stats *comparison.ComparisonStatistics) {
	if len(stats.RunPairs) == 0 {
		return
	}

	b.WriteString("## Pairwise Effect Sizes\n\n")
	b.WriteString("| Run 1 | Run 2 | Mean Diff | Cohen's d | Interpretation | Significant Changes |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, pair := range stats.RunPairs {
		fmt.Fprintf(b, "| %s | %s | %+.4f | %.4f | %s | %s |\n",
			pair.Run1ID, pair.Run2ID,
			pair.MeanDifference, pair.EffectSize,
			pair.EffectInterpretation,
			joinValueNames(pair.SignificantValueChanges))
	}
	b.WriteString("\n")
}

func writeModels(b *strings.Builder, stats *comparison.ComparisonStatistics) {
	b.WriteString("## Model Coverage\n\n")
	if len(stats.CommonModels) > 0 {
		fmt.Fprintf(b, "Models in every run: %s\n\n", joinModelIDs(stats.CommonModels))
	} else {
		b.WriteString("No model appears in every run.\n\n")
	}
	for runID, models := range stats.UniqueModels {
		fmt.Fprintf(b, "- %s only: %s\n", runID, joinModelIDs(models))
	}
	if len(stats.UniqueModels) > 0 {
		b.WriteString("\n")
	}
}

func writeValueChanges(b *strings.Builder, values []comparison.ValueComparison) {
	b.WriteString("## Value Win Rates\n\n")
	b.WriteString("| Value | Max Difference | Significant |\n")
	b.WriteString("|---|---|---|\n")
	for _, vc := range values {
		marker := ""
		if vc.HasSignificantChange {
			marker = "yes"
		}
		fmt.Fprintf(b, "| %s | %.3f | %s |\n", vc.ValueName, vc.MaxDifference, marker)
	}
	b.WriteString("\n")

	for _, vc := range values {
		if !vc.HasSignificantChange {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n", vc.ValueName)
		for _, rate := range vc.RunWinRates {
			fmt.Fprintf(b, "- %s: %.3f (95%% CI %.3f to %.3f, n=%d)\n",
				rate.RunID, rate.WinRate,
				rate.ConfidenceInterval.Lower, rate.ConfidenceInterval.Upper,
				rate.SampleSize)
		}
		b.WriteString("\n")
	}
}

func writeTrends(b *strings.Builder, timeline *comparison.Timeline) {
	b.WriteString("## Model Trends\n\n")
	b.WriteString("| Model | First | Last | Change | Direction |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, modelID := range timeline.Models {
		trend, ok := timeline.Trends[modelID]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "| %s | %.3f | %.3f | %+.3f (%+.1f%%) | %s |\n",
			trend.ModelID, trend.First, trend.Last,
			trend.Change, trend.ChangePercent, trend.Direction)
	}
	b.WriteString("\n")
}

func joinValueNames(names []core.ValueName) string {
	if len(names) == 0 {
		return "none"
	}
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name.String()
	}
	return strings.Join(parts, ", ")
}

func joinModelIDs(ids []core.ModelID) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
