package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"valuerank/domain/comparison"
	apperrors "valuerank/internal/errors"
)

// Sheet names in the exported workbook
const (
	SheetRunPairs     = "Run Pairs"
	SheetValueChanges = "Value Changes"
	SheetTimeline     = "Timeline"
)

// WriteComparisonWorkbook exports a comparison result to an .xlsx file with
// one sheet per view: pairwise effect sizes, value win-rate changes, and the
// chronological drift series. Nil sections are skipped.
func WriteComparisonWorkbook(path string, result *comparison.ComparisonStatistics, values []comparison.ValueComparison, timeline *comparison.Timeline) error {
	f := excelize.NewFile()
	defer f.Close()

	if result != nil {
		if err := writeRunPairs(f, result); err != nil {
			return apperrors.ExportError("failed to write run pairs sheet", err)
		}
	}
	if len(values) > 0 {
		if err := writeValueChanges(f, values); err != nil {
			return apperrors.ExportError("failed to write value changes sheet", err)
		}
	}
	if timeline != nil && len(timeline.Data) > 0 {
		if err := writeTimeline(f, timeline); err != nil {
			return apperrors.ExportError("failed to write timeline sheet", err)
		}
	}

	// Drop the default sheet so the workbook opens on real content
	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return apperrors.ExportError("failed to save workbook", err)
	}
	return nil
}

func writeRunPairs(f *excelize.File, result *comparison.ComparisonStatistics) error {
	if _, err := f.NewSheet(SheetRunPairs); err != nil {
		return err
	}

	headers := headerRow("Run 1", "Run 2", "Mean Difference", "Effect Size (d)", "Interpretation", "Significant Value Changes")
	if err := writeRow(f, SheetRunPairs, 1, headers); err != nil {
		return err
	}

	for i, pair := range result.RunPairs {
		changes := ""
		for j, name := range pair.SignificantValueChanges {
			if j > 0 {
				changes += ", "
			}
			changes += name.String()
		}
		row := []interface{}{
			pair.Run1ID.String(),
			pair.Run2ID.String(),
			pair.MeanDifference,
			pair.EffectSize,
			string(pair.EffectInterpretation),
			changes,
		}
		if err := writeRow(f, SheetRunPairs, i+2, row); err != nil {
			return err
		}
	}

	summaryRow := len(result.RunPairs) + 3
	summary := []interface{}{
		fmt.Sprintf("%d runs, %d samples, mean range [%.2f, %.2f]",
			result.Summary.TotalRuns,
			result.Summary.TotalSamples,
			result.Summary.MeanDecisionRange[0],
			result.Summary.MeanDecisionRange[1]),
	}
	return writeRow(f, SheetRunPairs, summaryRow, summary)
}

func writeValueChanges(f *excelize.File, values []comparison.ValueComparison) error {
	if _, err := f.NewSheet(SheetValueChanges); err != nil {
		return err
	}

	headers := headerRow("Value", "Max Difference", "Significant", "Run", "Win Rate", "CI Lower", "CI Upper", "Samples")
	if err := writeRow(f, SheetValueChanges, 1, headers); err != nil {
		return err
	}

	rowIdx := 2
	for _, vc := range values {
		for _, rate := range vc.RunWinRates {
			row := []interface{}{
				vc.ValueName.String(),
				vc.MaxDifference,
				vc.HasSignificantChange,
				rate.RunID.String(),
				rate.WinRate,
				rate.ConfidenceInterval.Lower,
				rate.ConfidenceInterval.Upper,
				rate.SampleSize,
			}
			if err := writeRow(f, SheetValueChanges, rowIdx, row); err != nil {
				return err
			}
			rowIdx++
		}
	}
	return nil
}

func writeTimeline(f *excelize.File, timeline *comparison.Timeline) error {
	if _, err := f.NewSheet(SheetTimeline); err != nil {
		return err
	}

	headers := headerRow("Run", "Date")
	for _, modelID := range timeline.Models {
		headers = append(headers, modelID.String())
	}
	if err := writeRow(f, SheetTimeline, 1, headers); err != nil {
		return err
	}

	for i, point := range timeline.Data {
		row := []interface{}{point.RunID.String(), point.Date.String()}
		for _, modelID := range timeline.Models {
			if value, ok := point.Values[modelID]; ok {
				row = append(row, value)
			} else {
				row = append(row, "")
			}
		}
		if err := writeRow(f, SheetTimeline, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func headerRow(names ...string) []interface{} {
	row := make([]interface{}, len(names))
	for i, name := range names {
		row[i] = name
	}
	return row
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
