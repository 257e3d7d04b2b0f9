// Command valuerank-cli compares run analyses from JSON snapshot files
// without a server, and can export the result as markdown or a workbook.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"valuerank/adapters/excel"
	"valuerank/app"
	"valuerank/domain/analysis"
	"valuerank/domain/comparison"
	"valuerank/domain/core"
	"valuerank/internal/report"
	"valuerank/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "valuerank-cli",
		Short: "Compare run analysis snapshots across evaluation runs",
	}

	rootCmd.AddCommand(
		newCompareCmd(),
		newValuesCmd(),
		newTimelineCmd(),
		newExportCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuns reads run-analysis JSON files and returns a service over them
// plus the run ids in file order.
func loadRuns(paths []string) (*app.ComparisonService, []core.RunID, error) {
	store := testkit.NewInMemoryAnalysisReader()
	runIDs := make([]core.RunID, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		var run analysis.RunAnalysis
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if run.RunID == "" {
			return nil, nil, fmt.Errorf("%s: missing runId", path)
		}
		store.Put(&run)
		runIDs = append(runIDs, run.RunID)
	}
	return app.NewComparisonService(store), runIDs, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCompareCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compare <run.json> <run.json> [more...]",
		Short: "Pairwise effect sizes and summary for a run set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, runIDs, err := loadRuns(args)
			if err != nil {
				return err
			}
			result, err := service.Compare(context.Background(), runIDs)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(result)
			}
			fmt.Print(report.RenderMarkdown(report.ComparisonReport{Statistics: result}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of markdown")
	return cmd
}

func newValuesCmd() *cobra.Command {
	var model string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "values <run.json> [more...]",
		Short: "Per-value win rates across a run set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, runIDs, err := loadRuns(args)
			if err != nil {
				return err
			}
			values, err := service.CompareValues(context.Background(), runIDs, core.ModelID(model))
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(values)
			}
			fmt.Print(report.RenderMarkdown(report.ComparisonReport{Title: "Value Win Rates", Values: values}))
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "restrict to one model")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of markdown")
	return cmd
}

func newTimelineCmd() *cobra.Command {
	var model, metric string

	cmd := &cobra.Command{
		Use:   "timeline <run.json> [more...]",
		Short: "Chronological metric drift across a run set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedMetric, err := comparison.ParseTimelineMetric(metric)
			if err != nil {
				return err
			}
			service, runIDs, err := loadRuns(args)
			if err != nil {
				return err
			}
			timeline, err := service.Timeline(context.Background(), runIDs, parsedMetric, core.ModelID(model))
			if err != nil {
				return err
			}
			return printJSON(timeline)
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "restrict to one model")
	cmd.Flags().StringVar(&metric, "metric", "mean", "metric to track (mean|stddev)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var out, model, metric string

	cmd := &cobra.Command{
		Use:   "export <run.json> <run.json> [more...]",
		Short: "Export the full comparison to an .xlsx workbook",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedMetric, err := comparison.ParseTimelineMetric(metric)
			if err != nil {
				return err
			}
			service, runIDs, err := loadRuns(args)
			if err != nil {
				return err
			}

			ctx := context.Background()
			result, err := service.Compare(ctx, runIDs)
			if err != nil {
				return err
			}
			values, err := service.CompareValues(ctx, runIDs, core.ModelID(model))
			if err != nil {
				return err
			}
			timeline, err := service.Timeline(ctx, runIDs, parsedMetric, core.ModelID(model))
			if err != nil {
				return err
			}

			if err := excel.WriteComparisonWorkbook(out, result, values, timeline); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "comparison.xlsx", "output workbook path")
	cmd.Flags().StringVar(&model, "model", "", "restrict to one model")
	cmd.Flags().StringVar(&metric, "metric", "mean", "timeline metric (mean|stddev)")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var seed uint64
	var count int
	var dir string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write synthetic run analysis snapshots for experimentation",
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := testkit.NewTestKitWithSeed(seed, count)
			if err != nil {
				return err
			}
			runs, err := kit.AnalysisReaderAdapter().ListRunAnalyses(context.Background(), 0)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			for _, run := range runs {
				data, err := json.MarshalIndent(run, "", "  ")
				if err != nil {
					return err
				}
				path := fmt.Sprintf("%s/%s.json", dir, run.RunID)
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", testkit.DefaultSeed, "generator seed")
	cmd.Flags().IntVar(&count, "runs", testkit.DefaultRunCount, "number of runs to generate")
	cmd.Flags().StringVar(&dir, "out", "demo-runs", "output directory")
	return cmd
}
