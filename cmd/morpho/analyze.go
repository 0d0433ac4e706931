package main

import (
	"encoding/json"
	"fmt"
	"os"

	"morpho/adapters/export"
	"morpho/internal/analysis"
	"morpho/internal/stats"
	"morpho/ports"

	"github.com/spf13/cobra"
)

var (
	analyzeAssayID        int64
	analyzeParams         string
	analyzeAlpha          float64
	analyzeRepresentative bool
	analyzeDensity        bool
	analyzeImageArea      float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run statistics over a stored assay",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeAssayID == 0 {
			return fmt.Errorf("--assay-id is required")
		}
		alpha := analyzeAlpha
		if alpha == 0 {
			alpha = cfg.Analysis.Alpha
		}
		engine := stats.NewEngine(alpha)

		return ports.Using(cmd.Context(), newStore(), func(store ports.MeasurementStore) error {
			var parameters []string
			if analyzeParams != "" {
				parameters = splitList(analyzeParams)
			}
			measurements, err := store.GetMeasurements(cmd.Context(), analyzeAssayID, "", parameters)
			if err != nil {
				return err
			}
			if len(measurements) == 0 {
				return fmt.Errorf("assay %d has no measurements", analyzeAssayID)
			}

			out := make(map[string]interface{})

			comparisons := make(map[string]*stats.ComparisonResult)
			for _, pd := range export.GroupByParameter(measurements, parameters) {
				if len(pd.Series) < 2 {
					continue
				}
				groups := make([]stats.Group, len(pd.Series))
				for i, s := range pd.Series {
					groups[i] = stats.Group{Name: s.Condition, Values: s.Values}
				}
				result, err := engine.Compare(groups)
				if err != nil {
					logger.Warn("comparison failed for %s: %v", pd.Parameter, err)
					continue
				}
				comparisons[pd.Parameter] = result
			}
			out["comparisons"] = comparisons

			if analyzeRepresentative {
				out["representative_files"] = analysis.RepresentativeFiles(measurements, parameters)
			}
			if analyzeDensity {
				calc := analysis.NewDensityCalculator(analysis.DensityConfig{
					ImageAreaMicronSq: analyzeImageArea,
				})
				out["densities"] = calc.ImageDensities(measurements)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		})
	},
}

func init() {
	analyzeCmd.Flags().Int64Var(&analyzeAssayID, "assay-id", 0, "assay to analyze")
	analyzeCmd.Flags().StringVar(&analyzeParams, "params", "", "comma-separated parameter subset (default: all)")
	analyzeCmd.Flags().Float64Var(&analyzeAlpha, "alpha", 0, "significance threshold (default: configured ALPHA)")
	analyzeCmd.Flags().BoolVar(&analyzeRepresentative, "representative", false, "rank each condition's files by distance to the condition centroid")
	analyzeCmd.Flags().BoolVar(&analyzeDensity, "density", false, "compute per-image structure densities")
	analyzeCmd.Flags().Float64Var(&analyzeImageArea, "image-area", 0, "per-image area in um2 for density (default: 12.2647)")
	rootCmd.AddCommand(analyzeCmd)
}
