package main

import (
	"fmt"
	"os"

	"morpho/adapters/export"
	"morpho/domain/profile"
	"morpho/internal/profiles"
	"morpho/internal/stats"
	"morpho/ports"

	"github.com/spf13/cobra"
)

var (
	exportAssayID int64
	exportProfile string
	exportDir     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write analysis artifacts for a stored assay",
	Long: `Writes the artifacts enabled by the active profile: an Excel
workbook, a GraphPad Prism .pzfx file, a markdown/HTML report and plot
images.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportAssayID == 0 {
			return fmt.Errorf("--assay-id is required")
		}

		p, err := activeProfile()
		if err != nil {
			return err
		}

		outputDir := exportDir
		if outputDir == "" {
			outputDir = cfg.Paths.ExportDir
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return err
		}

		engine := stats.NewEngine(p.Alpha)

		return ports.Using(cmd.Context(), newStore(), func(store ports.MeasurementStore) error {
			measurements, err := store.GetMeasurements(cmd.Context(), exportAssayID, "", p.ExportParameters)
			if err != nil {
				return err
			}
			if len(measurements) == 0 {
				return fmt.Errorf("assay %d has no measurements", exportAssayID)
			}
			data := export.GroupByParameter(measurements, p.ExportParameters)

			if p.ExportExcel {
				path, err := export.NewExcelExporter(engine, p.FrequencyBinWidth, logger).Export(outputDir, data)
				if err != nil {
					return err
				}
				fmt.Println("workbook:", path)
			}
			if p.ExportGraphPad {
				path, err := export.NewGraphPadExporter(logger).Export(outputDir, data)
				if err != nil {
					return err
				}
				fmt.Println("graphpad:", path)
			}
			if p.ExportStatisticsTables {
				mdPath, htmlPath, err := export.NewReportExporter(engine, logger).Export(outputDir, "Analysis report", data)
				if err != nil {
					return err
				}
				fmt.Println("report:", mdPath)
				fmt.Println("report:", htmlPath)
			}
			if p.ExportPlots {
				plots := export.NewPlotExporter(p, logger)
				families := []struct {
					enabled bool
					render  func(string, []export.ParameterData) ([]string, error)
				}{
					{p.PlotTypes["barplot_relative"] || p.PlotTypes["barplot_total"], plots.ExportBarPlots},
					{p.PlotTypes["boxplot_relative"] || p.PlotTypes["boxplot_total"], plots.ExportBoxPlots},
					{p.PlotTypes["frequency_count"] || p.PlotTypes["frequency_relative"], plots.ExportFrequencyPlots},
				}
				for _, family := range families {
					if !family.enabled {
						continue
					}
					paths, err := family.render(outputDir, data)
					if err != nil {
						return err
					}
					for _, path := range paths {
						fmt.Println("plot:", path)
					}
				}
			}
			return nil
		})
	},
}

// activeProfile loads the named profile or falls back to defaults seeded
// from configuration.
func activeProfile() (*profile.Profile, error) {
	if exportProfile == "" {
		p := profile.Default("Default")
		p.Alpha = cfg.Analysis.Alpha
		p.FrequencyBinWidth = cfg.Analysis.BinWidth
		p.PlotDPI = cfg.Analysis.PlotDPI
		return p, nil
	}
	manager, err := profiles.NewManager(cfg.Paths.ProfilesDir)
	if err != nil {
		return nil, err
	}
	return manager.Load(exportProfile)
}

func init() {
	exportCmd.Flags().Int64Var(&exportAssayID, "assay-id", 0, "assay to export")
	exportCmd.Flags().StringVar(&exportProfile, "profile", "", "analysis profile name (default: built-in defaults)")
	exportCmd.Flags().StringVar(&exportDir, "out", "", "output directory (default: configured EXPORT_DIR)")
	rootCmd.AddCommand(exportCmd)
}
