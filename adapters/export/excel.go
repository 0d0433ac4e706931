package export

import (
	"path/filepath"
	"sort"

	"morpho/internal"
	"morpho/internal/errors"
	"morpho/internal/stats"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter writes an analysis workbook with raw-data, summary and
// frequency sheets.
type ExcelExporter struct {
	engine   *stats.Engine
	binWidth float64
	logger   *internal.Logger
}

// NewExcelExporter creates an exporter running its statistics at the
// engine's alpha and binning frequencies at binWidth.
func NewExcelExporter(engine *stats.Engine, binWidth float64, logger *internal.Logger) *ExcelExporter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ExcelExporter{engine: engine, binWidth: binWidth, logger: logger}
}

// Export writes the workbook into outputDir and returns its path.
func (e *ExcelExporter) Export(outputDir string, data []ParameterData) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"366092"}},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to create header style")
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to create title style")
	}

	if err := e.writeRawDataSheet(f, data, headerStyle, titleStyle); err != nil {
		return "", err
	}
	if err := e.writeSummarySheet(f, data, headerStyle); err != nil {
		return "", err
	}
	if err := e.writeFrequencySheet(f, data, headerStyle, titleStyle); err != nil {
		return "", err
	}
	f.DeleteSheet("Sheet1")

	path := filepath.Join(outputDir, artifactName("analysis", "xlsx"))
	if err := f.SaveAs(path); err != nil {
		return "", errors.Wrapf(err, "failed to save workbook %s", path)
	}
	e.logger.Info("wrote workbook %s", path)
	return path, nil
}

// writeRawDataSheet lays out one column group per parameter: parameter
// title, condition headers, then raw values.
func (e *ExcelExporter) writeRawDataSheet(f *excelize.File, data []ParameterData, headerStyle, titleStyle int) error {
	const sheet = "Raw Data"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create raw data sheet")
	}

	col := 1
	for _, pd := range data {
		titleCell, _ := excelize.CoordinatesToCellName(col, 1)
		f.SetCellValue(sheet, titleCell, pd.Parameter)
		f.SetCellStyle(sheet, titleCell, titleCell, titleStyle)

		for ci, series := range pd.Series {
			headerCell, _ := excelize.CoordinatesToCellName(col+ci, 2)
			f.SetCellValue(sheet, headerCell, series.Condition)
			f.SetCellStyle(sheet, headerCell, headerCell, headerStyle)
			for vi, v := range series.Values {
				cell, _ := excelize.CoordinatesToCellName(col+ci, 3+vi)
				f.SetCellValue(sheet, cell, v)
			}
		}
		// One spacer column between parameter blocks.
		col += len(pd.Series) + 1
	}
	return nil
}

// writeSummarySheet reports descriptives and the selected test per
// parameter/condition.
func (e *ExcelExporter) writeSummarySheet(f *excelize.File, data []ParameterData, headerStyle int) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}

	headers := []string{
		"Parameter", "Condition", "N", "Mean", "SEM", "SD",
		"Median", "Min", "Max", "Q25", "Q75", "Test", "p-value", "Significant",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 2
	for _, pd := range data {
		result := e.compare(pd)
		for _, series := range pd.Series {
			s := stats.Summarize(series.Values)
			values := []interface{}{
				pd.Parameter, series.Condition, s.N, s.Mean, s.SEM, s.SD,
				s.Median, s.Min, s.Max, s.Q25, s.Q75,
			}
			if result != nil {
				values = append(values, result.TestName, result.PValue, result.Significant)
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}
	return nil
}

// writeFrequencySheet writes per-parameter frequency blocks: bin center,
// then count and percentage columns per condition over the union of bins.
func (e *ExcelExporter) writeFrequencySheet(f *excelize.File, data []ParameterData, headerStyle, titleStyle int) error {
	const sheet = "Frequency"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create frequency sheet")
	}

	row := 1
	for _, pd := range data {
		titleCell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, titleCell, pd.Parameter)
		f.SetCellStyle(sheet, titleCell, titleCell, titleStyle)
		row++

		distributions := make(map[string]stats.Distribution, len(pd.Series))
		for _, series := range pd.Series {
			dist, err := stats.FrequencyDistribution(series.Values, e.binWidth)
			if err != nil {
				return err
			}
			distributions[series.Condition] = dist
		}

		headers := []string{"Bin Center"}
		for _, series := range pd.Series {
			headers = append(headers, series.Condition+" Count", series.Condition+" %")
		}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, h)
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
		row++

		for _, lower := range unionBinLowers(distributions) {
			centerCell, _ := excelize.CoordinatesToCellName(1, row)
			f.SetCellValue(sheet, centerCell, lower+e.binWidth/2)
			col := 2
			for _, series := range pd.Series {
				count, rel := binAt(distributions[series.Condition], lower)
				countCell, _ := excelize.CoordinatesToCellName(col, row)
				relCell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, countCell, count)
				f.SetCellValue(sheet, relCell, rel*100)
				col += 2
			}
			row++
		}
		row++
	}
	return nil
}

func (e *ExcelExporter) compare(pd ParameterData) *stats.ComparisonResult {
	if len(pd.Series) < 2 {
		return nil
	}
	groups := make([]stats.Group, len(pd.Series))
	for i, s := range pd.Series {
		groups[i] = stats.Group{Name: s.Condition, Values: s.Values}
	}
	result, err := e.engine.Compare(groups)
	if err != nil {
		e.logger.Warn("comparison failed for %s: %v", pd.Parameter, err)
		return nil
	}
	return result
}

func unionBinLowers(distributions map[string]stats.Distribution) []float64 {
	set := make(map[float64]struct{})
	for _, dist := range distributions {
		for _, bin := range dist.Bins {
			set[bin.Lower] = struct{}{}
		}
	}
	lowers := make([]float64, 0, len(set))
	for l := range set {
		lowers = append(lowers, l)
	}
	sort.Float64s(lowers)
	return lowers
}

func binAt(dist stats.Distribution, lower float64) (int, float64) {
	for _, bin := range dist.Bins {
		if bin.Lower == lower {
			return bin.Count, bin.RelativeFreq
		}
	}
	return 0, 0
}
