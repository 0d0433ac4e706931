package export

import (
	"testing"

	"morpho/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func twoConditionData() []ParameterData {
	return []ParameterData{
		{
			Parameter: "Length",
			Series: []ConditionSeries{
				{Condition: "Control", Values: []float64{4.1, 5.2, 4.8, 5.5, 4.9, 5.1, 4.7, 5.3, 5.0, 4.6}},
				{Condition: "GST", Values: []float64{6.2, 7.1, 6.8, 7.4, 6.9, 7.0, 6.6, 7.2, 6.7, 7.3}},
			},
		},
		{
			Parameter: "Width",
			Series: []ConditionSeries{
				{Condition: "Control", Values: []float64{1, 2, 3, 11, 12}},
				{Condition: "GST", Values: []float64{2, 3, 4, 12, 13}},
			},
		},
	}
}

func TestExcelExportWorkbook(t *testing.T) {
	exporter := NewExcelExporter(stats.NewEngine(0.05), 10, nil)
	path, err := exporter.Export(t.TempDir(), twoConditionData())
	require.NoError(t, err)
	assert.Regexp(t, `\.xlsx$`, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Raw Data")
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Frequency")
	assert.NotContains(t, sheets, "Sheet1")
}

func TestExcelRawDataLayout(t *testing.T) {
	exporter := NewExcelExporter(stats.NewEngine(0.05), 10, nil)
	path, err := exporter.Export(t.TempDir(), twoConditionData())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Raw Data", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Length", get("A1"))
	assert.Equal(t, "Control", get("A2"))
	assert.Equal(t, "GST", get("B2"))
	assert.Equal(t, "4.1", get("A3"))
	assert.Equal(t, "6.2", get("B3"))
	// Spacer column, then the next parameter block.
	assert.Empty(t, get("C1"))
	assert.Equal(t, "Width", get("D1"))
	assert.Equal(t, "Control", get("D2"))
}

func TestExcelSummarySheet(t *testing.T) {
	exporter := NewExcelExporter(stats.NewEngine(0.05), 10, nil)
	path, err := exporter.Export(t.TempDir(), twoConditionData())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 5, "header plus four condition rows")

	assert.Equal(t, "Parameter", rows[0][0])
	assert.Equal(t, "Test", rows[0][11])

	assert.Equal(t, "Length", rows[1][0])
	assert.Equal(t, "Control", rows[1][1])
	assert.Equal(t, "10", rows[1][2])
	assert.Equal(t, "t-test", rows[1][11], "clearly normal groups take the parametric path")
}

func TestExcelFrequencySheetBinCenters(t *testing.T) {
	exporter := NewExcelExporter(stats.NewEngine(0.05), 10, nil)
	data := []ParameterData{{
		Parameter: "Width",
		Series: []ConditionSeries{
			{Condition: "Control", Values: []float64{1, 2, 3, 11, 12}},
			{Condition: "GST", Values: []float64{2, 3, 4, 12, 13}},
		},
	}}

	path, err := exporter.Export(t.TempDir(), data)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Frequency", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Width", get("A1"))
	assert.Equal(t, "Bin Center", get("A2"))
	assert.Equal(t, "Control Count", get("B2"))
	assert.Equal(t, "Control %", get("C2"))
	// Control bins start at 1, so the first center is 1+10/2.
	assert.Equal(t, "6", get("A3"))
	assert.Equal(t, "3", get("B3"))
	assert.Equal(t, "60", get("C3"))
}

func TestExcelSingleConditionSkipsTestColumns(t *testing.T) {
	exporter := NewExcelExporter(stats.NewEngine(0.05), 10, nil)
	data := []ParameterData{{
		Parameter: "Length",
		Series: []ConditionSeries{
			{Condition: "Control", Values: []float64{1, 2, 3, 4, 5}},
		},
	}}

	path, err := exporter.Export(t.TempDir(), data)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.LessOrEqual(t, len(rows[1]), 11, "no test verdict with a single condition")
}
