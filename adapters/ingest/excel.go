package ingest

import (
	"strconv"
	"strings"

	"morpho/domain/measure"
	"morpho/internal"
	"morpho/internal/errors"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ExcelReader imports XLSX workbooks via excelize and legacy XLS workbooks
// via the xls package. One signature cache per reader instance.
type ExcelReader struct {
	mapper *measure.ParameterMapper
	cache  *measure.SignatureCache
	logger *internal.Logger
}

// NewExcelReader creates a reader restricted to the mapper's selection.
func NewExcelReader(mapper *measure.ParameterMapper, logger *internal.Logger) *ExcelReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ExcelReader{
		mapper: mapper,
		cache:  measure.NewSignatureCache(),
		logger: logger,
	}
}

// ImportFile parses the first sheet of a workbook. Origin rows are numbered
// from 2, matching the CSV reader (header row counted).
func (r *ExcelReader) ImportFile(desc measure.FileDescriptor) ([]measure.MeasurementRecord, error) {
	var rows [][]string
	var err error

	switch desc.Format {
	case measure.FormatXLSX:
		rows, err = readXLSXRows(desc.Path)
	case measure.FormatXLS:
		rows, err = readXLSRows(desc.Path)
	default:
		return nil, errors.UnsupportedFormat(string(desc.Format))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := trimAll(rows[0])
	selected := selectedColumns(header, r.mapper)

	records := make([]measure.MeasurementRecord, 0, len(rows)-1)
	skipped := 0
	for i, row := range rows[1:] {
		originRow := i + 2
		params := make(map[string]float64, len(selected))
		for name, col := range selected {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.MalformedData(
					"non-numeric value " + strconv.Quote(cell) + " for " + name +
						" at row " + strconv.Itoa(originRow) + " of " + desc.Path)
			}
			params[name] = value
		}

		rec := newRecord(desc, originRow, params)
		if r.cache.Observe(rec) {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		r.logger.Info("skipped %d duplicate records in %s", skipped, desc.Path)
	}
	return records, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open XLSX file %s", path)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read first sheet of %s", path)
	}
	return rows, nil
}

func readXLSRows(path string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open XLS file %s", path)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.MalformedData("XLS file " + path + " has no sheets")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
