package ingest

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"morpho/domain/measure"
	"morpho/internal"
	"morpho/internal/errors"
)

// CSVReader imports delimited text files. The duplicate-signature cache is
// scoped to the reader instance.
type CSVReader struct {
	mapper *measure.ParameterMapper
	cache  *measure.SignatureCache
	logger *internal.Logger
}

// NewCSVReader creates a reader restricted to the mapper's selection.
func NewCSVReader(mapper *measure.ParameterMapper, logger *internal.Logger) *CSVReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CSVReader{
		mapper: mapper,
		cache:  measure.NewSignatureCache(),
		logger: logger,
	}
}

// ImportFile parses one CSV file into measurement records. Origin rows are
// numbered from 2: 1-indexed with the header row counted.
func (r *CSVReader) ImportFile(desc measure.FileDescriptor) ([]measure.MeasurementRecord, error) {
	data, err := os.ReadFile(desc.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", desc.Path)
	}

	rows, err := parseDelimited(data, desc.Path)
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
				continue // missing value, omitted
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

// parseDelimited reads all rows using the first probe delimiter that yields
// more than one column, falling back to default comma parsing.
func parseDelimited(data []byte, path string) ([][]string, error) {
	for _, delim := range csvDelimiters {
		r := csv.NewReader(bytes.NewReader(data))
		r.Comma = delim
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			continue
		}
		if len(rows) > 0 && len(rows[0]) > 1 {
			return rows, nil
		}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeMalformedData,
			errors.Wrapf(err, "failed to parse %s", path))
	}
	return rows, nil
}

// selectedColumns maps selected parameter names to their column index in
// the header. Custom parameters have no backing column and are excluded.
func selectedColumns(header []string, mapper *measure.ParameterMapper) map[string]int {
	cols := make(map[string]int)
	for i, name := range header {
		if mapper.IsSelected(name) {
			cols[name] = i
		}
	}
	return cols
}

func newRecord(desc measure.FileDescriptor, originRow int, params map[string]float64) measure.MeasurementRecord {
	return measure.MeasurementRecord{
		ExperimentIndex: desc.ExperimentIndex,
		Condition:       desc.Condition,
		ImageIndex:      desc.ImageIndex,
		DatasetMarker:   desc.DatasetMarker,
		OriginFile:      filepath.Base(desc.Path),
		OriginRow:       originRow,
		Parameters:      params,
	}
}
