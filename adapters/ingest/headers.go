package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"morpho/internal/errors"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// csvDelimiters is the probe order for delimited text files.
var csvDelimiters = []rune{',', ';', '\t'}

// ScanHeaders returns the ordered column names exposed by a data file
// without loading full row data.
func ScanHeaders(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return scanCSVHeaders(path)
	case ".xlsx":
		return scanXLSXHeaders(path)
	case ".xls":
		return scanXLSHeaders(path)
	case ".json":
		return scanJSONHeaders(path)
	default:
		return nil, errors.UnsupportedFormat(ext)
	}
}

func scanCSVHeaders(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	// Accept the first delimiter that yields more than one column.
	for _, delim := range csvDelimiters {
		r := csv.NewReader(bytes.NewReader(data))
		r.Comma = delim
		r.FieldsPerRecord = -1
		header, err := r.Read()
		if err != nil {
			continue
		}
		if len(header) > 1 {
			return trimAll(header), nil
		}
	}

	// Fall back to default parsing and propagate whatever it raises.
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse CSV header of %s", path)
	}
	return trimAll(header), nil
}

func scanXLSXHeaders(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open XLSX file %s", path)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read first sheet of %s", path)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}

	// Empty header cells are dropped, not kept as placeholders. This shifts
	// the indices of later columns; kept for compatibility with existing
	// data produced under the same rule.
	headers := make([]string, 0, len(rows[0]))
	for _, cell := range rows[0] {
		if v := strings.TrimSpace(cell); v != "" {
			headers = append(headers, v)
		}
	}
	return headers, nil
}

func scanXLSHeaders(path string) ([]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open XLS file %s", path)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.MalformedData("XLS file " + path + " has no sheets")
	}
	row := sheet.Row(0)
	if row == nil {
		return []string{}, nil
	}

	headers := []string{}
	for c := row.FirstCol(); c < row.LastCol(); c++ {
		if v := strings.TrimSpace(row.Col(c)); v != "" {
			headers = append(headers, v)
		}
	}
	return headers, nil
}

func scanJSONHeaders(path string) ([]string, error) {
	records, err := decodeJSONMeasurements(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []string{}, nil
	}

	headers := make([]string, 0, len(records[0]))
	for key := range records[0] {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers, nil
}

// decodeJSONMeasurements accepts a bare array of objects or an object with a
// "measurements" key holding that array. Any other top-level shape fails.
func decodeJSONMeasurements(path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var top interface{}
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.WithCode(errors.CodeMalformedData,
			errors.Wrapf(err, "failed to parse JSON file %s", path))
	}

	var raw []interface{}
	switch v := top.(type) {
	case []interface{}:
		raw = v
	case map[string]interface{}:
		inner, ok := v["measurements"]
		if !ok {
			return nil, errors.MalformedData("JSON file " + path + " has no measurements array")
		}
		arr, ok := inner.([]interface{})
		if !ok {
			return nil, errors.MalformedData("measurements key in " + path + " is not an array")
		}
		raw = arr
	default:
		return nil, errors.MalformedData("unrecognized top-level JSON structure in " + path)
	}

	records := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.MalformedData("measurement entries in " + path + " must be objects")
		}
		records = append(records, obj)
	}
	return records, nil
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
