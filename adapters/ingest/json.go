package ingest

import (
	"fmt"
	"strconv"

	"morpho/domain/measure"
	"morpho/internal"
	"morpho/internal/errors"
)

// JSONReader imports measurement arrays from JSON files. One signature cache
// per reader instance.
type JSONReader struct {
	mapper *measure.ParameterMapper
	cache  *measure.SignatureCache
	logger *internal.Logger
}

// NewJSONReader creates a reader restricted to the mapper's selection.
func NewJSONReader(mapper *measure.ParameterMapper, logger *internal.Logger) *JSONReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &JSONReader{
		mapper: mapper,
		cache:  measure.NewSignatureCache(),
		logger: logger,
	}
}

// ImportFile parses one JSON file. Origin rows are numbered from 1; there is
// no header row in this format, so the numbering differs from the CSV and
// Excel readers by one. Preserved for compatibility with stored data.
func (r *JSONReader) ImportFile(desc measure.FileDescriptor) ([]measure.MeasurementRecord, error) {
	objects, err := decodeJSONMeasurements(desc.Path)
	if err != nil {
		return nil, err
	}

	records := make([]measure.MeasurementRecord, 0, len(objects))
	skipped := 0
	for i, obj := range objects {
		originRow := i + 1
		params := make(map[string]float64)
		for name, raw := range obj {
			if !r.mapper.IsSelected(name) {
				continue
			}
			if raw == nil {
				continue // null value, omitted
			}
			value, err := coerceJSONValue(raw)
			if err != nil {
				return nil, errors.MalformedData(fmt.Sprintf(
					"non-numeric value %v for %s in measurement %d of %s",
					raw, name, originRow, desc.Path))
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
		r.logger.Info("skipped %d duplicate measurements in %s", skipped, desc.Path)
	}
	return records, nil
}

func coerceJSONValue(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported value type %T", raw)
	}
}
