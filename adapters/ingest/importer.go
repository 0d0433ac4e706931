package ingest

import (
	"morpho/domain/measure"
	"morpho/internal"
	"morpho/internal/errors"
	"morpho/ports"

	"github.com/google/uuid"
)

// Importer dispatches files to the format readers. Each importer holds one
// reader per format, so duplicate suppression spans every file the importer
// sees, not just a single file.
type Importer struct {
	csv    *CSVReader
	excel  *ExcelReader
	json   *JSONReader
	runID  string
	logger *internal.Logger
}

// NewImporter builds an importer over a shared parameter mapper. The run ID
// tags log lines so interleaved imports can be told apart.
func NewImporter(mapper *measure.ParameterMapper, logger *internal.Logger) *Importer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Importer{
		csv:    NewCSVReader(mapper, logger),
		excel:  NewExcelReader(mapper, logger),
		json:   NewJSONReader(mapper, logger),
		runID:  uuid.NewString(),
		logger: logger,
	}
}

// RunID identifies this importer instance in logs and export metadata.
func (im *Importer) RunID() string { return im.runID }

// ImportFile routes one file to the reader for its format.
func (im *Importer) ImportFile(desc measure.FileDescriptor) ([]measure.MeasurementRecord, error) {
	reader, err := im.readerFor(desc.Format)
	if err != nil {
		return nil, err
	}
	return reader.ImportFile(desc)
}

// ImportFiles imports a batch in the given order and returns the records
// grouped per file, in the same order.
func (im *Importer) ImportFiles(descs []measure.FileDescriptor) ([][]measure.MeasurementRecord, error) {
	out := make([][]measure.MeasurementRecord, 0, len(descs))
	for _, desc := range descs {
		records, err := im.ImportFile(desc)
		if err != nil {
			return nil, err
		}
		im.logger.Debug("[%s] imported %d records from %s", im.runID, len(records), desc.Path)
		out = append(out, records)
	}
	return out, nil
}

// ImportDirectory scans a directory and imports every convention-named file
// in it.
func (im *Importer) ImportDirectory(dir string) ([]measure.FileDescriptor, [][]measure.MeasurementRecord, error) {
	descs, err := ScanDirectory(dir)
	if err != nil {
		return nil, nil, err
	}
	records, err := im.ImportFiles(descs)
	if err != nil {
		return nil, nil, err
	}
	return descs, records, nil
}

func (im *Importer) readerFor(format measure.FileFormat) (ports.FormatReader, error) {
	switch format {
	case measure.FormatCSV:
		return im.csv, nil
	case measure.FormatXLSX, measure.FormatXLS:
		return im.excel, nil
	case measure.FormatJSON:
		return im.json, nil
	default:
		return nil, errors.UnsupportedFormat(string(format))
	}
}
