package ports

import (
	"morpho/domain/measure"
)

// FormatReader parses one source file format into measurement records.
// Readers keep a per-instance duplicate-signature cache: re-using one reader
// across files suppresses cross-file duplicates, a fresh instance does not.
type FormatReader interface {
	ImportFile(desc measure.FileDescriptor) ([]measure.MeasurementRecord, error)
}
