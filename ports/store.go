package ports

import (
	"context"

	"morpho/domain/measure"
)

// MeasurementStore is the contract shared by the file-backed and
// server-backed relational stores. Implementations persist assays and the
// measurements exploded from imported records, one row per parameter.
type MeasurementStore interface {
	// Connect establishes the underlying connection and ensures the schema
	// exists.
	Connect(ctx context.Context) error
	// Disconnect closes the underlying connection. Safe to call when not
	// connected.
	Disconnect() error

	// InsertAssay always creates a new assay; names are not unique.
	InsertAssay(ctx context.Context, name, description string) (int64, error)
	GetAssay(ctx context.Context, assayID int64) (*measure.Assay, error)
	GetAssayByName(ctx context.Context, name string) (*measure.Assay, error)
	ListAssays(ctx context.Context) ([]measure.Assay, error)
	// DeleteAssay removes an assay and, by referential cascade, all its
	// measurements.
	DeleteAssay(ctx context.Context, assayID int64) error

	// InsertMeasurements explodes each record into one stored row per
	// parameter and returns the number of rows actually inserted. With
	// checkDuplicates set, a prior insert for the same (assay, source file,
	// condition) causes the whole call to be skipped with a zero count.
	InsertMeasurements(ctx context.Context, assayID int64, records []measure.MeasurementRecord, sourceFile, condition string, checkDuplicates bool) (int, error)

	// GetMeasurements returns stored rows for an assay, optionally filtered
	// by condition and restricted to a parameter subset. Empty condition and
	// nil parameters mean no filtering.
	GetMeasurements(ctx context.Context, assayID int64, condition string, parameters []string) ([]measure.Measurement, error)
	GetConditions(ctx context.Context, assayID int64) ([]string, error)
	GetParameters(ctx context.Context, assayID int64) ([]string, error)
	GetMeasurementCount(ctx context.Context, assayID int64) (int, error)
}

// Using runs fn against a connected store and guarantees disconnection on
// every exit path, including panics and errors raised inside fn.
func Using(ctx context.Context, store MeasurementStore, fn func(MeasurementStore) error) error {
	if err := store.Connect(ctx); err != nil {
		return err
	}
	defer store.Disconnect()
	return fn(store)
}
