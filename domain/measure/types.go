package measure

import (
	"time"
)

// FileFormat identifies a supported source file format.
type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatXLSX FileFormat = "xlsx"
	FormatXLS  FileFormat = "xls"
	FormatJSON FileFormat = "json"
)

// FileDescriptor carries the metadata derived from a data file name.
// Immutable once produced by ParseFileName.
type FileDescriptor struct {
	Path            string
	ExperimentIndex int
	Condition       string
	ImageIndex      int
	DatasetMarker   string // "L", "T" or empty
	Format          FileFormat
}

// MeasurementRecord is one imported row: the selected parameters of a single
// measurement, plus provenance. Missing source values are absent from
// Parameters, never stored as zero.
type MeasurementRecord struct {
	ExperimentIndex int
	Condition       string
	ImageIndex      int
	DatasetMarker   string
	OriginFile      string
	OriginRow       int
	Parameters      map[string]float64
}

// Assay is a named grouping of measurements for one experimental session.
type Assay struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Measurement is the persisted form of a record, exploded to one row per
// parameter. Owned by its assay and deleted with it.
type Measurement struct {
	ID         int64   `db:"id"`
	AssayID    int64   `db:"assay_id"`
	Condition  string  `db:"condition"`
	ImageIndex int     `db:"image_index"`
	OriginFile string  `db:"origin_file"`
	OriginRow  int     `db:"origin_row"`
	Parameter  string  `db:"parameter_name"`
	Value      float64 `db:"value"`
}
