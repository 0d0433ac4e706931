package sqlite

import (
	"context"
	"database/sql"
	"sort"

	"morpho/domain/measure"
	"morpho/internal"
	"morpho/internal/errors"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS assays (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS measurements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	assay_id INTEGER NOT NULL REFERENCES assays(id) ON DELETE CASCADE,
	condition TEXT NOT NULL,
	image_index INTEGER NOT NULL,
	origin_file TEXT NOT NULL,
	origin_row INTEGER NOT NULL,
	parameter_name TEXT NOT NULL,
	value REAL NOT NULL,
	UNIQUE (assay_id, image_index, parameter_name, value)
);

CREATE INDEX IF NOT EXISTS idx_measurements_assay
	ON measurements (assay_id);
CREATE INDEX IF NOT EXISTS idx_measurements_assay_condition
	ON measurements (assay_id, condition);
`

// Store is the file-backed measurement store. Zero external services; the
// database lives in a single file at Path.
type Store struct {
	Path   string
	db     *sqlx.DB
	logger *internal.Logger
}

// New creates a store for the database file at path. Connect creates the
// file and schema on first use.
func New(path string, logger *internal.Logger) *Store {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{Path: path, logger: logger}
}

func (s *Store) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(ctx, "sqlite", s.Path)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError,
			errors.Wrapf(err, "failed to open sqlite database %s", s.Path))
	}
	// Referential cascade from assays to measurements depends on this.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return errors.WithCode(errors.CodeDatabaseError,
			errors.Wrap(err, "failed to enable foreign keys"))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return errors.WithCode(errors.CodeDatabaseError,
			errors.Wrap(err, "failed to create schema"))
	}
	s.db = db
	s.logger.Debug("connected to sqlite database %s", s.Path)
	return nil
}

func (s *Store) Disconnect() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) InsertAssay(ctx context.Context, name, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO assays (name, description) VALUES (?, ?)", name, description)
	if err != nil {
		return 0, errors.WithCode(errors.CodeDatabaseError,
			errors.Wrapf(err, "failed to insert assay %s", name))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return id, nil
}

func (s *Store) GetAssay(ctx context.Context, assayID int64) (*measure.Assay, error) {
	var a measure.Assay
	err := s.db.GetContext(ctx, &a,
		"SELECT id, name, description, created_at FROM assays WHERE id = ?", assayID)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("assay %d not found", assayID)
	}
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return &a, nil
}

func (s *Store) GetAssayByName(ctx context.Context, name string) (*measure.Assay, error) {
	var a measure.Assay
	err := s.db.GetContext(ctx, &a,
		"SELECT id, name, description, created_at FROM assays WHERE name = ? ORDER BY id DESC LIMIT 1", name)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("assay %q not found", name)
	}
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return &a, nil
}

func (s *Store) ListAssays(ctx context.Context) ([]measure.Assay, error) {
	var assays []measure.Assay
	err := s.db.SelectContext(ctx, &assays,
		"SELECT id, name, description, created_at FROM assays ORDER BY id")
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return assays, nil
}

func (s *Store) DeleteAssay(ctx context.Context, assayID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM assays WHERE id = ?", assayID)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFoundf("assay %d not found", assayID)
	}
	return nil
}

func (s *Store) InsertMeasurements(ctx context.Context, assayID int64, records []measure.MeasurementRecord, sourceFile, condition string, checkDuplicates bool) (int, error) {
	if checkDuplicates {
		var exists bool
		err := s.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM measurements
			  WHERE assay_id = ? AND origin_file = ? AND condition = ?)`,
			assayID, sourceFile, condition)
		if err != nil {
			return 0, errors.WithCode(errors.CodeDatabaseError, err)
		}
		if exists {
			s.logger.Info("skipping %s / %s: already present in assay %d", sourceFile, condition, assayID)
			return 0, nil
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.WithCode(errors.CodeDatabaseError, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx,
		`INSERT OR IGNORE INTO measurements
		   (assay_id, condition, image_index, origin_file, origin_row, parameter_name, value)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.WithCode(errors.CodeDatabaseError, err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		for _, name := range sortedParams(rec.Parameters) {
			res, err := stmt.ExecContext(ctx,
				assayID, rec.Condition, rec.ImageIndex, rec.OriginFile, rec.OriginRow, name, rec.Parameters[name])
			if err != nil {
				return 0, errors.WithCode(errors.CodeDatabaseError,
					errors.Wrapf(err, "failed to insert measurement from %s row %d", rec.OriginFile, rec.OriginRow))
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return inserted, nil
}

func (s *Store) GetMeasurements(ctx context.Context, assayID int64, condition string, parameters []string) ([]measure.Measurement, error) {
	query, args, err := measurementsQuery(assayID, condition, parameters)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	var out []measure.Measurement
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return out, nil
}

func (s *Store) GetConditions(ctx context.Context, assayID int64) ([]string, error) {
	var out []string
	err := s.db.SelectContext(ctx, &out,
		"SELECT DISTINCT condition FROM measurements WHERE assay_id = ? ORDER BY condition", assayID)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return out, nil
}

func (s *Store) GetParameters(ctx context.Context, assayID int64) ([]string, error) {
	var out []string
	err := s.db.SelectContext(ctx, &out,
		"SELECT DISTINCT parameter_name FROM measurements WHERE assay_id = ? ORDER BY parameter_name", assayID)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return out, nil
}

func (s *Store) GetMeasurementCount(ctx context.Context, assayID int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM measurements WHERE assay_id = ?", assayID)
	if err != nil {
		return 0, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return n, nil
}

// measurementsQuery builds the filtered select in sqlx "?" form; callers
// rebind for their driver.
func measurementsQuery(assayID int64, condition string, parameters []string) (string, []interface{}, error) {
	query := `SELECT id, assay_id, condition, image_index, origin_file, origin_row, parameter_name, value
	          FROM measurements WHERE assay_id = ?`
	args := []interface{}{assayID}
	if condition != "" {
		query += " AND condition = ?"
		args = append(args, condition)
	}
	if len(parameters) > 0 {
		query += " AND parameter_name IN (?)"
		args = append(args, parameters)
		return sqlx.In(query+" ORDER BY id", args...)
	}
	return query + " ORDER BY id", args, nil
}

func sortedParams(params map[string]float64) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
