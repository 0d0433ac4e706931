package postgres

import (
	"context"
	"database/sql"

	"morpho/domain/measure"
	"morpho/internal"
	"morpho/internal/errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS assays (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS measurements (
	id BIGSERIAL PRIMARY KEY,
	assay_id BIGINT NOT NULL REFERENCES assays(id) ON DELETE CASCADE,
	condition TEXT NOT NULL,
	image_index INTEGER NOT NULL,
	origin_file TEXT NOT NULL,
	origin_row INTEGER NOT NULL,
	parameter_name TEXT NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	UNIQUE (assay_id, image_index, parameter_name, value)
);

CREATE INDEX IF NOT EXISTS idx_measurements_assay
	ON measurements (assay_id);
CREATE INDEX IF NOT EXISTS idx_measurements_assay_condition
	ON measurements (assay_id, condition);
`

// Store is the server-backed measurement store for shared lab databases.
type Store struct {
	URL    string
	db     *sqlx.DB
	logger *internal.Logger
}

// New creates a store for the database at url (a lib/pq connection string).
func New(url string, logger *internal.Logger) *Store {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{URL: url, logger: logger}
}

func (s *Store) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", s.URL)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError,
			errors.Wrap(err, "failed to connect to postgres"))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return errors.WithCode(errors.CodeDatabaseError,
			errors.Wrap(err, "failed to create schema"))
	}
	s.db = db
	s.logger.Debug("connected to postgres database")
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
	var id int64
	err := s.db.GetContext(ctx, &id,
		"INSERT INTO assays (name, description) VALUES ($1, $2) RETURNING id", name, description)
	if err != nil {
		return 0, errors.WithCode(errors.CodeDatabaseError,
			errors.Wrapf(err, "failed to insert assay %s", name))
	}
	return id, nil
}

func (s *Store) GetAssay(ctx context.Context, assayID int64) (*measure.Assay, error) {
	var a measure.Assay
	err := s.db.GetContext(ctx, &a,
		"SELECT id, name, description, created_at FROM assays WHERE id = $1", assayID)
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
		"SELECT id, name, description, created_at FROM assays WHERE name = $1 ORDER BY id DESC LIMIT 1", name)
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
	res, err := s.db.ExecContext(ctx, "DELETE FROM assays WHERE id = $1", assayID)
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
			  WHERE assay_id = $1 AND origin_file = $2 AND condition = $3)`,
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
		`INSERT INTO measurements
		   (assay_id, condition, image_index, origin_file, origin_row, parameter_name, value)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (assay_id, image_index, parameter_name, value) DO NOTHING`)
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
		"SELECT DISTINCT condition FROM measurements WHERE assay_id = $1 ORDER BY condition", assayID)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return out, nil
}

func (s *Store) GetParameters(ctx context.Context, assayID int64) ([]string, error) {
	var out []string
	err := s.db.SelectContext(ctx, &out,
		"SELECT DISTINCT parameter_name FROM measurements WHERE assay_id = $1 ORDER BY parameter_name", assayID)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return out, nil
}

func (s *Store) GetMeasurementCount(ctx context.Context, assayID int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM measurements WHERE assay_id = $1", assayID)
	if err != nil {
		return 0, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return n, nil
}
