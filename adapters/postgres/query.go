package postgres

import (
	"sort"

	"github.com/jmoiron/sqlx"
)

// measurementsQuery builds the filtered select in sqlx "?" form; Rebind
// converts to $N placeholders.
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
