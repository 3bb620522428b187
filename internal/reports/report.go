//-------------------------------------------------------------------------
//
// retail-reports
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package reports defines the catalog of analytical reports the pipeline
// runs against the cleaned retail dataset. Each report is an independent
// read-only query producing one result table.
//
// Wherever a query has to break a tie on an extreme or a rank, the row with
// the lowest ID wins. The underlying data leaves tie order unspecified, so
// the catalog pins it down to keep report output deterministic.
package reports

import (
	"context"
	"strconv"

	"github.com/retailytics/retail-reports/internal/db"
)

// Report describes one analytical report in the catalog.
type Report struct {
	// Name is the report identifier, used for file names and selection.
	Name string

	// Description describes what the report computes.
	Description string

	// Columns are the output column names, in order.
	Columns []string

	// Run executes the report and returns its rows as formatted strings.
	Run func(ctx context.Context, q db.DB) ([][]string, error)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
