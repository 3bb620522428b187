package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailytics/retail-reports/internal/db"
	"github.com/retailytics/retail-reports/internal/export"
	"github.com/retailytics/retail-reports/internal/logging"
	"github.com/retailytics/retail-reports/internal/reports"
)

var (
	runOutput  string
	runFormat  string
	runReports []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the analytical reports and export the results",
	Long: `Execute the report catalog against a cleaned database and write one
output file per report. The command refuses to run before the cleaning
stage has been recorded as complete.

Example:
  retail-reports run --output reports --format csv
  retail-reports run --report customer_segments --report location_sales`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runOutput, "output", "",
		"output directory for report files")
	runCmd.Flags().StringVar(&runFormat, "format", "",
		"export format: csv or json")
	runCmd.Flags().StringArrayVar(&runReports, "report", nil,
		"report to run (repeatable; default: all)")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runOutput != "" {
		cfg.Run.Output = runOutput
	}
	if runFormat != "" {
		cfg.Run.Format = runFormat
	}
	if len(runReports) > 0 {
		cfg.Run.Reports = runReports
	}

	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	// Resolve the selection before touching the database.
	selected := reports.All()
	if len(cfg.Run.Reports) > 0 {
		selected = selected[:0]
		for _, name := range cfg.Run.Reports {
			r, err := reports.Get(name)
			if err != nil {
				return err
			}
			selected = append(selected, r)
		}
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// The cleaning stage must have committed before any report runs.
	cleanedAt, err := db.GetMetadataValue(ctx, pool, db.KeyCleanedAt)
	if err != nil {
		return fmt.Errorf(
			"database has not been cleaned; run 'retail-reports clean' first")
	}
	logging.Debug().Str("cleaned_at", cleanedAt).Msg("Cleaning stage verified")

	for _, r := range selected {
		rows, err := r.Run(ctx, pool)
		if err != nil {
			return fmt.Errorf("report %s failed: %w", r.Name, err)
		}

		path := export.TimestampedFilename(cfg.Run.Output, r.Name, cfg.Run.Format)
		switch cfg.Run.Format {
		case "json":
			err = export.WriteJSON(path, r.Columns, rows)
		default:
			err = export.WriteCSV(path, r.Columns, rows)
		}
		if err != nil {
			return fmt.Errorf("failed to export report %s: %w", r.Name, err)
		}

		logging.Info().
			Str("report", r.Name).
			Int("rows", len(rows)).
			Str("file", path).
			Msg("Report exported")
	}

	logging.Info().Int("reports", len(selected)).Msg("Report run complete")
	return nil
}
