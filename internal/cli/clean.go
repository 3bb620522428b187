package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailytics/retail-reports/internal/cleaning"
	"github.com/retailytics/retail-reports/internal/db"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the data-cleaning stage",
	Long: `Run the cleaning stage against an initialized database: audit
products for missing values, normalize NULL or empty customer locations
to the 'BLANK' sentinel, and collapse duplicate sales down to the row
with the lowest transaction ID.

All mutations run in a single transaction. The stage records a
'cleaned_at' marker that the 'run' command requires.`,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if _, err := cleaning.Run(ctx, pool); err != nil {
		return fmt.Errorf("cleaning stage failed: %w", err)
	}
	return nil
}
