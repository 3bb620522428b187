//-------------------------------------------------------------------------
//
// retail-reports
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cleaning implements the data-cleaning stage of the reporting
// pipeline: a read-only null audit of products, location normalization on
// customers and deduplication of sales. The mutating steps run inside a
// single transaction, so the stage either commits as a whole or not at all.
package cleaning

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailytics/retail-reports/internal/db"
	"github.com/retailytics/retail-reports/internal/logging"
)

// LocationSentinel replaces NULL or empty customer locations.
const LocationSentinel = "BLANK"

// ProductNullAudit holds per-column missing-value counts for products.
type ProductNullAudit struct {
	ProductName int64
	Category    int64
	StockLevel  int64
	Price       int64
}

// Result summarizes one run of the cleaning stage.
type Result struct {
	Audit               ProductNullAudit
	LocationsNormalized int64
	DuplicatesRemoved   int64
}

// AuditProducts counts missing values per products column. Diagnostic only;
// nothing is mutated.
func AuditProducts(ctx context.Context, q db.DB) (ProductNullAudit, error) {
	var audit ProductNullAudit
	err := q.QueryRow(ctx, `
        SELECT COUNT(*) FILTER (WHERE product_name IS NULL),
               COUNT(*) FILTER (WHERE category IS NULL),
               COUNT(*) FILTER (WHERE stock_level IS NULL),
               COUNT(*) FILTER (WHERE price IS NULL)
        FROM products
    `).Scan(&audit.ProductName, &audit.Category, &audit.StockLevel, &audit.Price)
	if err != nil {
		return audit, fmt.Errorf("product null audit failed: %w", err)
	}
	return audit, nil
}

// NormalizeLocations replaces NULL or empty customer locations with the
// sentinel value. Idempotent: a second application updates zero rows.
func NormalizeLocations(ctx context.Context, q db.DB) (int64, error) {
	tag, err := q.Exec(ctx, `
        UPDATE customers
        SET location = $1
        WHERE location IS NULL OR location = ''
    `, LocationSentinel)
	if err != nil {
		return 0, fmt.Errorf("location normalization failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeduplicateSales collapses sales sharing a (product, customer, date)
// triple down to the row with the minimum transaction_id and deletes the
// rest. Afterwards the triple is unique across sales.
func DeduplicateSales(ctx context.Context, q db.DB) (int64, error) {
	tag, err := q.Exec(ctx, `
        DELETE FROM sales a
        USING sales b
        WHERE a.product_id = b.product_id
          AND a.customer_id = b.customer_id
          AND a.transaction_date = b.transaction_date
          AND a.transaction_id > b.transaction_id
    `)
	if err != nil {
		return 0, fmt.Errorf("sales deduplication failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Run executes the full cleaning stage in one transaction and records the
// cleaned_at marker that the run command checks before executing reports.
func Run(ctx context.Context, pool *pgxpool.Pool) (Result, error) {
	var res Result

	tx, err := pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin cleaning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	res.Audit, err = AuditProducts(ctx, tx)
	if err != nil {
		return res, err
	}
	logging.Info().
		Int64("product_name", res.Audit.ProductName).
		Int64("category", res.Audit.Category).
		Int64("stock_level", res.Audit.StockLevel).
		Int64("price", res.Audit.Price).
		Msg("Product null audit")

	res.LocationsNormalized, err = NormalizeLocations(ctx, tx)
	if err != nil {
		return res, err
	}

	res.DuplicatesRemoved, err = DeduplicateSales(ctx, tx)
	if err != nil {
		return res, err
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("failed to commit cleaning transaction: %w", err)
	}

	if err := db.MarkStage(ctx, pool, db.KeyCleanedAt); err != nil {
		return res, err
	}

	logging.Info().
		Int64("locations_normalized", res.LocationsNormalized).
		Int64("duplicates_removed", res.DuplicatesRemoved).
		Msg("Cleaning stage complete")

	return res, nil
}
