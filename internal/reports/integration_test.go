//-------------------------------------------------------------------------
//
// retail-reports
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// End-to-end tests for the cleaning stage and the report catalog.
// Run with: go test -tags=integration ./internal/reports/...
// Requires PostgreSQL to be available.
// Set RETAIL_REPORTS_TEST_CONN to override the connection string.

package reports_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailytics/retail-reports/internal/cleaning"
	"github.com/retailytics/retail-reports/internal/reports"
	"github.com/retailytics/retail-reports/internal/retail"
	"github.com/retailytics/retail-reports/internal/testutil"
)

// The fixture covers every report edge the catalog cares about:
//   - customers 1, 2, 3, 5, 7 are High Spenders with five distinct spends
//     (50000, 40000, 30000, 10000, 20000), so top-3-per-segment is exact
//   - customer 6 has a duplicated (product, date) sale that dedup collapses
//   - customer 4 has two genuine purchases of the same product (a repeat)
//   - customers 2, 3 and 6 have empty or NULL locations that normalize to
//     the BLANK sentinel
//   - product 20 carries NULL category, stock and price for the audit
const fixtureSQL = `
INSERT INTO customers (customer_id, age, gender, location, join_date) VALUES
    (1, 15, 'Female', 'Springfield', '2022-03-01'),
    (2, 25, 'Male', '', '2021-06-15'),
    (3, 45, 'Female', NULL, '2020-11-20'),
    (4, 60, 'Male', 'Shelbyville', '2023-01-10'),
    (5, 60, 'Female', 'Springfield', '2022-08-05'),
    (6, 70, 'Male', '', '2019-04-30'),
    (7, 33, 'Female', 'Shelbyville', '2023-05-25');

INSERT INTO products (product_id, product_name, category, stock_level, price) VALUES
    (1, 'Widget', 'Electronics', 50, 100.00),
    (10, 'Gizmo', 'Toys', 200, 5.00),
    (20, 'Spare', NULL, NULL, NULL);

INSERT INTO sales (transaction_id, customer_id, product_id, quantity_purchased, transaction_date, price) VALUES
    (1, 1, 1, 500, '2024-01-01', 100.00),
    (2, 2, 1, 400, '2024-01-02', 100.00),
    (3, 3, 1, 300, '2024-01-03', 100.00),
    (4, 5, 1, 100, '2024-01-04', 100.00),
    (5, 7, 1, 200, '2024-01-05', 100.00),
    (100, 6, 10, 2, '2023-01-01', 5.00),
    (101, 6, 10, 3, '2023-01-01', 5.00),
    (102, 4, 10, 1, '2024-02-01', 5.00),
    (103, 4, 10, 1, '2024-02-02', 5.00);
`

func setupFixtureDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	baseConnStr := testutil.SkipIfNoPostgres(t)
	testConnStr := testutil.CreateTestDB(t, baseConnStr, "reports")
	dbName := testutil.GetDBNameFromConnStr(testConnStr)

	cleanup := testutil.NewTestCleanup(t, baseConnStr, dbName)
	t.Cleanup(cleanup.Cleanup)

	pool := testutil.ConnectTestDB(t, testConnStr)
	cleanup.SetPool(pool)

	ctx := context.Background()
	if err := retail.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}
	if _, err := pool.Exec(ctx, fixtureSQL); err != nil {
		t.Fatalf("Failed to load fixture: %v", err)
	}
	return pool
}

func runReport(t *testing.T, pool *pgxpool.Pool, name string) [][]string {
	t.Helper()

	r, err := reports.Get(name)
	if err != nil {
		t.Fatalf("Failed to get report %s: %v", name, err)
	}
	rows, err := r.Run(context.Background(), pool)
	if err != nil {
		t.Fatalf("Report %s failed: %v", name, err)
	}
	return rows
}

func TestPipelineIntegration(t *testing.T) {
	pool := setupFixtureDB(t)
	ctx := context.Background()

	var res cleaning.Result

	t.Run("Clean", func(t *testing.T) {
		var err error
		res, err = cleaning.Run(ctx, pool)
		if err != nil {
			t.Fatalf("Cleaning stage failed: %v", err)
		}

		if res.Audit.ProductName != 0 {
			t.Errorf("Expected 0 missing product names, got %d", res.Audit.ProductName)
		}
		if res.Audit.Category != 1 || res.Audit.StockLevel != 1 || res.Audit.Price != 1 {
			t.Errorf("Unexpected audit counts: %+v", res.Audit)
		}
		if res.LocationsNormalized != 3 {
			t.Errorf("Expected 3 normalized locations, got %d", res.LocationsNormalized)
		}
		if res.DuplicatesRemoved != 1 {
			t.Errorf("Expected 1 duplicate removed, got %d", res.DuplicatesRemoved)
		}
	})

	t.Run("DedupKeepsMinTransactionID", func(t *testing.T) {
		var count, txID int
		err := pool.QueryRow(ctx, `
            SELECT COUNT(*), MIN(transaction_id) FROM sales
            WHERE customer_id = 6 AND product_id = 10 AND transaction_date = '2023-01-01'
        `).Scan(&count, &txID)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 surviving row, got %d", count)
		}
		if txID != 100 {
			t.Errorf("Expected transaction 100 to survive, got %d", txID)
		}
	})

	t.Run("DedupPostcondition", func(t *testing.T) {
		var groups int
		err := pool.QueryRow(ctx, `
            SELECT COUNT(*) FROM (
                SELECT 1 FROM sales
                GROUP BY product_id, customer_id, transaction_date
                HAVING COUNT(*) > 1
            ) dups
        `).Scan(&groups)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if groups != 0 {
			t.Errorf("Expected no duplicate groups after cleaning, got %d", groups)
		}
	})

	t.Run("CleaningIdempotent", func(t *testing.T) {
		again, err := cleaning.Run(ctx, pool)
		if err != nil {
			t.Fatalf("Second cleaning run failed: %v", err)
		}
		if again.LocationsNormalized != 0 {
			t.Errorf("Second run normalized %d locations, expected 0", again.LocationsNormalized)
		}
		if again.DuplicatesRemoved != 0 {
			t.Errorf("Second run removed %d duplicates, expected 0", again.DuplicatesRemoved)
		}
	})

	t.Run("PriceExtremes", func(t *testing.T) {
		rows := runReport(t, pool, "product_price_extremes")
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(rows))
		}
		if rows[0][0] != "Highest" || rows[0][1] != "1" || rows[0][4] != "100.00" {
			t.Errorf("Unexpected highest row: %v", rows[0])
		}
		if rows[1][0] != "Lowest" || rows[1][1] != "10" || rows[1][4] != "5.00" {
			t.Errorf("Unexpected lowest row: %v", rows[1])
		}
	})

	t.Run("QuantityExtremes", func(t *testing.T) {
		rows := runReport(t, pool, "sale_quantity_extremes")
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(rows))
		}
		if rows[0][0] != "Highest" || rows[0][1] != "1" || rows[0][4] != "500" {
			t.Errorf("Unexpected highest row: %v", rows[0])
		}
		// Transactions 102 and 103 tie on quantity 1; the lower ID wins.
		if rows[1][0] != "Lowest" || rows[1][1] != "102" || rows[1][4] != "1" {
			t.Errorf("Unexpected lowest row: %v", rows[1])
		}
	})

	t.Run("CategoryBestSellers", func(t *testing.T) {
		rows := runReport(t, pool, "category_best_sellers")
		if len(rows) != 2 {
			t.Fatalf("Expected 2 categories with sales, got %d rows", len(rows))
		}
		if rows[0][0] != "Electronics" || rows[0][1] != "1" || rows[0][3] != "500" {
			t.Errorf("Unexpected Electronics row: %v", rows[0])
		}
		if rows[1][0] != "Toys" || rows[1][1] != "10" || rows[1][3] != "2" {
			t.Errorf("Unexpected Toys row: %v", rows[1])
		}
	})

	t.Run("AgeBandSpending", func(t *testing.T) {
		rows := runReport(t, pool, "age_band_spending")
		if len(rows) != 4 {
			t.Fatalf("Expected 4 bands, got %d rows", len(rows))
		}
		// Descending by spending: YA 60000, Teen 50000, Adult 30000,
		// Senior 10020.
		want := [][]string{
			{"Young Adult", "600", "60000.00"},
			{"Teen", "500", "50000.00"},
			{"Adult", "300", "30000.00"},
			{"Senior", "104", "10020.00"},
		}
		for i, w := range want {
			for j := range w {
				if rows[i][j] != w[j] {
					t.Errorf("Row %d: got %v, want %v", i, rows[i], w)
					break
				}
			}
		}
	})

	t.Run("RepeatPurchases", func(t *testing.T) {
		rows := runReport(t, pool, "repeat_purchases")
		if len(rows) != 1 {
			t.Fatalf("Expected 1 repeat pair, got %d rows", len(rows))
		}
		// Customer 4 bought product 10 on two distinct dates. Customer 6's
		// pair was a same-day duplicate and must not survive dedup.
		if rows[0][0] != "4" || rows[0][2] != "10" || rows[0][5] != "2" {
			t.Errorf("Unexpected repeat row: %v", rows[0])
		}
	})

	t.Run("TopThreePerSegment", func(t *testing.T) {
		rows := runReport(t, pool, "customer_segments")

		var high [][]string
		for _, row := range rows {
			if row[0] == "High Spender" {
				high = append(high, row)
			}
		}
		if len(high) != 3 {
			t.Fatalf("Expected exactly 3 High Spender rows, got %d", len(high))
		}
		wantCustomers := []string{"1", "2", "3"}
		wantSpends := []string{"50000.00", "40000.00", "30000.00"}
		for i, row := range high {
			if row[1] != strconv.Itoa(i+1) {
				t.Errorf("High row %d: rank %s, want %d", i, row[1], i+1)
			}
			if row[2] != wantCustomers[i] {
				t.Errorf("High row %d: customer %s, want %s", i, row[2], wantCustomers[i])
			}
			if row[4] != wantSpends[i] {
				t.Errorf("High row %d: spend %s, want %s", i, row[4], wantSpends[i])
			}
		}
	})

	t.Run("LocationSalesIncludesSentinel", func(t *testing.T) {
		rows := runReport(t, pool, "location_sales")
		if len(rows) != 3 {
			t.Fatalf("Expected 3 locations, got %d rows", len(rows))
		}
		// Descending by total: BLANK 70010, Springfield 60000,
		// Shelbyville 20010.
		if rows[0][0] != "BLANK" || rows[0][1] != "70010.00" {
			t.Errorf("Unexpected top location row: %v", rows[0])
		}
		for _, row := range rows {
			if row[0] == "" {
				t.Errorf("Empty location leaked into aggregation: %v", rows)
			}
		}
	})

	t.Run("LocationProductExtremes", func(t *testing.T) {
		rows := runReport(t, pool, "location_product_extremes")
		// Three locations, one Highest and one Lowest row each; the two
		// sets are concatenated, so single-product locations appear twice.
		if len(rows) != 6 {
			t.Fatalf("Expected 6 rows, got %d", len(rows))
		}
		if rows[0][0] != "Highest" || rows[0][1] != "BLANK" || rows[0][2] != "1" ||
			rows[0][3] != "70000.00" || rows[0][4] != "2,3" {
			t.Errorf("Unexpected BLANK highest row: %v", rows[0])
		}
		if rows[3][0] != "Lowest" || rows[3][1] != "BLANK" || rows[3][2] != "10" ||
			rows[3][4] != "6" {
			t.Errorf("Unexpected BLANK lowest row: %v", rows[3])
		}
	})
}

// TestGeneratedDataPipeline seeds a synthetic dataset and smoke-tests the
// whole pipeline over it.
func TestGeneratedDataPipeline(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	testConnStr := testutil.CreateTestDB(t, baseConnStr, "generated")
	dbName := testutil.GetDBNameFromConnStr(testConnStr)

	cleanup := testutil.NewTestCleanup(t, baseConnStr, dbName)
	t.Cleanup(cleanup.Cleanup)

	pool := testutil.ConnectTestDB(t, testConnStr)
	cleanup.SetPool(pool)

	ctx := context.Background()
	if err := retail.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	gen := retail.NewGeneratorWithSeed(42)
	counts := retail.Counts{Customers: 200, Products: 40, Sales: 2000}
	if err := gen.GenerateData(ctx, pool, counts); err != nil {
		t.Fatalf("GenerateData failed: %v", err)
	}

	res, err := cleaning.Run(ctx, pool)
	if err != nil {
		t.Fatalf("Cleaning stage failed: %v", err)
	}
	if res.LocationsNormalized == 0 {
		t.Error("Generator should have produced dirty locations")
	}
	if res.DuplicatesRemoved == 0 {
		t.Error("Generator should have produced duplicate sales")
	}

	for _, r := range reports.All() {
		t.Run(r.Name, func(t *testing.T) {
			rows, err := r.Run(ctx, pool)
			if err != nil {
				t.Fatalf("Report failed: %v", err)
			}
			for _, row := range rows {
				if len(row) != len(r.Columns) {
					t.Fatalf("Row width %d does not match %d columns", len(row), len(r.Columns))
				}
			}
		})
	}
}
