//-------------------------------------------------------------------------
//
// retail-reports
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports

import (
	"context"

	"github.com/retailytics/retail-reports/internal/db"
)

// Location reports skip customers whose location is NULL or empty. The
// cleaning stage rewrites those to the 'BLANK' sentinel, which is non-empty
// and therefore aggregated like any other location.

const locationSalesSQL = `
SELECT c.location, SUM(s.quantity_purchased * s.price) AS total_sales
FROM sales s
JOIN customers c ON c.customer_id = s.customer_id
WHERE c.location IS NOT NULL AND c.location <> ''
GROUP BY c.location
ORDER BY total_sales DESC, c.location
`

func runLocationSales(ctx context.Context, q db.DB) ([][]string, error) {
	rows, err := q.Query(ctx, locationSalesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var location string
		var total float64
		if err := rows.Scan(&location, &total); err != nil {
			return nil, err
		}
		out = append(out, []string{location, formatMoney(total)})
	}
	return out, rows.Err()
}

// Per (location, product) sales value is ranked both ways within each
// location; the rank-1 rows of each direction are emitted as tagged
// Highest/Lowest rows. The two sets are concatenated, not deduplicated: a
// location with a single product appears twice.
const locationProductExtremesSQL = `
WITH location_product_sales AS (
    SELECT c.location, s.product_id,
           SUM(s.quantity_purchased * s.price) AS total_sales,
           STRING_AGG(DISTINCT s.customer_id::text, ',' ORDER BY s.customer_id::text) AS customer_ids
    FROM sales s
    JOIN customers c ON c.customer_id = s.customer_id
    WHERE c.location IS NOT NULL AND c.location <> ''
    GROUP BY c.location, s.product_id
), ranked AS (
    SELECT *,
           ROW_NUMBER() OVER (PARTITION BY location
                              ORDER BY total_sales DESC, product_id) AS rank_desc,
           ROW_NUMBER() OVER (PARTITION BY location
                              ORDER BY total_sales ASC, product_id) AS rank_asc
    FROM location_product_sales
)
SELECT 'Highest' AS sale_type, location, product_id, total_sales, customer_ids
FROM ranked
WHERE rank_desc = 1
UNION ALL
SELECT 'Lowest', location, product_id, total_sales, customer_ids
FROM ranked
WHERE rank_asc = 1
ORDER BY sale_type, location
`

func runLocationProductExtremes(ctx context.Context, q db.DB) ([][]string, error) {
	rows, err := q.Query(ctx, locationProductExtremesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var saleType, location, customerIDs string
		var productID int64
		var total float64
		if err := rows.Scan(&saleType, &location, &productID, &total, &customerIDs); err != nil {
			return nil, err
		}
		out = append(out, []string{
			saleType, location, formatInt(productID), formatMoney(total), customerIDs,
		})
	}
	return out, rows.Err()
}

func init() {
	Register(Report{
		Name:        "location_sales",
		Description: "Total sales value per customer location",
		Columns:     []string{"location", "total_sales"},
		Run:         runLocationSales,
	})
	Register(Report{
		Name:        "location_product_extremes",
		Description: "Best and worst selling product per location with buyer IDs",
		Columns:     []string{"sale_type", "location", "product_id", "total_sales", "customer_ids"},
		Run:         runLocationProductExtremes,
	})
}
