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

// Product insight reports: price extremes, transaction-level quantity
// extremes and the best-selling product per category.

const priceExtremesSQL = `
(SELECT 'Highest' AS price_point, product_id,
        COALESCE(product_name, '') AS product_name,
        COALESCE(category, '') AS category, price
 FROM products
 WHERE price IS NOT NULL
 ORDER BY price DESC, product_id
 LIMIT 1)
UNION ALL
(SELECT 'Lowest', product_id,
        COALESCE(product_name, ''),
        COALESCE(category, ''), price
 FROM products
 WHERE price IS NOT NULL
 ORDER BY price ASC, product_id
 LIMIT 1)
ORDER BY price_point
`

func runPriceExtremes(ctx context.Context, q db.DB) ([][]string, error) {
	rows, err := q.Query(ctx, priceExtremesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var pricePoint, name, category string
		var productID int64
		var price float64
		if err := rows.Scan(&pricePoint, &productID, &name, &category, &price); err != nil {
			return nil, err
		}
		out = append(out, []string{
			pricePoint, formatInt(productID), name, category, formatMoney(price),
		})
	}
	return out, rows.Err()
}

const quantityExtremesSQL = `
(SELECT 'Highest' AS quantity_extreme, s.transaction_id, s.product_id,
        COALESCE(p.product_name, '') AS product_name, s.quantity_purchased
 FROM sales s
 JOIN products p ON p.product_id = s.product_id
 ORDER BY s.quantity_purchased DESC, s.transaction_id
 LIMIT 1)
UNION ALL
(SELECT 'Lowest', s.transaction_id, s.product_id,
        COALESCE(p.product_name, ''), s.quantity_purchased
 FROM sales s
 JOIN products p ON p.product_id = s.product_id
 ORDER BY s.quantity_purchased ASC, s.transaction_id
 LIMIT 1)
ORDER BY quantity_extreme
`

func runQuantityExtremes(ctx context.Context, q db.DB) ([][]string, error) {
	rows, err := q.Query(ctx, quantityExtremesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var extreme, name string
		var transactionID, productID, quantity int64
		if err := rows.Scan(&extreme, &transactionID, &productID, &name, &quantity); err != nil {
			return nil, err
		}
		out = append(out, []string{
			extreme, formatInt(transactionID), formatInt(productID), name, formatInt(quantity),
		})
	}
	return out, rows.Err()
}

// Ranks single transactions by quantity within each category; rank 1 is the
// largest single purchase of that category.
const categoryBestSellersSQL = `
WITH ranked AS (
    SELECT COALESCE(p.category, '') AS category, p.product_id,
           COALESCE(p.product_name, '') AS product_name,
           s.quantity_purchased,
           ROW_NUMBER() OVER (PARTITION BY p.category
                              ORDER BY s.quantity_purchased DESC, s.transaction_id) AS rn
    FROM sales s
    JOIN products p ON p.product_id = s.product_id
)
SELECT category, product_id, product_name, quantity_purchased
FROM ranked
WHERE rn = 1
ORDER BY category
`

func runCategoryBestSellers(ctx context.Context, q db.DB) ([][]string, error) {
	rows, err := q.Query(ctx, categoryBestSellersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var category, name string
		var productID, quantity int64
		if err := rows.Scan(&category, &productID, &name, &quantity); err != nil {
			return nil, err
		}
		out = append(out, []string{
			category, formatInt(productID), name, formatInt(quantity),
		})
	}
	return out, rows.Err()
}

func init() {
	Register(Report{
		Name:        "product_price_extremes",
		Description: "Most and least expensive product",
		Columns:     []string{"price_point", "product_id", "product_name", "category", "price"},
		Run:         runPriceExtremes,
	})
	Register(Report{
		Name:        "sale_quantity_extremes",
		Description: "Largest and smallest single-transaction quantity",
		Columns:     []string{"quantity_extreme", "transaction_id", "product_id", "product_name", "quantity_purchased"},
		Run:         runQuantityExtremes,
	})
	Register(Report{
		Name:        "category_best_sellers",
		Description: "Best-selling product per category by single-transaction quantity",
		Columns:     []string{"category", "product_id", "product_name", "quantity_purchased"},
		Run:         runCategoryBestSellers,
	})
}
