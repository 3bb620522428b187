package reports

import (
	"context"

	"github.com/retailytics/retail-reports/internal/db"
)

// A repeat purchase is a (customer, product) pair with at least two
// transactions. Post-dedup these are genuinely distinct purchases.
const repeatPurchasesSQL = `
SELECT s.customer_id, c.age, s.product_id,
       COALESCE(p.product_name, '') AS product_name,
       COALESCE(p.category, '') AS category,
       COUNT(*) AS purchase_count
FROM sales s
JOIN customers c ON c.customer_id = s.customer_id
JOIN products p ON p.product_id = s.product_id
GROUP BY s.customer_id, c.age, s.product_id, p.product_name, p.category
HAVING COUNT(*) > 1
ORDER BY purchase_count DESC, s.customer_id, s.product_id
`

func runRepeatPurchases(ctx context.Context, q db.DB) ([][]string, error) {
	rows, err := q.Query(ctx, repeatPurchasesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var name, category string
		var customerID, age, productID, count int64
		if err := rows.Scan(&customerID, &age, &productID, &name, &category, &count); err != nil {
			return nil, err
		}
		out = append(out, []string{
			formatInt(customerID), formatInt(age), formatInt(productID),
			name, category, formatInt(count),
		})
	}
	return out, rows.Err()
}

func init() {
	Register(Report{
		Name:        "repeat_purchases",
		Description: "Customer-product pairs bought in two or more transactions",
		Columns:     []string{"customer_id", "age", "product_id", "product_name", "category", "purchase_count"},
		Run:         runRepeatPurchases,
	})
}
