package reports

import (
	"context"

	"github.com/retailytics/retail-reports/internal/db"
)

// Buckets every customer into one of the four age bands and aggregates
// purchased quantity and spending per band. The CASE arms must stay in sync
// with AgeBand.
const ageBandSpendingSQL = `
SELECT CASE
           WHEN c.age <= 18 THEN 'Teen'
           WHEN c.age <= 35 THEN 'Young Adult'
           WHEN c.age <= 55 THEN 'Adult'
           ELSE 'Senior'
       END AS age_band,
       SUM(s.quantity_purchased) AS total_quantity,
       SUM(s.quantity_purchased * s.price) AS total_spending
FROM customers c
JOIN sales s ON s.customer_id = c.customer_id
GROUP BY 1
ORDER BY total_spending DESC
`

func runAgeBandSpending(ctx context.Context, q db.DB) ([][]string, error) {
	rows, err := q.Query(ctx, ageBandSpendingSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var band string
		var quantity int64
		var spending float64
		if err := rows.Scan(&band, &quantity, &spending); err != nil {
			return nil, err
		}
		out = append(out, []string{
			band, formatInt(quantity), formatMoney(spending),
		})
	}
	return out, rows.Err()
}

func init() {
	Register(Report{
		Name:        "age_band_spending",
		Description: "Quantity and spending totals per customer age band",
		Columns:     []string{"age_band", "total_quantity", "total_spending"},
		Run:         runAgeBandSpending,
	})
}
