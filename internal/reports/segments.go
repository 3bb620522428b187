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

// Per-customer totals are classified into spend segments, ranked by total
// spend within each segment, and only the top three per segment survive.
// The CASE thresholds must stay in sync with SpendSegment.
const customerSegmentsSQL = `
WITH customer_totals AS (
    SELECT customer_id,
           COUNT(DISTINCT transaction_id) AS transactions,
           SUM(quantity_purchased * price) AS total_spent,
           SUM(quantity_purchased) AS total_quantity
    FROM sales
    GROUP BY customer_id
), segmented AS (
    SELECT *,
           CASE
               WHEN total_spent >= 10000 THEN 'High Spender'
               WHEN total_spent >= 5000 THEN 'Medium Spender'
               WHEN total_spent >= 1000 THEN 'Low Spender'
               ELSE 'Occasional Buyer'
           END AS segment
    FROM customer_totals
), ranked AS (
    SELECT *,
           ROW_NUMBER() OVER (PARTITION BY segment
                              ORDER BY total_spent DESC, customer_id) AS segment_rank
    FROM segmented
)
SELECT segment, segment_rank, customer_id, transactions, total_spent, total_quantity
FROM ranked
WHERE segment_rank <= 3
ORDER BY segment, segment_rank
`

func runCustomerSegments(ctx context.Context, q db.DB) ([][]string, error) {
	rows, err := q.Query(ctx, customerSegmentsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var segment string
		var rank, customerID, transactions, quantity int64
		var spent float64
		if err := rows.Scan(&segment, &rank, &customerID, &transactions, &spent, &quantity); err != nil {
			return nil, err
		}
		out = append(out, []string{
			segment, formatInt(rank), formatInt(customerID),
			formatInt(transactions), formatMoney(spent), formatInt(quantity),
		})
	}
	return out, rows.Err()
}

func init() {
	Register(Report{
		Name:        "customer_segments",
		Description: "Top three customers by total spend within each spend segment",
		Columns:     []string{"segment", "segment_rank", "customer_id", "transactions", "total_spent", "total_quantity"},
		Run:         runCustomerSegments,
	})
}
