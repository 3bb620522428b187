//-------------------------------------------------------------------------
//
// retail-reports
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package retail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailytics/retail-reports/internal/datagen"
	"github.com/retailytics/retail-reports/internal/logging"
)

// Reference data
var genders = []string{"Male", "Female"}
var categories = []string{"Electronics", "Clothing", "Home", "Garden",
	"Sports", "Toys", "Books", "Beauty", "Grocery", "Health"}

// Dirty-data ratios. The generator deliberately produces rows the cleaning
// stage has to fix, so a freshly seeded database exercises the whole
// pipeline.
const (
	missingLocationRatio = 0.08
	missingStockRatio    = 0.03
	duplicateSaleRatio   = 0.05
)

// Counts holds the number of rows to seed per table.
type Counts struct {
	Customers int
	Products  int
	Sales     int
}

// Generator generates synthetic data for the retail schema.
type Generator struct {
	faker *datagen.Faker
	cfg   datagen.BatchInsertConfig
}

// NewGenerator creates a new retail data generator.
func NewGenerator() *Generator {
	return &Generator{
		faker: datagen.NewFaker(),
		cfg:   datagen.DefaultBatchConfig(),
	}
}

// NewGeneratorWithSeed creates a generator with a fixed RNG seed so that
// repeated runs produce the same dataset.
func NewGeneratorWithSeed(seed uint64) *Generator {
	return &Generator{
		faker: datagen.NewFakerWithSeed(seed),
		cfg:   datagen.DefaultBatchConfig(),
	}
}

// GenerateData seeds the three base tables.
func (g *Generator) GenerateData(ctx context.Context, pool *pgxpool.Pool, counts Counts) error {
	logging.Info().
		Int("customers", counts.Customers).
		Int("products", counts.Products).
		Int("sales", counts.Sales).
		Msg("Generating retail data")

	if err := g.generateCustomers(ctx, pool, counts.Customers); err != nil {
		return fmt.Errorf("failed to generate customers: %w", err)
	}
	prices, err := g.generateProducts(ctx, pool, counts.Products)
	if err != nil {
		return fmt.Errorf("failed to generate products: %w", err)
	}
	if err := g.generateSales(ctx, pool, counts.Sales, counts.Customers, prices); err != nil {
		return fmt.Errorf("failed to generate sales: %w", err)
	}
	return nil
}

func (g *Generator) generateCustomers(ctx context.Context, pool *pgxpool.Pool, count int) error {
	logging.Info().Int("count", count).Msg("Generating customers")
	batch := make([]string, 0, g.cfg.BatchSize)
	progress := datagen.NewProgressReporter("customers", int64(count), g.cfg.ProgressInterval)

	// A small pool of cities keeps several customers per location so the
	// location reports have something to aggregate.
	cities := make([]string, 0, 12)
	for len(cities) < 12 {
		city := g.faker.City()
		if !contains(cities, city) {
			cities = append(cities, city)
		}
	}

	now := time.Now()
	earliest := now.AddDate(-5, 0, 0)

	for i := 1; i <= count; i++ {
		location := quoteString(datagen.Choose(g.faker, cities))
		if g.faker.Float64(0, 1) < missingLocationRatio {
			// Half of the dirty rows get NULL, half an empty string; the
			// normalization step must handle both.
			if g.faker.Bool() {
				location = "NULL"
			} else {
				location = "''"
			}
		}

		batch = append(batch, fmt.Sprintf("(%d, %d, %s, %s, '%s')",
			i,
			g.faker.Int(14, 80),
			quoteString(datagen.Choose(g.faker, genders)),
			location,
			g.faker.DateRange(earliest, now).Format("2006-01-02"),
		))

		if len(batch) >= g.cfg.BatchSize {
			if err := g.executeBatchInsert(ctx, pool, "customers",
				"(customer_id, age, gender, location, join_date)", batch); err != nil {
				return err
			}
			progress.Update(int64(len(batch)))
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := g.executeBatchInsert(ctx, pool, "customers",
			"(customer_id, age, gender, location, join_date)", batch); err != nil {
			return err
		}
		progress.Update(int64(len(batch)))
	}
	progress.Done()
	return nil
}

// generateProducts seeds the products table and returns the generated
// prices indexed by product_id-1, for use when generating sales.
func (g *Generator) generateProducts(ctx context.Context, pool *pgxpool.Pool, count int) ([]float64, error) {
	logging.Info().Int("count", count).Msg("Generating products")
	batch := make([]string, 0, g.cfg.BatchSize)
	progress := datagen.NewProgressReporter("products", int64(count), g.cfg.ProgressInterval)

	prices := make([]float64, count)

	for i := 1; i <= count; i++ {
		price := g.faker.Price(1, 500)
		prices[i-1] = price

		stock := fmt.Sprintf("%d", g.faker.Int(0, 500))
		if g.faker.Float64(0, 1) < missingStockRatio {
			stock = "NULL"
		}

		name := g.faker.ProductName()
		if len(name) > 100 {
			name = name[:100]
		}

		batch = append(batch, fmt.Sprintf("(%d, %s, %s, %s, %.2f)",
			i,
			quoteString(name),
			quoteString(datagen.Choose(g.faker, categories)),
			stock,
			price,
		))

		if len(batch) >= g.cfg.BatchSize {
			if err := g.executeBatchInsert(ctx, pool, "products",
				"(product_id, product_name, category, stock_level, price)", batch); err != nil {
				return nil, err
			}
			progress.Update(int64(len(batch)))
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := g.executeBatchInsert(ctx, pool, "products",
			"(product_id, product_name, category, stock_level, price)", batch); err != nil {
			return nil, err
		}
		progress.Update(int64(len(batch)))
	}
	progress.Done()
	return prices, nil
}

func (g *Generator) generateSales(ctx context.Context, pool *pgxpool.Pool, count, numCustomers int, prices []float64) error {
	logging.Info().Int("count", count).Msg("Generating sales")
	batch := make([]string, 0, g.cfg.BatchSize)
	progress := datagen.NewProgressReporter("sales", int64(count), g.cfg.ProgressInterval)

	now := time.Now()
	earliest := now.AddDate(-1, 0, 0)

	type saleKey struct {
		customerID int
		productID  int
		date       string
	}
	var prev saleKey

	for i := 1; i <= count; i++ {
		key := saleKey{
			customerID: g.faker.Int(1, numCustomers),
			productID:  g.faker.Int(1, len(prices)),
			date:       g.faker.DateRange(earliest, now).Format("2006-01-02"),
		}

		// Re-emit the previous (customer, product, date) triple under a
		// higher transaction_id so the dedup step has duplicates to remove.
		if i > 1 && g.faker.Float64(0, 1) < duplicateSaleRatio {
			key = prev
		}
		prev = key

		batch = append(batch, fmt.Sprintf("(%d, %d, %d, %d, '%s', %.2f)",
			i,
			key.customerID,
			key.productID,
			g.faker.Int(1, 10),
			key.date,
			prices[key.productID-1],
		))

		if len(batch) >= g.cfg.BatchSize {
			if err := g.executeBatchInsert(ctx, pool, "sales",
				"(transaction_id, customer_id, product_id, quantity_purchased, transaction_date, price)", batch); err != nil {
				return err
			}
			progress.Update(int64(len(batch)))
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := g.executeBatchInsert(ctx, pool, "sales",
			"(transaction_id, customer_id, product_id, quantity_purchased, transaction_date, price)", batch); err != nil {
			return err
		}
		progress.Update(int64(len(batch)))
	}
	progress.Done()
	return nil
}

func (g *Generator) executeBatchInsert(ctx context.Context, pool *pgxpool.Pool, table, columns string, batch []string) error {
	sql := fmt.Sprintf("INSERT INTO %s %s VALUES %s",
		table, columns, strings.Join(batch, ","))
	_, err := pool.Exec(ctx, sql)
	return err
}

// quoteString escapes and single-quotes a string literal for batch inserts.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
