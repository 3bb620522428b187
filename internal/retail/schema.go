//-------------------------------------------------------------------------
//
// retail-reports
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package retail defines the retail dataset: schema and synthetic data
// generation for the customers, products and sales relations.
package retail

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema SQL for the three base relations the reporting pipeline reads.
const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS customers (
    customer_id INTEGER PRIMARY KEY,
    age         INTEGER NOT NULL,
    gender      VARCHAR(10),
    location    VARCHAR(60),
    join_date   DATE NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    product_id   INTEGER PRIMARY KEY,
    product_name VARCHAR(100),
    category     VARCHAR(50),
    stock_level  INTEGER,
    price        NUMERIC(10,2)
);

CREATE TABLE IF NOT EXISTS sales (
    transaction_id     INTEGER PRIMARY KEY,
    customer_id        INTEGER NOT NULL REFERENCES customers(customer_id),
    product_id         INTEGER NOT NULL REFERENCES products(product_id),
    quantity_purchased INTEGER NOT NULL,
    transaction_date   DATE NOT NULL,
    price              NUMERIC(10,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sales_customer ON sales(customer_id);
CREATE INDEX IF NOT EXISTS idx_sales_product ON sales(product_id);
CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(transaction_date);
CREATE INDEX IF NOT EXISTS idx_customers_location ON customers(location);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS sales CASCADE;
DROP TABLE IF EXISTS products CASCADE;
DROP TABLE IF EXISTS customers CASCADE;
`

// CreateSchema creates the retail database schema.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the retail database schema.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}
