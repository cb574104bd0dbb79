// setupdb creates the warehouse schema and seeds demo data when the tables
// are empty. Safe to run repeatedly.
//
// Usage: go run ./cmd/setupdb
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartwms/wms-api/internal/infrastructure/postgres"
	"github.com/smartwms/wms-api/pkg/config"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id   SERIAL PRIMARY KEY,
		product_name VARCHAR(100) NOT NULL,
		sku          VARCHAR(50) UNIQUE NOT NULL,
		description  TEXT,
		unit_price   NUMERIC(12, 2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		location_id   SERIAL PRIMARY KEY,
		location_code VARCHAR(20) UNIQUE NOT NULL,
		zone          VARCHAR(10) NOT NULL,
		aisle         VARCHAR(10) NOT NULL,
		shelf         VARCHAR(10) NOT NULL,
		capacity      NUMERIC(14, 2) NOT NULL DEFAULT 0,
		current_load  NUMERIC(14, 2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS stock (
		stock_id     SERIAL PRIMARY KEY,
		product_id   INT NOT NULL REFERENCES products(product_id),
		location_id  INT NOT NULL REFERENCES locations(location_id),
		quantity     INT NOT NULL CHECK (quantity >= 0),
		batch_number VARCHAR(50),
		last_updated TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (product_id, location_id, batch_number)
	)`,
	`CREATE TABLE IF NOT EXISTS inbound (
		inbound_id   SERIAL PRIMARY KEY,
		product_id   INT NOT NULL REFERENCES products(product_id),
		quantity     INT NOT NULL CHECK (quantity > 0),
		inbound_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		supplier     VARCHAR(100),
		received_by  VARCHAR(50)
	)`,
	`CREATE TABLE IF NOT EXISTS outbound (
		outbound_id   SERIAL PRIMARY KEY,
		product_id    INT NOT NULL REFERENCES products(product_id),
		quantity      INT NOT NULL CHECK (quantity > 0),
		outbound_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		customer      VARCHAR(100),
		shipped_by    VARCHAR(50)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id       SERIAL PRIMARY KEY,
		username      VARCHAR(50) UNIQUE NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role          VARCHAR(30) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_product ON stock (product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_inbound_date ON inbound (inbound_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_outbound_date ON outbound (outbound_date DESC)`,
}

type seedProduct struct {
	name, sku, description, price string
}

type seedLocation struct {
	code, zone, aisle, shelf string
	capacity                 string
}

type seedUser struct {
	username, password, role string
}

var products = []seedProduct{
	{"노트북 컴퓨터", "NB-PRO-001", "15인치 업무용 노트북", "1500000.00"},
	{"무선 마우스", "MS-WL-002", "2.4GHz 무선 마우스", "25000.00"},
	{"USB-C 허브", "HUB-UC-003", "7포트 USB-C 멀티허브", "35000.00"},
	{"HDMI 케이블", "CB-HD-004", "2m HDMI 2.1 케이블", "12000.00"},
}

var locations = []seedLocation{
	{"A-01-01", "A", "01", "01", "10000000.00"},
	{"A-01-02", "A", "01", "02", "10000000.00"},
	{"B-02-01", "B", "02", "01", "10000000.00"},
	{"C-03-05", "C", "03", "05", "10000000.00"},
}

var users = []seedUser{
	{"wmsadmin", "admin123", "admin"},
	{"inbound_user", "inbound123", "inbound_manager"},
	{"outbound_user", "outbound123", "outbound_manager"},
	{"inventory_user", "inventory123", "inventory_manager"},
	{"all_manager", "manager123", "all_manager"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "PostgreSQL connection: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			fmt.Fprintf(os.Stderr, "schema: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Println("schema ready")

	if err := seed(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("done")
}

func seed(ctx context.Context, pool postgres.Querier) error {
	var n int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		fmt.Println("products already seeded, skipping")
	} else {
		for _, p := range products {
			_, err := pool.Exec(ctx,
				`INSERT INTO products (product_name, sku, description, unit_price) VALUES ($1, $2, $3, $4)`,
				p.name, p.sku, p.description, p.price)
			if err != nil {
				return err
			}
		}
		fmt.Printf("seeded %d products\n", len(products))
	}

	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		fmt.Println("locations already seeded, skipping")
	} else {
		for _, l := range locations {
			_, err := pool.Exec(ctx,
				`INSERT INTO locations (location_code, zone, aisle, shelf, capacity) VALUES ($1, $2, $3, $4, $5)`,
				l.code, l.zone, l.aisle, l.shelf, l.capacity)
			if err != nil {
				return err
			}
		}
		fmt.Printf("seeded %d locations\n", len(locations))
	}

	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		fmt.Println("users already seeded, skipping")
		return nil
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)`,
			u.username, string(hash), u.role)
		if err != nil {
			return err
		}
	}
	fmt.Printf("seeded %d users\n", len(users))
	return nil
}
