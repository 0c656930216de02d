package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. It expects a MySQL
// instance reachable through BIOSEN_TEST_DSN (default
// root:@tcp(localhost:3306)/biosen_test) and skips the test otherwise.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("BIOSEN_TEST_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/biosen_test?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table, children before parents.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"invoices", "order_lines", "orders", "number_sequences",
		"bundle_products", "bundles", "intake_orders", "expenses",
		"products", "categories", "employees", "drivers", "clients",
		"api_tokens", "password_resets", "users", "shops",
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the repositories expect.
func SetupTestTables(t *testing.T, db *sql.DB) {
	statements := []struct {
		name  string
		query string
	}{
		{"shops", `
		CREATE TABLE IF NOT EXISTS shops (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			address VARCHAR(255),
			phone VARCHAR(30),
			logo VARCHAR(255),
			active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`},
		{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL,
			shop_id BIGINT,
			photo VARCHAR(255),
			active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_users_shop (shop_id)
		)`},
		{"api_tokens", `
		CREATE TABLE IF NOT EXISTS api_tokens (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			token_hash VARCHAR(64) NOT NULL UNIQUE,
			name VARCHAR(100),
			last_used_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_tokens_user (user_id)
		)`},
		{"password_resets", `
		CREATE TABLE IF NOT EXISTS password_resets (
			email VARCHAR(255) NOT NULL PRIMARY KEY,
			token_hash VARCHAR(64) NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
		{"categories", `
		CREATE TABLE IF NOT EXISTS categories (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			shop_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_categories_shop (shop_id)
		)`},
		{"products", `
		CREATE TABLE IF NOT EXISTS products (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			shop_id BIGINT NOT NULL,
			category_id BIGINT,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			price DECIMAL(12,2) NOT NULL DEFAULT 0.00,
			stock INT NOT NULL DEFAULT 0,
			low_stock_threshold INT NOT NULL DEFAULT 0,
			image VARCHAR(255),
			active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_products_shop (shop_id),
			INDEX idx_products_category (category_id)
		)`},
		{"employees", `
		CREATE TABLE IF NOT EXISTS employees (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			shop_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(30),
			role_title VARCHAR(100),
			photo VARCHAR(255),
			active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_employees_shop (shop_id)
		)`},
		{"drivers", `
		CREATE TABLE IF NOT EXISTS drivers (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			shop_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(30),
			available TINYINT(1) NOT NULL DEFAULT 1,
			active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_drivers_shop (shop_id)
		)`},
		{"clients", `
		CREATE TABLE IF NOT EXISTS clients (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			shop_id BIGINT NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			phone VARCHAR(30) NOT NULL,
			address VARCHAR(255),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_clients_shop (shop_id)
		)`},
		{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			number VARCHAR(30) NOT NULL UNIQUE,
			shop_id BIGINT NOT NULL,
			client_id BIGINT,
			employee_id BIGINT NOT NULL,
			driver_id BIGINT,
			type VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'open',
			total DECIMAL(12,2) NOT NULL DEFAULT 0.00,
			order_date DATE NOT NULL,
			validated_at DATETIME,
			cancelled_at DATETIME,
			cancel_reason VARCHAR(255),
			cancelled_by BIGINT,
			notes TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_orders_shop (shop_id),
			INDEX idx_orders_status (status),
			INDEX idx_orders_date (order_date)
		)`},
		{"order_lines", `
		CREATE TABLE IF NOT EXISTS order_lines (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			unit_price DECIMAL(12,2) NOT NULL,
			subtotal DECIMAL(12,2) NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			INDEX idx_lines_order (order_id),
			INDEX idx_lines_product (product_id)
		)`},
		{"number_sequences", `
		CREATE TABLE IF NOT EXISTS number_sequences (
			scope VARCHAR(20) NOT NULL,
			year INT NOT NULL,
			value BIGINT NOT NULL,
			PRIMARY KEY (scope, year)
		)`},
		{"invoices", `
		CREATE TABLE IF NOT EXISTS invoices (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL UNIQUE,
			number VARCHAR(30) NOT NULL UNIQUE,
			issued_at DATETIME NOT NULL,
			total DECIMAL(12,2) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`},
		{"expenses", `
		CREATE TABLE IF NOT EXISTS expenses (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			shop_id BIGINT NOT NULL,
			description VARCHAR(255) NOT NULL,
			amount DECIMAL(12,2) NOT NULL,
			category VARCHAR(100),
			spent_on DATE NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_expenses_shop (shop_id),
			INDEX idx_expenses_date (spent_on)
		)`},
		{"bundles", `
		CREATE TABLE IF NOT EXISTS bundles (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			shop_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_bundles_shop (shop_id)
		)`},
		{"bundle_products", `
		CREATE TABLE IF NOT EXISTS bundle_products (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			bundle_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			FOREIGN KEY (bundle_id) REFERENCES bundles(id) ON DELETE CASCADE,
			INDEX idx_bundle_products_bundle (bundle_id)
		)`},
		{"intake_orders", `
		CREATE TABLE IF NOT EXISTS intake_orders (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			phone VARCHAR(30) NOT NULL,
			client_name VARCHAR(255) NOT NULL,
			address VARCHAR(255),
			salesperson VARCHAR(255) NOT NULL,
			products TEXT NOT NULL,
			entered_by BIGINT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_intake_phone (phone)
		)`},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt.query); err != nil {
			t.Logf("failed to create table %s: %v", stmt.name, err)
		}
	}
}
