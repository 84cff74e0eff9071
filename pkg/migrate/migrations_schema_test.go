package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/webshopkit/webshop-backend/pkg/migrate"
)

func TestInitSchemaMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE customers",
		"version BIGINT NOT NULL DEFAULT 0",
		"CREATE UNIQUE INDEX uq_customers_email_ci ON customers (LOWER(email))",
		"CREATE UNIQUE INDEX uq_cart_items_customer_article ON cart_items (customer_id, article_id)",
		"customer_id UUID NOT NULL UNIQUE REFERENCES customers(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX uq_contract_no_index ON maintenance_contracts (contract_no, idx)",
		"DROP TABLE IF EXISTS customers",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCustomerFilesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_customer_files.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no customer files migration found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE customer_files",
		"customer_id UUID NOT NULL REFERENCES customers(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX uq_customer_files_customer ON customer_files (customer_id)",
		"DROP TABLE IF EXISTS customer_files",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration validation failed: %v", err)
	}
}
