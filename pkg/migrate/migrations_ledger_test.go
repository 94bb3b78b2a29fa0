package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/stockledger-backend/pkg/migrate"
)

func TestLedgerMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_ledger_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no ledger migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS brand",
		"CREATE TABLE IF NOT EXISTS product",
		"CREATE TABLE IF NOT EXISTS stock ",
		"CREATE TABLE IF NOT EXISTS stock_item",
		"CREATE TABLE IF NOT EXISTS sale ",
		"CREATE TABLE IF NOT EXISTS sale_item",
		"CONSTRAINT brand_name_key UNIQUE (name)",
		"CONSTRAINT product_name_key UNIQUE (name)",
		"CONSTRAINT stock_reference_no_key UNIQUE (reference_no)",
		"CONSTRAINT sale_invoice_number_key UNIQUE (invoice_number)",
		"stock_id uuid NOT NULL REFERENCES stock(id) ON DELETE CASCADE",
		"sale_id uuid NOT NULL REFERENCES sale(id) ON DELETE CASCADE",
		"stock_type varchar(20) NOT NULL DEFAULT 'in_stock'",
		"total_amount numeric(10,2) NOT NULL DEFAULT 0.00",
		"DROP TABLE IF EXISTS sale_item",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsRepositoryMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}
