package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agrisphere/agrisphere-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestInitMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE products",
		"CHECK (quantity >= 0)",
		"CREATE UNIQUE INDEX idx_cart_user_product ON cart_items (user_id, product_id)",
		"CREATE UNIQUE INDEX idx_consultants_user ON consultants (user_id)",
		"CHECK (rating BETWEEN 1 AND 5)",
		"DROP TABLE IF EXISTS users",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
