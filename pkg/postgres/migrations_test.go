package postgres

import (
	"strings"
	"testing"
)

func TestGetServiceMigrations_User(t *testing.T) {
	migrations := getServiceMigrations("user")
	if len(migrations) != 1 {
		t.Fatalf("expected 1 migration for user, got %d", len(migrations))
	}
	if !strings.Contains(migrations[0], "CREATE TABLE IF NOT EXISTS users") {
		t.Errorf("expected users table migration, got %q", migrations[0])
	}
}

func TestGetServiceMigrations_Order(t *testing.T) {
	migrations := getServiceMigrations("order")
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations for order, got %d", len(migrations))
	}
	if !strings.Contains(migrations[0], "CREATE TABLE IF NOT EXISTS orders") {
		t.Errorf("expected orders table migration, got %q", migrations[0])
	}
	for _, col := range []string{"user_name", "user_email", "status"} {
		if !strings.Contains(migrations[0], col) {
			t.Errorf("expected orders table to carry column %s", col)
		}
	}
}

func TestGetServiceMigrations_Unknown(t *testing.T) {
	migrations := getServiceMigrations("unknown")
	if len(migrations) != 0 {
		t.Fatalf("expected no migrations for unknown service, got %d", len(migrations))
	}
}
