package db

import (
	"path/filepath"
	"testing"
)

func TestDialectorSelection(t *testing.T) {
	if got := dialectorFor("postgres://u:p@localhost:5432/shop").Name(); got != "postgres" {
		t.Fatalf("expected postgres dialector, got %s", got)
	}
	if got := dialectorFor("oficina.db").Name(); got != "sqlite" {
		t.Fatalf("expected sqlite dialector, got %s", got)
	}
}

func TestConnectAndMigrateIsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "oficina.db")

	conn, err := ConnectAndMigrate(dsn)
	if err != nil {
		t.Fatalf("first connect: %v", err)
	}
	for _, table := range []string{"clients", "inventory_items", "service_orders", "service_order_items"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}

	// schema creation must be safe to run again on an existing file
	if _, err := ConnectAndMigrate(dsn); err != nil {
		t.Fatalf("second connect: %v", err)
	}
}

func TestConnectRejectsEmptyDSN(t *testing.T) {
	if _, err := ConnectAndMigrate(""); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}
