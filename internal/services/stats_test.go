package services

import (
	"context"
	"math"
	"testing"

	"github.com/oficinapro/workshop/internal/models"
)

func TestDashboardAggregates(t *testing.T) {
	db := setupLedgerTestDB(t)
	client, _, _ := seedLedgerFixtures(t, db) // fixture item: cost 20 x qty 10, min 2

	// quantity == min_quantity counts as low stock (inclusive boundary)
	boundary := models.InventoryItem{Name: "Vela de ignição", Category: "Motor", CostPrice: 12, SellPrice: 28, Quantity: 5, MinQuantity: 5}
	if err := db.Create(&boundary).Error; err != nil {
		t.Fatalf("item: %v", err)
	}
	below := models.InventoryItem{Name: "Correia", Category: "Motor", CostPrice: 40, SellPrice: 90, Quantity: 1, MinQuantity: 3}
	if err := db.Create(&below).Error; err != nil {
		t.Fatalf("item: %v", err)
	}
	closed := models.ServiceOrder{ClientID: client.ID, Status: models.StatusClosed}
	if err := db.Create(&closed).Error; err != nil {
		t.Fatalf("order: %v", err)
	}

	stats, err := NewStatsService(db).Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	want := 20.0*10 + 12.0*5 + 40.0*1
	if math.Abs(stats.TotalInventoryValue-want) > 1e-9 {
		t.Fatalf("expected inventory value %v, got %v", want, stats.TotalInventoryValue)
	}
	if stats.LowStockCount != 2 {
		t.Fatalf("expected 2 low-stock items, got %d", stats.LowStockCount)
	}
	if stats.OpenOrderCount != 1 {
		t.Fatalf("expected 1 open order, got %d", stats.OpenOrderCount)
	}
}

func TestLowStockBoundaryInclusive(t *testing.T) {
	it := models.InventoryItem{Quantity: 5, MinQuantity: 5}
	if !it.LowStock() {
		t.Fatalf("quantity == min_quantity must flag low stock")
	}
	it.Quantity = 6
	if it.LowStock() {
		t.Fatalf("quantity above threshold must not flag low stock")
	}
}
