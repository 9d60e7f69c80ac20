package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/oficinapro/workshop/internal/models"
)

// StatsService computes the dashboard aggregates. Full scan on every
// request; fine at single-shop scale.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService { return &StatsService{DB: db} }

type DashboardStats struct {
	TotalInventoryValue float64 `json:"total_inventory_value"`
	LowStockCount       int64   `json:"low_stock_count"`
	OpenOrderCount      int64   `json:"open_order_count"`
}

// Dashboard returns total inventory value at cost, the count of items
// at or below their minimum threshold, and the count of open orders.
func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	var items []models.InventoryItem
	if err := s.DB.WithContext(ctx).Find(&items).Error; err != nil {
		return stats, err
	}
	for _, it := range items {
		stats.TotalInventoryValue += it.CostPrice * float64(it.Quantity)
		if it.LowStock() {
			stats.LowStockCount++
		}
	}
	if err := s.DB.WithContext(ctx).
		Model(&models.ServiceOrder{}).
		Where("status = ?", models.StatusOpen).
		Count(&stats.OpenOrderCount).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
