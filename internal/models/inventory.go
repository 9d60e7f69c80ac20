package models

import "time"

// InventoryItem is a part or product held in stock. Quantity is
// mutated only by the ledger service so it stays consistent with the
// order lines that consumed it.
type InventoryItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Category    string    `gorm:"not null;index" json:"category"`
	CostPrice   float64   `gorm:"not null" json:"cost_price"`
	SellPrice   float64   `gorm:"not null" json:"sell_price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	MinQuantity int       `gorm:"not null;default:5" json:"min_quantity"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LowStock reports whether the item has fallen to or below its minimum
// threshold. Derived on read, never stored.
func (i InventoryItem) LowStock() bool { return i.Quantity <= i.MinQuantity }
