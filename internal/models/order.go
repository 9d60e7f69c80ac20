package models

import "time"

// OrderStatus is the lifecycle state of a service order.
type OrderStatus string

const (
	StatusOpen   OrderStatus = "Open"
	StatusClosed OrderStatus = "Closed"
	// StatusPending is reserved for future use; no transition
	// currently produces it.
	StatusPending OrderStatus = "Pending"
)

// ServiceOrder (OS) links a client to the parts applied to their
// vehicle. TotalValue is a denormalized running total kept in lockstep
// with the order lines by the ledger service. CreatedAt is set once at
// creation; the row carries no UpdatedAt on purpose.
type ServiceOrder struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	ClientID   uint               `gorm:"not null;index" json:"client_id"`
	Client     Client             `gorm:"foreignKey:ClientID" json:"-"`
	Status     OrderStatus        `gorm:"not null;default:'Open'" json:"status"`
	TotalValue float64            `gorm:"not null;default:0" json:"total_value"`
	Items      []ServiceOrderItem `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ServiceOrderItem is one part applied within one order.
// PriceAtMoment freezes the sell price at the time of sale, so later
// price edits on the inventory item do not rewrite order history.
type ServiceOrderItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	OrderID       uint    `gorm:"not null;index" json:"order_id"`
	ItemID        uint    `gorm:"not null;index" json:"item_id"`
	QuantitySold  int     `gorm:"not null" json:"quantity_sold"`
	PriceAtMoment float64 `gorm:"not null" json:"price_at_moment"`
}
