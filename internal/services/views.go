package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oficinapro/workshop/internal/models"
)

// OrderLineView is a read-only projection of one order line joined
// with its part's current name.
type OrderLineView struct {
	ID            uint    `json:"id"`
	ItemID        uint    `json:"item_id"`
	Name          string  `json:"name"`
	QuantitySold  int     `json:"quantity_sold"`
	PriceAtMoment float64 `json:"price_at_moment"`
	Subtotal      float64 `json:"subtotal"`
}

// OrderView is the detail projection of an order: header, client and
// joined lines. Lines whose inventory item was deleted drop out of the
// join, matching the original report behavior.
type OrderView struct {
	Order  models.ServiceOrder `json:"order"`
	Client models.Client       `json:"client"`
	Lines  []OrderLineView     `json:"lines"`
}

// OrderView loads the detail projection for one order.
func (s *LedgerService) OrderView(ctx context.Context, orderID uint) (*OrderView, error) {
	var order models.ServiceOrder
	if err := s.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "service order", ID: orderID}
		}
		return nil, err
	}
	var client models.Client
	if err := s.DB.WithContext(ctx).First(&client, order.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "client", ID: order.ClientID}
		}
		return nil, err
	}
	lines := []OrderLineView{}
	if err := s.DB.WithContext(ctx).
		Table("service_order_items soi").
		Select("soi.id, soi.item_id, ii.name, soi.quantity_sold, soi.price_at_moment, soi.quantity_sold * soi.price_at_moment AS subtotal").
		Joins("JOIN inventory_items ii ON ii.id = soi.item_id").
		Where("soi.order_id = ?", order.ID).
		Order("soi.id").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return &OrderView{Order: order, Client: client, Lines: lines}, nil
}
