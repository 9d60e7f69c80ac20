package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oficinapro/workshop/internal/models"
	"github.com/oficinapro/workshop/internal/validation"
)

// LedgerService keeps stock quantities and order totals in lockstep.
// Every mutation runs inside one transaction: a crash or a concurrent
// interleaving can never leave stock decremented without the matching
// order line, or vice versa. The order and inventory rows are read
// under a row lock so two concurrent adds cannot both pass the
// availability check and concurrent total updates cannot lose a write
// (postgres issues FOR UPDATE; sqlite serializes writers anyway).
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService { return &LedgerService{DB: db} }

// lockForUpdate adds a row lock on dialects that support it. sqlite has
// no FOR UPDATE; its single-writer transaction lock already serializes
// the check-and-decrement.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// AddItem applies a part to an order: creates the line with the sell
// price frozen at this moment, decrements stock and raises the order
// total, atomically.
func (s *LedgerService) AddItem(ctx context.Context, orderID, itemID uint, quantity int) (*models.ServiceOrderItem, error) {
	v := validation.Violations{}
	validation.PositiveInt("quantity", quantity, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	var line models.ServiceOrderItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.ServiceOrder
		if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "service order", ID: orderID}
			}
			return err
		}
		var item models.InventoryItem
		if err := lockForUpdate(tx).First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "inventory item", ID: itemID}
			}
			return err
		}
		if item.Quantity < quantity {
			return &InsufficientStockError{ItemID: item.ID, Available: item.Quantity, Requested: quantity}
		}
		line = models.ServiceOrderItem{
			OrderID:       order.ID,
			ItemID:        item.ID,
			QuantitySold:  quantity,
			PriceAtMoment: item.SellPrice,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity - ?", quantity)).Error; err != nil {
			return err
		}
		return tx.Model(&order).Update("total_value", gorm.Expr("total_value + ?", float64(quantity)*line.PriceAtMoment)).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// RemoveItem deletes a line from an order and reverses its effects:
// the subtotal comes off the order total (clamped at zero against
// float drift) and the sold quantity returns to stock. If the
// inventory row was deleted in the meantime the stock reversal is
// skipped; that inventory data has already diverged.
func (s *LedgerService) RemoveItem(ctx context.Context, orderID, lineID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.ServiceOrder
		if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "service order", ID: orderID}
			}
			return err
		}
		var line models.ServiceOrderItem
		if err := tx.Where("order_id = ?", orderID).First(&line, lineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "order line", ID: lineID}
			}
			return err
		}

		// The subtraction and clamp run in SQL so the write stays
		// relative to the current row value; a total computed in Go
		// from the earlier read could lose a concurrent add under
		// read committed.
		subtotal := float64(line.QuantitySold) * line.PriceAtMoment
		if err := tx.Model(&order).Update("total_value",
			gorm.Expr("CASE WHEN total_value - ? < 0 THEN 0 ELSE total_value - ? END", subtotal, subtotal)).Error; err != nil {
			return err
		}

		var item models.InventoryItem
		switch err := lockForUpdate(tx).First(&item, line.ItemID).Error; {
		case err == nil:
			if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity + ?", line.QuantitySold)).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// part no longer in the catalog, nothing to reinstate
		default:
			return err
		}

		return tx.Delete(&line).Error
	})
}

// Close marks an order Closed. Closing an already-closed order is a
// no-op success; there is no transition back to Open.
func (s *LedgerService) Close(ctx context.Context, orderID uint) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "service order", ID: orderID}
			}
			return err
		}
		if order.Status == models.StatusClosed {
			return nil
		}
		if err := tx.Model(&order).Update("status", models.StatusClosed).Error; err != nil {
			return err
		}
		order.Status = models.StatusClosed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
