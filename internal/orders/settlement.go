package orders

import (
	"errors"
	"fmt"
	"math"
	"time"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/models"

	"gorm.io/gorm"
)

// AmountTolerance is the absolute difference allowed between the summed
// payments and the order total.
const AmountTolerance = 0.01

type PaymentInput struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// Settle records the given payments against an open order, marks it paid and
// deducts ingredient stock through the recipe expansion, all in one
// transaction. Nothing persists if any step fails.
//
// Double settlement is prevented by the status transition itself: the update
// to paid is guarded by status = open, so of two concurrent calls exactly one
// flips the row and the other sees zero rows affected.
func Settle(db *gorm.DB, tenantID string, orderID uint, payments []PaymentInput) (*models.Order, error) {
	var settled *models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Preload("Items").
			Where("id = ? AND tenant_id = ?", orderID, tenantID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("order %d not found", orderID)
		}
		if err != nil {
			return err
		}

		if order.Status != models.OrderOpen {
			return apperrors.InvalidState("order already paid")
		}
		if len(payments) == 0 {
			return apperrors.InvalidInput("at least one payment method is required")
		}

		methods := make([]models.PaymentMethod, len(payments))
		totalPaid := 0.0
		for i, p := range payments {
			method, ok := models.ParsePaymentMethod(p.Method)
			if !ok {
				return apperrors.InvalidInput("invalid payment method %q", p.Method)
			}
			methods[i] = method
			totalPaid += p.Amount
		}

		total := 0.0
		if order.Total != nil {
			total = *order.Total
		}
		if math.Abs(totalPaid-total) > AmountTolerance {
			return apperrors.InvalidInput("paid amount does not match order total")
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND tenant_id = ? AND status = ?", order.ID, tenantID, models.OrderOpen).
			Updates(map[string]any{"status": models.OrderPaid, "closed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race against a concurrent settlement
			return apperrors.InvalidState("order already paid")
		}

		for i, p := range payments {
			payment := models.Payment{
				TenantID: tenantID,
				OrderID:  order.ID,
				Method:   methods[i],
				Amount:   p.Amount,
				Status:   models.PaymentCompleted,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}

		for _, item := range order.Items {
			if err := deductStockForItem(tx, tenantID, item); err != nil {
				return err
			}
		}

		var updated models.Order
		err = tx.Preload("Items").Preload("Payments").
			Where("id = ? AND tenant_id = ?", order.ID, tenantID).
			First(&updated).Error
		if err != nil {
			return err
		}
		settled = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

func deductStockForItem(tx *gorm.DB, tenantID string, item models.OrderItem) error {
	var product models.Product
	err := tx.Where("id = ? AND tenant_id = ?", item.ProductID, tenantID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A product removed from the catalog after the order was opened
		// skips deduction without failing the sale. Known gap, kept on
		// purpose: the payment must not bounce over a catalog edit.
		return nil
	}
	if err != nil {
		return err
	}

	var recipe *models.Recipe
	reason := fmt.Sprintf("sale of product %s", product.Name)
	if product.Type == models.ProductDish {
		var r models.Recipe
		err := tx.Preload("Items").
			Where("product_id = ? AND tenant_id = ?", product.ID, tenantID).
			First(&r).Error
		if err == nil {
			recipe = &r
			reason = fmt.Sprintf("sale of dish %s", product.Name)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	consumptions, err := ExpandRecipe(&product, recipe, item.Quantity)
	if err != nil {
		return err
	}
	for _, cons := range consumptions {
		move := models.StockMove{
			TenantID:  tenantID,
			ProductID: cons.ProductID,
			Quantity:  cons.Quantity,
			UnitID:    cons.UnitID,
			Type:      models.StockOut,
			Reason:    reason,
		}
		if err := tx.Create(&move).Error; err != nil {
			return err
		}
	}
	return nil
}
