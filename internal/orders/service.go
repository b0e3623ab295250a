package orders

import (
	"errors"
	"time"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/models"

	"gorm.io/gorm"
)

type CreateItemInput struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	Notes     string  `json:"notes"`
}

type CreateOrderInput struct {
	TableID    *uint             `json:"table_id"`
	CustomerID *uint             `json:"customer_id"`
	Items      []CreateItemInput `json:"items"`
}

// Create opens an order and snapshots the unit price of every item from the
// current catalog sale price. The total is computed once here; later catalog
// price changes never touch it.
func Create(db *gorm.DB, tenantID string, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one item")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.InvalidInput("item quantity must be positive")
		}
	}

	var created *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		order := models.Order{
			TenantID:   tenantID,
			TableID:    in.TableID,
			CustomerID: in.CustomerID,
			Status:     models.OrderOpen,
			OpenedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := 0.0
		for _, item := range in.Items {
			var product models.Product
			err := tx.Where("id = ? AND tenant_id = ?", item.ProductID, tenantID).
				First(&product).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("product %d not found", item.ProductID)
			}
			if err != nil {
				return err
			}

			unitPrice := 0.0
			if product.SalePrice != nil {
				unitPrice = *product.SalePrice
			}
			orderItem := models.OrderItem{
				TenantID:  tenantID,
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
				Notes:     item.Notes,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			total += unitPrice * item.Quantity
		}

		if err := tx.Model(&order).Update("total", total).Error; err != nil {
			return err
		}

		var full models.Order
		err := tx.Preload("Items").
			Where("id = ? AND tenant_id = ?", order.ID, tenantID).
			First(&full).Error
		if err != nil {
			return err
		}
		created = &full
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get loads one order with its items and payments.
func Get(db *gorm.DB, tenantID string, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Preload("Payments").
		Where("id = ? AND tenant_id = ?", orderID, tenantID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders for the tenant, optionally filtered by status.
func List(db *gorm.DB, tenantID string, status *models.OrderStatus, skip, limit int) ([]models.Order, error) {
	query := db.Preload("Items").Where("tenant_id = ?", tenantID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var out []models.Order
	if err := query.Offset(skip).Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
