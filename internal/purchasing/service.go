package purchasing

import (
	"errors"
	"fmt"
	"time"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/models"

	"gorm.io/gorm"
)

type PurchaseItemInput struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitID    *uint   `json:"unit_id"`
	UnitPrice float64 `json:"unit_price"`
}

type PurchaseOrderInput struct {
	SupplierID uint                `json:"supplier_id"`
	Items      []PurchaseItemInput `json:"items"`
}

func CreateOrder(db *gorm.DB, tenantID string, in PurchaseOrderInput) (*models.PurchaseOrder, error) {
	var supplier models.Supplier
	err := db.Where("id = ? AND tenant_id = ?", in.SupplierID, tenantID).First(&supplier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("supplier %d not found", in.SupplierID)
	}
	if err != nil {
		return nil, err
	}

	var created *models.PurchaseOrder
	err = db.Transaction(func(tx *gorm.DB) error {
		po := models.PurchaseOrder{
			TenantID:   tenantID,
			SupplierID: in.SupplierID,
			Status:     models.PurchaseDraft,
		}
		if err := tx.Create(&po).Error; err != nil {
			return err
		}
		for _, item := range in.Items {
			var product models.Product
			err := tx.Where("id = ? AND tenant_id = ?", item.ProductID, tenantID).First(&product).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("product %d not found", item.ProductID)
			}
			if err != nil {
				return err
			}

			unitID := item.UnitID
			if unitID == nil {
				unitID = product.UnitID
			}
			poItem := models.PurchaseItem{
				TenantID:        tenantID,
				PurchaseOrderID: po.ID,
				ProductID:       item.ProductID,
				Quantity:        item.Quantity,
				UnitID:          unitID,
				UnitPrice:       item.UnitPrice,
			}
			if err := tx.Create(&poItem).Error; err != nil {
				return err
			}
		}

		var full models.PurchaseOrder
		if err := tx.Preload("Items").First(&full, po.ID).Error; err != nil {
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

func Approve(db *gorm.DB, tenantID string, poID uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := db.Where("id = ? AND tenant_id = ?", poID, tenantID).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("purchase order %d not found", poID)
	}
	if err != nil {
		return nil, err
	}
	if po.Status != models.PurchaseDraft {
		return nil, apperrors.InvalidState("purchase order already approved or received")
	}

	now := time.Now().UTC()
	po.Status = models.PurchaseApproved
	po.ApprovedAt = &now
	if err := db.Save(&po).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

// Receive marks the purchase order received, appends one in-move per item and
// opens a payable for the summed amount, due in 30 days. All in one
// transaction.
func Receive(db *gorm.DB, tenantID string, poID uint) (*models.PurchaseOrder, error) {
	var received *models.PurchaseOrder
	err := db.Transaction(func(tx *gorm.DB) error {
		var po models.PurchaseOrder
		err := tx.Preload("Items").
			Where("id = ? AND tenant_id = ?", poID, tenantID).
			First(&po).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("purchase order %d not found", poID)
		}
		if err != nil {
			return err
		}
		if po.Status == models.PurchaseReceived {
			return apperrors.InvalidState("purchase order already received")
		}

		now := time.Now().UTC()
		po.Status = models.PurchaseReceived
		po.ReceivedAt = &now
		if err := tx.Save(&po).Error; err != nil {
			return err
		}

		totalAmount := 0.0
		for _, item := range po.Items {
			move := models.StockMove{
				TenantID:  tenantID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitID:    item.UnitID,
				Type:      models.StockIn,
				Reason:    fmt.Sprintf("received purchase order #%d", po.ID),
			}
			if err := tx.Create(&move).Error; err != nil {
				return err
			}
			totalAmount += item.Quantity * item.UnitPrice
		}

		supplierID := po.SupplierID
		payable := models.Payable{
			TenantID:        tenantID,
			SupplierID:      &supplierID,
			PurchaseOrderID: &po.ID,
			DueDate:         now.AddDate(0, 0, 30),
			Amount:          totalAmount,
			Status:          models.PayableOpen,
			Description:     fmt.Sprintf("purchase order #%d", po.ID),
		}
		if err := tx.Create(&payable).Error; err != nil {
			return err
		}

		received = &po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

// SettlePayable marks an open payable paid.
func SettlePayable(db *gorm.DB, tenantID string, payableID uint) (*models.Payable, error) {
	var payable models.Payable
	err := db.Where("id = ? AND tenant_id = ?", payableID, tenantID).First(&payable).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("payable %d not found", payableID)
	}
	if err != nil {
		return nil, err
	}
	if payable.Status != models.PayableOpen {
		return nil, apperrors.InvalidState("payable is not open")
	}

	payable.Status = models.PayablePaid
	if err := db.Save(&payable).Error; err != nil {
		return nil, err
	}
	return &payable, nil
}

// CancelPayable cancels an open payable; paid or canceled ones stay as they
// are.
func CancelPayable(db *gorm.DB, tenantID string, payableID uint) (*models.Payable, error) {
	var payable models.Payable
	err := db.Where("id = ? AND tenant_id = ?", payableID, tenantID).First(&payable).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("payable %d not found", payableID)
	}
	if err != nil {
		return nil, err
	}
	if payable.Status == models.PayablePaid {
		return nil, apperrors.InvalidState("payable already settled")
	}
	if payable.Status == models.PayableCanceled {
		return nil, apperrors.InvalidState("payable already canceled")
	}

	payable.Status = models.PayableCanceled
	if err := db.Save(&payable).Error; err != nil {
		return nil, err
	}
	return &payable, nil
}
