package inventory

import (
	"errors"
	"time"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/models"

	"gorm.io/gorm"
)

type MoveInput struct {
	ProductID      uint    `json:"product_id"`
	Quantity       float64 `json:"quantity"`
	UnitID         *uint   `json:"unit_id"`
	FromLocationID *uint   `json:"from_location_id"`
	ToLocationID   *uint   `json:"to_location_id"`
	Type           string  `json:"type"`
	Reason         string  `json:"reason"`
}

// CreateMove appends one movement to the stock log. The log is never updated
// or deleted; corrections are new adjust moves.
func CreateMove(db *gorm.DB, tenantID string, in MoveInput) (*models.StockMove, error) {
	moveType, ok := models.ParseStockMoveType(in.Type)
	if !ok {
		return nil, apperrors.InvalidInput("invalid stock move type %q", in.Type)
	}

	var product models.Product
	err := db.Where("id = ? AND tenant_id = ?", in.ProductID, tenantID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product %d not found", in.ProductID)
	}
	if err != nil {
		return nil, err
	}

	unitID := in.UnitID
	if unitID == nil {
		unitID = product.UnitID
	}
	move := models.StockMove{
		TenantID:       tenantID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		UnitID:         unitID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Type:           moveType,
		Reason:         in.Reason,
	}
	if err := db.Create(&move).Error; err != nil {
		return nil, err
	}
	return &move, nil
}

type BatchInput struct {
	ProductID      uint       `json:"product_id"`
	Quantity       float64    `json:"quantity"`
	UnitID         *uint      `json:"unit_id"`
	CostPrice      float64    `json:"cost_price"`
	ExpirationDate *time.Time `json:"expiration_date"`
	LotCode        string     `json:"lot_code"`
}

// CreateBatch stores a received lot and appends the matching in-move in one
// transaction.
func CreateBatch(db *gorm.DB, tenantID string, in BatchInput) (*models.Batch, error) {
	var product models.Product
	err := db.Where("id = ? AND tenant_id = ?", in.ProductID, tenantID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product %d not found", in.ProductID)
	}
	if err != nil {
		return nil, err
	}

	unitID := in.UnitID
	if unitID == nil {
		unitID = product.UnitID
	}

	batch := models.Batch{
		TenantID:       tenantID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		UnitID:         unitID,
		CostPrice:      in.CostPrice,
		ExpirationDate: in.ExpirationDate,
		LotCode:        in.LotCode,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}
		move := models.StockMove{
			TenantID:  tenantID,
			ProductID: batch.ProductID,
			Quantity:  batch.Quantity,
			UnitID:    batch.UnitID,
			Type:      models.StockIn,
			Reason:    "batch received",
		}
		return tx.Create(&move).Error
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

type RuleInput struct {
	ProductID    uint     `json:"product_id"`
	ReorderPoint float64  `json:"reorder_point"`
	ParLevel     *float64 `json:"par_level"`
	LeadTimeDays *int     `json:"lead_time_days"`
	AutoRestock  bool     `json:"auto_restock"`
}

// UpsertRule creates or replaces the single inventory rule of a product.
func UpsertRule(db *gorm.DB, tenantID string, in RuleInput) (*models.InventoryRule, error) {
	if in.ReorderPoint < 0 {
		return nil, apperrors.InvalidInput("reorder_point must not be negative")
	}
	if in.ParLevel != nil && *in.ParLevel < in.ReorderPoint {
		return nil, apperrors.InvalidInput("par_level must not be below reorder_point")
	}

	var product models.Product
	err := db.Where("id = ? AND tenant_id = ?", in.ProductID, tenantID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product %d not found", in.ProductID)
	}
	if err != nil {
		return nil, err
	}

	var rule models.InventoryRule
	err = db.Where("product_id = ? AND tenant_id = ?", in.ProductID, tenantID).First(&rule).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rule = models.InventoryRule{TenantID: tenantID, ProductID: in.ProductID}
	case err != nil:
		return nil, err
	}

	rule.ReorderPoint = in.ReorderPoint
	rule.ParLevel = in.ParLevel
	rule.LeadTimeDays = in.LeadTimeDays
	rule.AutoRestock = in.AutoRestock
	if err := db.Save(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}
