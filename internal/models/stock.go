package models

import "time"

type StockMoveType string

const (
	StockIn       StockMoveType = "in"
	StockOut      StockMoveType = "out"
	StockTransfer StockMoveType = "transfer"
	StockAdjust   StockMoveType = "adjust"
)

func ParseStockMoveType(s string) (StockMoveType, bool) {
	switch StockMoveType(s) {
	case StockIn, StockOut, StockTransfer, StockAdjust:
		return StockMoveType(s), true
	}
	return "", false
}

type StockLocation struct {
	ID          uint   `gorm:"primaryKey"`
	TenantID    string `gorm:"size:64;index;not null"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockMove is append-only. Corrections are new adjust moves, never updates.
// The running balance of a product is the signed sum of its moves: in and
// adjust add, out subtracts, transfer contributes nothing.
type StockMove struct {
	ID             uint          `gorm:"primaryKey"`
	TenantID       string        `gorm:"size:64;index;not null"`
	ProductID      uint          `gorm:"index;not null"`
	Quantity       float64       `gorm:"not null"`
	UnitID         *uint
	FromLocationID *uint
	ToLocationID   *uint
	Type           StockMoveType `gorm:"size:20;not null"`
	Reason         string        `gorm:"size:255"`
	CreatedAt      time.Time     `gorm:"index"`
}

type Batch struct {
	ID             uint    `gorm:"primaryKey"`
	TenantID       string  `gorm:"size:64;index;not null"`
	ProductID      uint    `gorm:"index;not null"`
	Quantity       float64 `gorm:"not null"`
	UnitID         *uint
	CostPrice      float64 `gorm:"not null"`
	ExpirationDate *time.Time
	LotCode        string `gorm:"size:50"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InventoryRule holds the reorder thresholds for one product; at most one
// rule per product.
type InventoryRule struct {
	ID           uint    `gorm:"primaryKey"`
	TenantID     string  `gorm:"size:64;index;not null"`
	ProductID    uint    `gorm:"uniqueIndex;not null"`
	ReorderPoint float64 `gorm:"not null;default:0"`
	ParLevel     *float64
	LeadTimeDays *int
	AutoRestock  bool `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
