package models

import "time"

// CashSession is a user-scoped drawer ledger. At most one open session per
// (user, tenant); enforced by a partial unique index, see database.Init.
type CashSession struct {
	ID            uint   `gorm:"primaryKey"`
	TenantID      string `gorm:"size:64;index;not null"`
	UserID        uint   `gorm:"index;not null"`
	OpenedAt      time.Time `gorm:"not null"`
	ClosedAt      *time.Time
	OpeningAmount *float64
	ClosingAmount *float64
	IsOpen        bool `gorm:"not null;default:true"`
	Movements     []CashMovement `gorm:"foreignKey:SessionID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CashMovementType string

const (
	CashSupply     CashMovementType = "supply"
	CashWithdrawal CashMovementType = "withdrawal"
)

func ParseCashMovementType(s string) (CashMovementType, bool) {
	switch CashMovementType(s) {
	case CashSupply, CashWithdrawal:
		return CashMovementType(s), true
	}
	return "", false
}

type CashMovement struct {
	ID        uint             `gorm:"primaryKey"`
	TenantID  string           `gorm:"size:64;index;not null"`
	SessionID uint             `gorm:"index;not null"`
	Type      CashMovementType `gorm:"size:20;not null"`
	Amount    float64          `gorm:"not null"`
	Reason    string           `gorm:"size:255"`
	CreatedAt time.Time
}
