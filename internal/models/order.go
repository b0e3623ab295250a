package models

import "time"

type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
	TableReserved TableStatus = "reserved"
)

type Table struct {
	ID        uint        `gorm:"primaryKey"`
	TenantID  string      `gorm:"size:64;index;not null"`
	Name      string      `gorm:"size:50;not null"`
	Status    TableStatus `gorm:"size:20;not null;default:'free'"`
	Capacity  *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderStatus string

const (
	OrderOpen     OrderStatus = "open"
	OrderPaid     OrderStatus = "paid"
	OrderCanceled OrderStatus = "canceled"
)

// Order transitions open->paid or open->canceled, never back.
type Order struct {
	ID         uint        `gorm:"primaryKey"`
	TenantID   string      `gorm:"size:64;index;not null"`
	TableID    *uint       `gorm:"index"`
	CustomerID *uint       `gorm:"index"`
	Status     OrderStatus `gorm:"size:20;not null;default:'open'"`
	OpenedAt   time.Time   `gorm:"not null"`
	ClosedAt   *time.Time
	Total      *float64
	Items      []OrderItem
	Payments   []Payment
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"`
	TenantID  string  `gorm:"size:64;index;not null"`
	OrderID   uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Quantity  float64 `gorm:"not null"`
	// UnitPrice is snapshotted from the product at order creation and never
	// recomputed, even if the catalog price changes afterwards.
	UnitPrice float64 `gorm:"not null"`
	Notes     string  `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaymentMethod string

const (
	PayCash         PaymentMethod = "cash"
	PayPix          PaymentMethod = "pix"
	PayCardDebit    PaymentMethod = "card_debit"
	PayCardCredit   PaymentMethod = "card_credit"
	PayVoucher      PaymentMethod = "voucher"
	PayHouseAccount PaymentMethod = "house_account"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PayCash, PayPix, PayCardDebit, PayCardCredit, PayVoucher, PayHouseAccount:
		return PaymentMethod(s), true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is a reconciliation entry against an order, not a gateway call.
type Payment struct {
	ID        uint          `gorm:"primaryKey"`
	TenantID  string        `gorm:"size:64;index;not null"`
	OrderID   uint          `gorm:"index;not null"`
	Method    PaymentMethod `gorm:"size:20;not null"`
	Amount    float64       `gorm:"not null"`
	Status    PaymentStatus `gorm:"size:20;not null;default:'pending'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
