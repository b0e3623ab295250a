package models

import "time"

type PurchaseStatus string

const (
	PurchaseDraft    PurchaseStatus = "draft"
	PurchaseApproved PurchaseStatus = "approved"
	PurchaseReceived PurchaseStatus = "received"
)

type Supplier struct {
	ID        uint   `gorm:"primaryKey"`
	TenantID  string `gorm:"size:64;index;not null"`
	Name      string `gorm:"size:100;not null"`
	Contact   string `gorm:"size:100"`
	Phone     string `gorm:"size:30"`
	Email     string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PurchaseOrder struct {
	ID         uint           `gorm:"primaryKey"`
	TenantID   string         `gorm:"size:64;index;not null"`
	SupplierID uint           `gorm:"index;not null"`
	Status     PurchaseStatus `gorm:"size:20;not null;default:'draft'"`
	ApprovedAt *time.Time
	ReceivedAt *time.Time
	Items      []PurchaseItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PurchaseItem struct {
	ID              uint    `gorm:"primaryKey"`
	TenantID        string  `gorm:"size:64;index;not null"`
	PurchaseOrderID uint    `gorm:"index;not null"`
	ProductID       uint    `gorm:"index;not null"`
	Quantity        float64 `gorm:"not null"`
	UnitID          *uint
	UnitPrice       float64 `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PayableStatus string

const (
	PayableOpen     PayableStatus = "open"
	PayablePaid     PayableStatus = "paid"
	PayableCanceled PayableStatus = "canceled"
)

type Payable struct {
	ID              uint          `gorm:"primaryKey"`
	TenantID        string        `gorm:"size:64;index;not null"`
	SupplierID      *uint         `gorm:"index"`
	PurchaseOrderID *uint         `gorm:"index"`
	DueDate         time.Time     `gorm:"not null"`
	Amount          float64       `gorm:"not null"`
	Status          PayableStatus `gorm:"size:20;not null;default:'open'"`
	Description     string        `gorm:"size:255"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
