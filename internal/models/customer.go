package models

import "time"

// Customer fields are pointers so an erasure request can null them out while
// keeping the row (order history references it).
type Customer struct {
	ID          uint    `gorm:"primaryKey"`
	TenantID    string  `gorm:"size:64;index;not null"`
	Name        *string `gorm:"size:100"`
	Phone       *string `gorm:"size:30"`
	Email       *string `gorm:"size:100"`
	Preferences *string `gorm:"size:255"`
	Allergies   *string `gorm:"size:255"`
	DeletedAt   *time.Time
	Consents    []Consent
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Consent struct {
	ID         uint      `gorm:"primaryKey"`
	TenantID   string    `gorm:"size:64;index;not null"`
	CustomerID uint      `gorm:"index;not null"`
	Purpose    string    `gorm:"size:100;not null"`
	GrantedAt  time.Time `gorm:"not null"`
}
