package models

import "time"

// Tenant is the root entity; all other rows carry its slug in tenant_id.
type Tenant struct {
	ID          uint   `gorm:"primaryKey"`
	Slug        string `gorm:"size:64;uniqueIndex;not null"`
	Name        string `gorm:"size:100;uniqueIndex;not null"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
