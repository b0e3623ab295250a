package models

import "time"

// AuditLog is append-only; entries are never updated or removed.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	TenantID  string `gorm:"size:64;index;not null"`
	UserID    *uint
	Action    string `gorm:"size:100;not null"`
	Entity    string `gorm:"size:50;not null"`
	EntityID  *uint
	Reason    string `gorm:"size:255"`
	IP        string `gorm:"size:45"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time
}
