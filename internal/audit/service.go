package audit

import (
	"fmt"

	"comanda-backend/internal/models"

	"gorm.io/gorm"
)

type Entry struct {
	TenantID  string
	UserID    *uint
	Action    string
	Entity    string
	EntityID  *uint
	Reason    string
	IP        string
	UserAgent string
}

// Write appends one audit log row. The log is append-only; there is no update
// or delete path.
func Write(db *gorm.DB, e Entry) error {
	row := models.AuditLog{
		TenantID:  e.TenantID,
		UserID:    e.UserID,
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Reason:    e.Reason,
		IP:        e.IP,
		UserAgent: e.UserAgent,
	}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("audit log write failed: %w", err)
	}
	return nil
}
