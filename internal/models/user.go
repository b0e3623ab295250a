package models

import "time"

type Role string

const (
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleCashier    Role = "cashier"
	RoleWaiter     Role = "waiter"
	RoleChef       Role = "chef"
	RolePurchasing Role = "purchasing"
	RoleAccountant Role = "accountant"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleManager, RoleCashier, RoleWaiter, RoleChef, RolePurchasing, RoleAccountant:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           uint   `gorm:"primaryKey"`
	TenantID     string `gorm:"size:64;index;not null"`
	Username     string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100"`
	PasswordHash string `gorm:"size:255;not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	Roles        []UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRole assigns one role from the fixed set to a user.
type UserRole struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index;not null"`
	Role   Role `gorm:"size:20;not null"`
}

// RoleNames flattens the assignment rows for token claims.
func RoleNames(assignments []UserRole) []string {
	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		names = append(names, string(a.Role))
	}
	return names
}
