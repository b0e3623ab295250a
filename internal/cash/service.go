package cash

import (
	"errors"
	"time"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/auth"
	"comanda-backend/internal/models"

	"gorm.io/gorm"
)

// OpenSession opens a cash session for the user. The check-then-insert runs
// inside a transaction and is backed by the partial unique index on
// (tenant_id, user_id) WHERE is_open, so concurrent opens collapse to one.
func OpenSession(db *gorm.DB, tenantID string, userID uint, openingAmount *float64) (*models.CashSession, error) {
	var session *models.CashSession
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.CashSession{}).
			Where("tenant_id = ? AND user_id = ? AND is_open = ?", tenantID, userID, true).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.InvalidState("cash session already open for this user")
		}

		opening := 0.0
		if openingAmount != nil {
			opening = *openingAmount
		}
		s := models.CashSession{
			TenantID:      tenantID,
			UserID:        userID,
			OpenedAt:      time.Now().UTC(),
			OpeningAmount: &opening,
			IsOpen:        true,
		}
		if err := tx.Create(&s).Error; err != nil {
			return err
		}
		session = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CloseSession closes an open session. Only the user who opened it, or an
// owner/manager, may close it.
func CloseSession(db *gorm.DB, tenantID string, sessionID, userID uint, roles []models.Role, closingAmount float64) (*models.CashSession, error) {
	var session models.CashSession
	err := db.Where("id = ? AND tenant_id = ?", sessionID, tenantID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("cash session %d not found", sessionID)
	}
	if err != nil {
		return nil, err
	}
	if !session.IsOpen {
		return nil, apperrors.InvalidState("cash session already closed")
	}

	if session.UserID != userID && !auth.HasRole(roles, models.RoleOwner, models.RoleManager) {
		return nil, apperrors.Forbidden("not authorized to close this session")
	}

	now := time.Now().UTC()
	session.ClosingAmount = &closingAmount
	session.ClosedAt = &now
	session.IsOpen = false
	if err := db.Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

type MovementInput struct {
	SessionID uint    `json:"session_id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
}

// RegisterMovement appends a supply or withdrawal to an open session.
func RegisterMovement(db *gorm.DB, tenantID string, in MovementInput) (*models.CashMovement, error) {
	var session models.CashSession
	err := db.Where("id = ? AND tenant_id = ? AND is_open = ?", in.SessionID, tenantID, true).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("cash session not found or closed")
	}
	if err != nil {
		return nil, err
	}

	moveType, ok := models.ParseCashMovementType(in.Type)
	if !ok {
		return nil, apperrors.InvalidInput("invalid cash movement type %q", in.Type)
	}

	movement := models.CashMovement{
		TenantID:  tenantID,
		SessionID: in.SessionID,
		Type:      moveType,
		Amount:    in.Amount,
		Reason:    in.Reason,
	}
	if err := db.Create(&movement).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}
