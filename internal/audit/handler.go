package audit

import (
	"comanda-backend/internal/auth"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		var logs []models.AuditLog
		err := database.DB.
			Where("tenant_id = ?", auth.TenantID(c)).
			Order("created_at DESC").
			Offset(skip).Limit(limit).
			Find(&logs).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list audit logs")
		}
		return c.JSON(logs)
	}
}
