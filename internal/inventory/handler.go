package inventory

import (
	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/auth"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/stock/moves
func CreateMoveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MoveInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		move, err := CreateMove(database.DB, auth.TenantID(c), body)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(move)
	}
}

// GET /api/stock/moves
func ListMovesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		var moves []models.StockMove
		err := database.DB.
			Where("tenant_id = ?", auth.TenantID(c)).
			Order("created_at DESC").
			Offset(skip).Limit(limit).
			Find(&moves).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list stock moves")
		}
		return c.JSON(moves)
	}
}

// POST /api/stock/batches
func CreateBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BatchInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		batch, err := CreateBatch(database.DB, auth.TenantID(c), body)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(batch)
	}
}

// GET /api/stock/batches
func ListBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		var batches []models.Batch
		err := database.DB.
			Where("tenant_id = ?", auth.TenantID(c)).
			Offset(skip).Limit(limit).
			Find(&batches).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list batches")
		}
		return c.JSON(batches)
	}
}

// PUT /api/inventory/rules
func UpsertRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RuleInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		rule, err := UpsertRule(database.DB, auth.TenantID(c), body)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(rule)
	}
}

// GET /api/inventory/rules
func ListRulesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rules []models.InventoryRule
		err := database.DB.
			Where("tenant_id = ?", auth.TenantID(c)).
			Find(&rules).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list inventory rules")
		}
		return c.JSON(rules)
	}
}

// GET /api/inventory/alerts
//
// history_days and warning_multiplier are bounded here; the engine itself
// takes whatever the caller supplies.
func AlertsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		historyDays := c.QueryInt("history_days", 14)
		if historyDays < 1 || historyDays > 60 {
			return fiber.NewError(fiber.StatusBadRequest, "history_days must be between 1 and 60")
		}
		warningMultiplier := c.QueryFloat("warning_multiplier", 1.15)
		if warningMultiplier < 1.0 || warningMultiplier > 2.0 {
			return fiber.NewError(fiber.StatusBadRequest, "warning_multiplier must be between 1.0 and 2.0")
		}

		report, err := BuildAlerts(database.DB, auth.TenantID(c), historyDays, warningMultiplier)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(report)
	}
}
