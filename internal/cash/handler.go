package cash

import (
	"strconv"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/auth"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OpenSessionRequest struct {
	OpeningAmount *float64 `json:"opening_amount"`
}

type CloseSessionRequest struct {
	ClosingAmount float64 `json:"closing_amount"`
}

// POST /api/cash/sessions
func OpenSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body OpenSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		session, err := OpenSession(database.DB, auth.TenantID(c), auth.UserID(c), body.OpeningAmount)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	}
}

// POST /api/cash/sessions/:id/close
func CloseSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}
		var body CloseSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		session, err := CloseSession(database.DB, auth.TenantID(c), uint(id),
			auth.UserID(c), auth.UserRoles(c), body.ClosingAmount)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(session)
	}
}

// GET /api/cash/sessions
func ListSessionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		var sessions []models.CashSession
		err := database.DB.Preload("Movements").
			Where("tenant_id = ?", auth.TenantID(c)).
			Offset(skip).Limit(limit).
			Find(&sessions).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list cash sessions")
		}
		return c.JSON(sessions)
	}
}

// POST /api/cash/movements
func RegisterMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MovementInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		movement, err := RegisterMovement(database.DB, auth.TenantID(c), body)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(movement)
	}
}
