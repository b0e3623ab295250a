package orders

import (
	"strconv"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/auth"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		order, err := Create(database.DB, auth.TenantID(c), body)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// GET /api/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		var status *models.OrderStatus
		if s := c.Query("status"); s != "" {
			st := models.OrderStatus(s)
			switch st {
			case models.OrderOpen, models.OrderPaid, models.OrderCanceled:
				status = &st
			default:
				return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
			}
		}

		out, err := List(database.DB, auth.TenantID(c), status, skip, limit)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(out)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		order, err := Get(database.DB, auth.TenantID(c), id)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(order)
	}
}

// PUT /api/orders/:id/pay
func PayOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var payments []PaymentInput
		if err := c.BodyParser(&payments); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		order, err := Settle(database.DB, auth.TenantID(c), id, payments)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(order)
	}
}
