package purchasing

import (
	"strconv"
	"time"

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

type SupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// POST /api/purchases/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		supplier := models.Supplier{
			TenantID: auth.TenantID(c),
			Name:     body.Name,
			Contact:  body.Contact,
			Phone:    body.Phone,
			Email:    body.Email,
		}
		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create supplier")
		}
		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

// GET /api/purchases/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Where("tenant_id = ?", auth.TenantID(c)).Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list suppliers")
		}
		return c.JSON(suppliers)
	}
}

// POST /api/purchases/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PurchaseOrderInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		po, err := CreateOrder(database.DB, auth.TenantID(c), body)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(po)
	}
}

// GET /api/purchases/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		var pos []models.PurchaseOrder
		err := database.DB.Preload("Items").
			Where("tenant_id = ?", auth.TenantID(c)).
			Offset(skip).Limit(limit).
			Find(&pos).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list purchase orders")
		}
		return c.JSON(pos)
	}
}

// PUT /api/purchases/orders/:id/approve
func ApproveOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		po, err := Approve(database.DB, auth.TenantID(c), id)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(po)
	}
}

// PUT /api/purchases/orders/:id/receive
func ReceiveOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		po, err := Receive(database.DB, auth.TenantID(c), id)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(po)
	}
}

type PayableRequest struct {
	SupplierID  *uint   `json:"supplier_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"due_date"` // "2006-01-02"
}

// POST /api/purchases/payables
func CreatePayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PayableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		dueDate, err := time.Parse("2006-01-02", body.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "due_date must be 'YYYY-MM-DD'")
		}

		tenantID := auth.TenantID(c)
		if body.SupplierID != nil {
			var supplier models.Supplier
			if err := database.DB.Where("id = ? AND tenant_id = ?", *body.SupplierID, tenantID).First(&supplier).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "supplier not found")
			}
		}

		payable := models.Payable{
			TenantID:    tenantID,
			SupplierID:  body.SupplierID,
			DueDate:     dueDate,
			Amount:      body.Amount,
			Status:      models.PayableOpen,
			Description: body.Description,
		}
		if err := database.DB.Create(&payable).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create payable")
		}
		return c.Status(fiber.StatusCreated).JSON(payable)
	}
}

// GET /api/purchases/payables
func ListPayablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payables []models.Payable
		err := database.DB.
			Where("tenant_id = ?", auth.TenantID(c)).
			Order("due_date ASC").
			Find(&payables).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list payables")
		}
		return c.JSON(payables)
	}
}

// PUT /api/purchases/payables/:id/settle
func SettlePayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		payable, err := SettlePayable(database.DB, auth.TenantID(c), id)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(payable)
	}
}

// PUT /api/purchases/payables/:id/cancel
func CancelPayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		payable, err := CancelPayable(database.DB, auth.TenantID(c), id)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(payable)
	}
}
