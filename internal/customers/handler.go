package customers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"comanda-backend/internal/audit"
	"comanda-backend/internal/auth"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CustomerRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Preferences *string `json:"preferences"`
	Allergies   *string `json:"allergies"`
}

type ConsentRequest struct {
	Purpose string `json:"purpose"`
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// GET /api/customers
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		var customers []models.Customer
		err := database.DB.
			Where("tenant_id = ?", auth.TenantID(c)).
			Offset(skip).Limit(limit).
			Find(&customers).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list customers")
		}
		return c.JSON(customers)
	}
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		customer := models.Customer{
			TenantID:    auth.TenantID(c),
			Name:        body.Name,
			Phone:       body.Phone,
			Email:       body.Email,
			Preferences: body.Preferences,
			Allergies:   body.Allergies,
		}
		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create customer")
		}
		return c.Status(fiber.StatusCreated).JSON(customer)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		var customer models.Customer
		err = database.DB.Preload("Consents").
			Where("id = ? AND tenant_id = ?", id, auth.TenantID(c)).
			First(&customer).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return c.JSON(customer)
	}
}

// POST /api/customers/:id/consents
func AddConsentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		var body ConsentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Purpose == "" {
			return fiber.NewError(fiber.StatusBadRequest, "purpose is required")
		}

		tenantID := auth.TenantID(c)
		var customer models.Customer
		if err := database.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}

		consent := models.Consent{
			TenantID:   tenantID,
			CustomerID: id,
			Purpose:    body.Purpose,
			GrantedAt:  time.Now().UTC(),
		}
		if err := database.DB.Create(&consent).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not store consent")
		}
		return c.Status(fiber.StatusCreated).JSON(consent)
	}
}

// GET /api/customers/:id/export
//
// Data-portability export: the customer record, consents and order history
// bundled as a JSON file inside a zip.
func ExportCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		tenantID := auth.TenantID(c)
		var customer models.Customer
		err = database.DB.Preload("Consents").
			Where("id = ? AND tenant_id = ?", id, tenantID).
			First(&customer).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}

		var orders []models.Order
		err = database.DB.
			Where("customer_id = ? AND tenant_id = ?", id, tenantID).
			Find(&orders).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load order history")
		}

		type exportOrder struct {
			ID       uint       `json:"id"`
			Status   string     `json:"status"`
			OpenedAt time.Time  `json:"opened_at"`
			ClosedAt *time.Time `json:"closed_at"`
			Total    *float64   `json:"total"`
		}
		ordersOut := make([]exportOrder, 0, len(orders))
		for _, o := range orders {
			ordersOut = append(ordersOut, exportOrder{
				ID: o.ID, Status: string(o.Status),
				OpenedAt: o.OpenedAt, ClosedAt: o.ClosedAt, Total: o.Total,
			})
		}

		payload, err := json.MarshalIndent(fiber.Map{
			"export_id": uuid.NewString(),
			"customer":  customer,
			"orders":    ordersOut,
		}, "", "  ")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not encode export")
		}

		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		f, err := zw.Create(fmt.Sprintf("customer_%d.json", id))
		if err == nil {
			_, err = f.Write(payload)
		}
		if err == nil {
			err = zw.Close()
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build export archive")
		}

		c.Set(fiber.HeaderContentType, "application/zip")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=customer_%d_export.zip", id))
		return c.Send(buf.Bytes())
	}
}

type EraseRequest struct {
	Reason string `json:"reason"`
}

// POST /api/customers/:id/delete
//
// Erasure request: personal fields are nulled out, the row stays because
// order history references it, and the action is written to the audit log.
func EraseCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		var body EraseRequest
		_ = c.BodyParser(&body)
		if body.Reason == "" {
			body.Reason = "data subject request"
		}

		tenantID := auth.TenantID(c)
		var customer models.Customer
		if err := database.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}

		now := time.Now().UTC()
		customer.Name = nil
		customer.Phone = nil
		customer.Email = nil
		customer.Preferences = nil
		customer.Allergies = nil
		customer.DeletedAt = &now
		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not erase customer data")
		}

		userID := auth.UserID(c)
		entityID := customer.ID
		if err := audit.Write(database.DB, audit.Entry{
			TenantID:  tenantID,
			UserID:    &userID,
			Action:    "delete_customer",
			Entity:    "customer",
			EntityID:  &entityID,
			Reason:    body.Reason,
			IP:        c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not write audit log")
		}

		return c.JSON(fiber.Map{"detail": "customer data erased"})
	}
}
