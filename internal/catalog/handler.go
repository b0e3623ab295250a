package catalog

import (
	"strconv"

	"comanda-backend/internal/auth"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UnitRequest struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type ProductRequest struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	UnitID    *uint    `json:"unit_id"`
	CostPrice *float64 `json:"cost_price"`
	SalePrice *float64 `json:"sale_price"`
	Markup    *float64 `json:"markup"`
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// POST /api/products/units
func CreateUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UnitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Name == "" || body.Abbreviation == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and abbreviation are required")
		}
		unit := models.Unit{TenantID: auth.TenantID(c), Name: body.Name, Abbreviation: body.Abbreviation}
		if err := database.DB.Create(&unit).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create unit")
		}
		return c.Status(fiber.StatusCreated).JSON(unit)
	}
}

// GET /api/products/units
func ListUnitsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var units []models.Unit
		if err := database.DB.Where("tenant_id = ?", auth.TenantID(c)).Find(&units).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list units")
		}
		return c.JSON(units)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		ptype, ok := models.ParseProductType(body.Type)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product type")
		}
		product := models.Product{
			TenantID:  auth.TenantID(c),
			Name:      body.Name,
			Type:      ptype,
			UnitID:    body.UnitID,
			CostPrice: body.CostPrice,
			SalePrice: body.SalePrice,
			Markup:    body.Markup,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create product")
		}
		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// GET /api/products
//
// stockable=true narrows to ingredients and merchandise; otherwise an
// optional type filter applies.
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		query := database.DB.Where("tenant_id = ?", auth.TenantID(c))
		if c.QueryBool("stockable", false) {
			query = query.Where("type IN ?", []models.ProductType{models.ProductIngredient, models.ProductMerchandise})
		} else if t := c.Query("type"); t != "" {
			ptype, ok := models.ParseProductType(t)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "invalid product type")
			}
			query = query.Where("type = ?", ptype)
		}

		var products []models.Product
		if err := query.Order("name ASC").Offset(skip).Limit(limit).Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list products")
		}
		return c.JSON(products)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		var product models.Product
		if err := database.DB.Where("id = ? AND tenant_id = ?", id, auth.TenantID(c)).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return c.JSON(product)
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		ptype, ok := models.ParseProductType(body.Type)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product type")
		}

		var product models.Product
		if err := database.DB.Where("id = ? AND tenant_id = ?", id, auth.TenantID(c)).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		product.Name = body.Name
		product.Type = ptype
		product.UnitID = body.UnitID
		product.CostPrice = body.CostPrice
		product.SalePrice = body.SalePrice
		product.Markup = body.Markup
		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update product")
		}
		return c.JSON(product)
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		var product models.Product
		if err := database.DB.Where("id = ? AND tenant_id = ?", id, auth.TenantID(c)).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete product")
		}
		return c.JSON(fiber.Map{"detail": "product removed"})
	}
}
