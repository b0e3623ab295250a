package catalog

import (
	"errors"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/auth"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RecipeItemRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	UnitID       *uint   `json:"unit_id"`
}

type RecipeRequest struct {
	YieldQty    float64             `json:"yield_qty"`
	YieldUnitID *uint               `json:"yield_unit_id"`
	Items       []RecipeItemRequest `json:"items"`
}

// GET /api/products/:id/recipe
func GetRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		var recipe models.Recipe
		err = database.DB.Preload("Items").
			Where("product_id = ? AND tenant_id = ?", id, auth.TenantID(c)).
			First(&recipe).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "recipe not found")
		}
		return c.JSON(recipe)
	}
}

// POST /api/products/:id/recipe
//
// Creates or fully replaces the recipe of a dish. This is the creation-time
// home of the invariants the settlement path relies on: positive yield and
// ingredient-typed components.
func UpsertRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		var body RecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		tenantID := auth.TenantID(c)
		recipe, err := upsertRecipe(database.DB, tenantID, id, body)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(recipe)
	}
}

func upsertRecipe(db *gorm.DB, tenantID string, productID uint, in RecipeRequest) (*models.Recipe, error) {
	if in.YieldQty <= 0 {
		return nil, apperrors.InvalidInput("yield_qty must be positive")
	}

	var product models.Product
	err := db.Where("id = ? AND tenant_id = ?", productID, tenantID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product %d not found", productID)
	}
	if err != nil {
		return nil, err
	}
	if product.Type != models.ProductDish {
		return nil, apperrors.InvalidInput("recipes are only allowed on dish products")
	}

	for _, item := range in.Items {
		var ingredient models.Product
		err := db.Where("id = ? AND tenant_id = ?", item.IngredientID, tenantID).First(&ingredient).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("ingredient %d not found", item.IngredientID)
		}
		if err != nil {
			return nil, err
		}
		if ingredient.Type == models.ProductDish {
			return nil, apperrors.InvalidInput("ingredient %d must be an ingredient or merchandise product", item.IngredientID)
		}
		if item.Quantity <= 0 {
			return nil, apperrors.InvalidInput("recipe item quantity must be positive")
		}
	}

	var out *models.Recipe
	err = db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		err := tx.Where("product_id = ? AND tenant_id = ?", productID, tenantID).First(&recipe).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			recipe = models.Recipe{TenantID: tenantID, ProductID: productID}
		case err != nil:
			return err
		default:
			if err := tx.Where("recipe_id = ? AND tenant_id = ?", recipe.ID, tenantID).
				Delete(&models.RecipeItem{}).Error; err != nil {
				return err
			}
		}

		recipe.YieldQty = in.YieldQty
		recipe.YieldUnitID = in.YieldUnitID
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		for _, item := range in.Items {
			recipeItem := models.RecipeItem{
				TenantID:     tenantID,
				RecipeID:     recipe.ID,
				IngredientID: item.IngredientID,
				Quantity:     item.Quantity,
				UnitID:       item.UnitID,
			}
			if err := tx.Create(&recipeItem).Error; err != nil {
				return err
			}
		}

		var full models.Recipe
		if err := tx.Preload("Items").First(&full, recipe.ID).Error; err != nil {
			return err
		}
		out = &full
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
