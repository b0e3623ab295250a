package orders

import (
	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/models"
)

// Consumption is one ingredient deduction produced by expanding a sold item.
type Consumption struct {
	ProductID uint
	UnitID    *uint
	Quantity  float64
}

// ExpandRecipe computes the raw-material consumption of selling qtySold units
// of product. Pure: it never touches the store and never checks whether the
// resulting deduction is covered by stock.
//
// Non-dish products and dishes without a recipe consume themselves, one entry
// of qtySold in the product's own unit. A dish with a recipe consumes each
// recipe item scaled by qtySold/yield.
func ExpandRecipe(product *models.Product, recipe *models.Recipe, qtySold float64) ([]Consumption, error) {
	if product.Type != models.ProductDish || recipe == nil {
		return []Consumption{{
			ProductID: product.ID,
			UnitID:    product.UnitID,
			Quantity:  qtySold,
		}}, nil
	}

	// yield_qty > 0 is enforced when the recipe is stored; a violation here
	// means the row was corrupted out of band.
	if recipe.YieldQty <= 0 {
		return nil, apperrors.DataIntegrity("recipe %d for product %d has non-positive yield", recipe.ID, product.ID)
	}

	out := make([]Consumption, 0, len(recipe.Items))
	for _, item := range recipe.Items {
		out = append(out, Consumption{
			ProductID: item.IngredientID,
			UnitID:    item.UnitID,
			Quantity:  (qtySold * item.Quantity) / recipe.YieldQty,
		})
	}
	return out, nil
}
