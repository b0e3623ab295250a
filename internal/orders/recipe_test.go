package orders

import (
	"testing"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint        { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestExpandRecipeIngredientConsumesItself(t *testing.T) {
	product := &models.Product{ID: 7, Type: models.ProductIngredient, UnitID: uintPtr(3)}

	out, err := ExpandRecipe(product, nil, 2.5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint(7), out[0].ProductID)
	assert.Equal(t, uint(3), *out[0].UnitID)
	assert.Equal(t, 2.5, out[0].Quantity)
}

func TestExpandRecipeDishWithoutRecipeConsumesItself(t *testing.T) {
	product := &models.Product{ID: 4, Type: models.ProductDish}

	out, err := ExpandRecipe(product, nil, 3)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint(4), out[0].ProductID)
	assert.Equal(t, 3.0, out[0].Quantity)
}

func TestExpandRecipeScalesByYield(t *testing.T) {
	product := &models.Product{ID: 1, Type: models.ProductDish}
	recipe := &models.Recipe{
		ID:        10,
		ProductID: 1,
		YieldQty:  4,
		Items: []models.RecipeItem{
			{IngredientID: 20, Quantity: 2, UnitID: uintPtr(1)},
			{IngredientID: 21, Quantity: 0.5},
		},
	}

	// selling 2 servings of a 4-serving recipe consumes half of each item
	out, err := ExpandRecipe(product, recipe, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint(20), out[0].ProductID)
	assert.InDelta(t, 1.0, out[0].Quantity, 1e-9)
	assert.Equal(t, uint(21), out[1].ProductID)
	assert.InDelta(t, 0.25, out[1].Quantity, 1e-9)
}

func TestExpandRecipeRejectsNonPositiveYield(t *testing.T) {
	product := &models.Product{ID: 1, Type: models.ProductDish}
	recipe := &models.Recipe{ID: 10, ProductID: 1, YieldQty: 0,
		Items: []models.RecipeItem{{IngredientID: 20, Quantity: 1}}}

	_, err := ExpandRecipe(product, recipe, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDataIntegrity, apperrors.KindOf(err))
}

func TestExpandRecipeEmptyRecipeConsumesNothing(t *testing.T) {
	product := &models.Product{ID: 1, Type: models.ProductDish}
	recipe := &models.Recipe{ID: 10, ProductID: 1, YieldQty: 2}

	out, err := ExpandRecipe(product, recipe, 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}
