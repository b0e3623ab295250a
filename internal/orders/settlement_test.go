package orders

import (
	"sync"
	"testing"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/models"
	"comanda-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testTenant = "trattoria"

func seedProduct(t *testing.T, db *gorm.DB, name string, pType models.ProductType, salePrice float64) models.Product {
	t.Helper()
	p := models.Product{
		TenantID:  testTenant,
		Name:      name,
		Type:      pType,
		SalePrice: floatPtr(salePrice),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedRecipe(t *testing.T, db *gorm.DB, dishID uint, yieldQty float64, items map[uint]float64) {
	t.Helper()
	r := models.Recipe{TenantID: testTenant, ProductID: dishID, YieldQty: yieldQty}
	require.NoError(t, db.Create(&r).Error)
	for ingredientID, qty := range items {
		item := models.RecipeItem{
			TenantID:     testTenant,
			RecipeID:     r.ID,
			IngredientID: ingredientID,
			Quantity:     qty,
		}
		require.NoError(t, db.Create(&item).Error)
	}
}

func seedOrder(t *testing.T, db *gorm.DB, items []CreateItemInput) *models.Order {
	t.Helper()
	order, err := Create(db, testTenant, CreateOrderInput{Items: items})
	require.NoError(t, err)
	return order
}

func stockMoves(t *testing.T, db *gorm.DB, productID uint) []models.StockMove {
	t.Helper()
	var moves []models.StockMove
	require.NoError(t, db.Where("tenant_id = ? AND product_id = ?", testTenant, productID).
		Order("id").Find(&moves).Error)
	return moves
}

func TestSettleMarksPaidAndRecordsPayments(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 2}})

	settled, err := Settle(db, testTenant, order.ID, []PaymentInput{
		{Method: "cash", Amount: 30},
		{Method: "pix", Amount: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderPaid, settled.Status)
	require.NotNil(t, settled.ClosedAt)
	require.Len(t, settled.Payments, 2)
	for _, p := range settled.Payments {
		assert.Equal(t, models.PaymentCompleted, p.Status)
	}
}

func TestSettleDeductsIngredientsThroughRecipe(t *testing.T) {
	db := testdb.Open(t)
	flour := seedProduct(t, db, "flour", models.ProductIngredient, 0)
	sauce := seedProduct(t, db, "tomato sauce", models.ProductIngredient, 0)
	pizza := seedProduct(t, db, "pizza margherita", models.ProductDish, 40)
	seedRecipe(t, db, pizza.ID, 4, map[uint]float64{flour.ID: 2, sauce.ID: 1})

	order := seedOrder(t, db, []CreateItemInput{{ProductID: pizza.ID, Quantity: 2}})
	_, err := Settle(db, testTenant, order.ID, []PaymentInput{{Method: "cash", Amount: 80}})
	require.NoError(t, err)

	flourMoves := stockMoves(t, db, flour.ID)
	require.Len(t, flourMoves, 1)
	assert.Equal(t, models.StockOut, flourMoves[0].Type)
	assert.InDelta(t, 1.0, flourMoves[0].Quantity, 1e-9)
	assert.Equal(t, "sale of dish pizza margherita", flourMoves[0].Reason)

	sauceMoves := stockMoves(t, db, sauce.ID)
	require.Len(t, sauceMoves, 1)
	assert.InDelta(t, 0.5, sauceMoves[0].Quantity, 1e-9)

	// the dish itself is never deducted when it has a recipe
	assert.Empty(t, stockMoves(t, db, pizza.ID))
}

func TestSettleNonDishDeductsItself(t *testing.T) {
	db := testdb.Open(t)
	soda := seedProduct(t, db, "soda can", models.ProductMerchandise, 6)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: soda.ID, Quantity: 3}})

	_, err := Settle(db, testTenant, order.ID, []PaymentInput{{Method: "card_debit", Amount: 18}})
	require.NoError(t, err)

	moves := stockMoves(t, db, soda.ID)
	require.Len(t, moves, 1)
	assert.Equal(t, models.StockOut, moves[0].Type)
	assert.InDelta(t, 3.0, moves[0].Quantity, 1e-9)
	assert.Equal(t, "sale of product soda can", moves[0].Reason)
}

func TestSettleAmountMismatchLeavesEverythingUntouched(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 2}})

	_, err := Settle(db, testTenant, order.ID, []PaymentInput{{Method: "cash", Amount: 49}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	reloaded, err := Get(db, testTenant, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderOpen, reloaded.Status)
	assert.Nil(t, reloaded.ClosedAt)
	assert.Empty(t, reloaded.Payments)
	assert.Empty(t, stockMoves(t, db, burger.ID))
}

func TestSettleWithinTolerance(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 2}})

	_, err := Settle(db, testTenant, order.ID, []PaymentInput{{Method: "cash", Amount: 50.005}})
	require.NoError(t, err)
}

func TestSettleTwiceFails(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 1}})

	_, err := Settle(db, testTenant, order.ID, []PaymentInput{{Method: "cash", Amount: 25}})
	require.NoError(t, err)

	_, err = Settle(db, testTenant, order.ID, []PaymentInput{{Method: "cash", Amount: 25}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))

	// exactly one set of payments and one deduction survived
	var payments []models.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&payments).Error)
	assert.Len(t, payments, 1)
	assert.Len(t, stockMoves(t, db, burger.ID), 1)
}

func TestSettleConcurrentAttemptsSettleOnce(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 1}})

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Settle(db, testTenant, order.ID, []PaymentInput{{Method: "cash", Amount: 25}})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	settled := 0
	for err := range errs {
		if err == nil {
			settled++
			continue
		}
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	}
	assert.Equal(t, 1, settled)

	reloaded, err := Get(db, testTenant, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, reloaded.Status)
	assert.Len(t, reloaded.Payments, 1)
	assert.Len(t, stockMoves(t, db, burger.ID), 1)
}

func TestSettleRejectsUnknownPaymentMethod(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 1}})

	_, err := Settle(db, testTenant, order.ID, []PaymentInput{{Method: "check", Amount: 25}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestSettleRejectsEmptyPayments(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 1}})

	_, err := Settle(db, testTenant, order.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestSettleUnknownOrder(t *testing.T) {
	db := testdb.Open(t)

	_, err := Settle(db, testTenant, 999, []PaymentInput{{Method: "cash", Amount: 10}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSettleIgnoresOtherTenantsOrders(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 1}})

	_, err := Settle(db, "bistro", order.ID, []PaymentInput{{Method: "cash", Amount: 25}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSettleSkipsDeductionForRemovedProduct(t *testing.T) {
	db := testdb.Open(t)
	special := seedProduct(t, db, "daily special", models.ProductMerchandise, 30)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: special.ID, Quantity: 1}})

	require.NoError(t, db.Delete(&models.Product{}, special.ID).Error)

	settled, err := Settle(db, testTenant, order.ID, []PaymentInput{{Method: "cash", Amount: 30}})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, settled.Status)
	assert.Empty(t, stockMoves(t, db, special.ID))
}
