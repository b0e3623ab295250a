package orders

import (
	"testing"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/models"
	"comanda-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComputesTotalFromCatalog(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	fries := seedProduct(t, db, "fries", models.ProductMerchandise, 10)

	order, err := Create(db, testTenant, CreateOrderInput{Items: []CreateItemInput{
		{ProductID: burger.ID, Quantity: 2},
		{ProductID: fries.ID, Quantity: 1},
	}})
	require.NoError(t, err)

	assert.Equal(t, models.OrderOpen, order.Status)
	require.NotNil(t, order.Total)
	assert.InDelta(t, 60.0, *order.Total, 1e-9)
	require.Len(t, order.Items, 2)
}

func TestCreateSnapshotsUnitPrice(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	order := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 2}})

	// a later catalog price change must not touch the open order
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", burger.ID).Update("sale_price", 99).Error)

	reloaded, err := Get(db, testTenant, order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, *reloaded.Total, 1e-9)
	assert.InDelta(t, 25.0, reloaded.Items[0].UnitPrice, 1e-9)
}

func TestCreateProductWithoutSalePrice(t *testing.T) {
	db := testdb.Open(t)
	water := models.Product{TenantID: testTenant, Name: "tap water", Type: models.ProductMerchandise}
	require.NoError(t, db.Create(&water).Error)

	order, err := Create(db, testTenant, CreateOrderInput{Items: []CreateItemInput{
		{ProductID: water.ID, Quantity: 1},
	}})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, *order.Total, 1e-9)
}

func TestCreateRejectsEmptyItems(t *testing.T) {
	db := testdb.Open(t)

	_, err := Create(db, testTenant, CreateOrderInput{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)

	_, err := Create(db, testTenant, CreateOrderInput{Items: []CreateItemInput{
		{ProductID: burger.ID, Quantity: 0},
	}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestCreateUnknownProductRollsBack(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)

	_, err := Create(db, testTenant, CreateOrderInput{Items: []CreateItemInput{
		{ProductID: burger.ID, Quantity: 1},
		{ProductID: 999, Quantity: 1},
	}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("tenant_id = ?", testTenant).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListFiltersByStatus(t *testing.T) {
	db := testdb.Open(t)
	burger := seedProduct(t, db, "burger", models.ProductMerchandise, 25)
	open := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 1}})
	paid := seedOrder(t, db, []CreateItemInput{{ProductID: burger.ID, Quantity: 1}})
	_, err := Settle(db, testTenant, paid.ID, []PaymentInput{{Method: "cash", Amount: 25}})
	require.NoError(t, err)

	status := models.OrderOpen
	out, err := List(db, testTenant, &status, 0, 50)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, open.ID, out[0].ID)

	all, err := List(db, testTenant, nil, 0, 50)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
