package purchasing

import (
	"testing"
	"time"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/inventory"
	"comanda-backend/internal/models"
	"comanda-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testTenant = "trattoria"

func seedSupplier(t *testing.T, db *gorm.DB) models.Supplier {
	t.Helper()
	s := models.Supplier{TenantID: testTenant, Name: "Hortifruti Central"}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedIngredient(t *testing.T, db *gorm.DB, name string) models.Product {
	t.Helper()
	p := models.Product{TenantID: testTenant, Name: name, Type: models.ProductIngredient}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestCreateOrderUnknownSupplier(t *testing.T) {
	db := testdb.Open(t)

	_, err := CreateOrder(db, testTenant, PurchaseOrderInput{SupplierID: 999})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestApproveOnlyDraft(t *testing.T) {
	db := testdb.Open(t)
	supplier := seedSupplier(t, db)

	po, err := CreateOrder(db, testTenant, PurchaseOrderInput{SupplierID: supplier.ID})
	require.NoError(t, err)

	approved, err := Approve(db, testTenant, po.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	_, err = Approve(db, testTenant, po.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
}

func TestReceiveCreatesMovesAndPayable(t *testing.T) {
	db := testdb.Open(t)
	supplier := seedSupplier(t, db)
	flour := seedIngredient(t, db, "flour")
	oil := seedIngredient(t, db, "olive oil")

	po, err := CreateOrder(db, testTenant, PurchaseOrderInput{
		SupplierID: supplier.ID,
		Items: []PurchaseItemInput{
			{ProductID: flour.ID, Quantity: 25, UnitPrice: 3},
			{ProductID: oil.ID, Quantity: 10, UnitPrice: 12},
		},
	})
	require.NoError(t, err)
	_, err = Approve(db, testTenant, po.ID)
	require.NoError(t, err)

	received, err := Receive(db, testTenant, po.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	flourBalance, err := inventory.Balance(db, testTenant, flour.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, flourBalance, 1e-9)

	oilBalance, err := inventory.Balance(db, testTenant, oil.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, oilBalance, 1e-9)

	var payable models.Payable
	require.NoError(t, db.Where("tenant_id = ? AND purchase_order_id = ?", testTenant, po.ID).
		First(&payable).Error)
	assert.Equal(t, models.PayableOpen, payable.Status)
	assert.InDelta(t, 195.0, payable.Amount, 1e-9)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), payable.DueDate, time.Minute)
}

func TestReceiveTwice(t *testing.T) {
	db := testdb.Open(t)
	supplier := seedSupplier(t, db)

	po, err := CreateOrder(db, testTenant, PurchaseOrderInput{SupplierID: supplier.ID})
	require.NoError(t, err)
	_, err = Receive(db, testTenant, po.ID)
	require.NoError(t, err)

	_, err = Receive(db, testTenant, po.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
}

func TestSettlePayable(t *testing.T) {
	db := testdb.Open(t)
	payable := models.Payable{TenantID: testTenant, DueDate: time.Now().UTC(), Amount: 100, Status: models.PayableOpen}
	require.NoError(t, db.Create(&payable).Error)

	settled, err := SettlePayable(db, testTenant, payable.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayablePaid, settled.Status)

	_, err = SettlePayable(db, testTenant, payable.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
}

func TestCancelPayableGuards(t *testing.T) {
	db := testdb.Open(t)
	payable := models.Payable{TenantID: testTenant, DueDate: time.Now().UTC(), Amount: 100, Status: models.PayableOpen}
	require.NoError(t, db.Create(&payable).Error)

	canceled, err := CancelPayable(db, testTenant, payable.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayableCanceled, canceled.Status)

	_, err = CancelPayable(db, testTenant, payable.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))

	paid := models.Payable{TenantID: testTenant, DueDate: time.Now().UTC(), Amount: 50, Status: models.PayablePaid}
	require.NoError(t, db.Create(&paid).Error)
	_, err = CancelPayable(db, testTenant, paid.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
}
