package inventory

import (
	"testing"

	"comanda-backend/internal/models"
	"comanda-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testTenant = "trattoria"

func floatPtr(v float64) *float64 { return &v }

func seedIngredient(t *testing.T, db *gorm.DB, name string) models.Product {
	t.Helper()
	p := models.Product{TenantID: testTenant, Name: name, Type: models.ProductIngredient}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedMove(t *testing.T, db *gorm.DB, productID uint, moveType models.StockMoveType, qty float64) {
	t.Helper()
	move := models.StockMove{TenantID: testTenant, ProductID: productID, Type: moveType, Quantity: qty}
	require.NoError(t, db.Create(&move).Error)
}

func seedRule(t *testing.T, db *gorm.DB, productID uint, reorderPoint float64, parLevel *float64) {
	t.Helper()
	rule := models.InventoryRule{
		TenantID:     testTenant,
		ProductID:    productID,
		ReorderPoint: reorderPoint,
		ParLevel:     parLevel,
	}
	require.NoError(t, db.Create(&rule).Error)
}

func TestBalanceIgnoresTransfers(t *testing.T) {
	db := testdb.Open(t)
	flour := seedIngredient(t, db, "flour")

	seedMove(t, db, flour.ID, models.StockIn, 10)
	seedMove(t, db, flour.ID, models.StockOut, 4)
	seedMove(t, db, flour.ID, models.StockTransfer, 5)
	seedMove(t, db, flour.ID, models.StockAdjust, 1)

	balance, err := Balance(db, testTenant, flour.ID)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, balance, 1e-9)
}

func TestBalanceCanGoNegative(t *testing.T) {
	db := testdb.Open(t)
	flour := seedIngredient(t, db, "flour")

	seedMove(t, db, flour.ID, models.StockOut, 3)

	balance, err := Balance(db, testTenant, flour.ID)
	require.NoError(t, err)
	assert.InDelta(t, -3.0, balance, 1e-9)
}

func TestBuildAlertsClassification(t *testing.T) {
	db := testdb.Open(t)

	// stock 2, reorder 5: critical
	flour := seedIngredient(t, db, "flour")
	seedMove(t, db, flour.ID, models.StockIn, 2)
	seedRule(t, db, flour.ID, 5, nil)

	// stock 8, reorder 5, par 10: warning
	sugar := seedIngredient(t, db, "sugar")
	seedMove(t, db, sugar.ID, models.StockIn, 8)
	seedRule(t, db, sugar.ID, 5, floatPtr(10))

	// stock 50, reorder 5, par 10: healthy, omitted
	salt := seedIngredient(t, db, "salt")
	seedMove(t, db, salt.ID, models.StockIn, 50)
	seedRule(t, db, salt.ID, 5, floatPtr(10))

	report, err := BuildAlerts(db, testTenant, 30, 1.0)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 2)

	assert.Equal(t, flour.ID, report.Alerts[0].ProductID)
	assert.Equal(t, AlertCritical, report.Alerts[0].Status)
	assert.Equal(t, sugar.ID, report.Alerts[1].ProductID)
	assert.Equal(t, AlertWarning, report.Alerts[1].Status)
}

func TestBuildAlertsWarningFallsBackToReorderPoint(t *testing.T) {
	db := testdb.Open(t)

	// no par level: warning band comes from reorder_point * multiplier
	flour := seedIngredient(t, db, "flour")
	seedMove(t, db, flour.ID, models.StockIn, 7)
	seedRule(t, db, flour.ID, 5, nil)

	report, err := BuildAlerts(db, testTenant, 30, 1.5)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, AlertWarning, report.Alerts[0].Status)

	// multiplier 1.0 shrinks the band and the product drops out
	report, err = BuildAlerts(db, testTenant, 30, 1.0)
	require.NoError(t, err)
	assert.Empty(t, report.Alerts)
}

func TestBuildAlertsSortsCriticalFirstThenByStock(t *testing.T) {
	db := testdb.Open(t)

	lowWarning := seedIngredient(t, db, "oil")
	seedMove(t, db, lowWarning.ID, models.StockIn, 8)
	seedRule(t, db, lowWarning.ID, 5, floatPtr(10))

	worstCritical := seedIngredient(t, db, "yeast")
	seedMove(t, db, worstCritical.ID, models.StockIn, 1)
	seedRule(t, db, worstCritical.ID, 5, nil)

	mildCritical := seedIngredient(t, db, "butter")
	seedMove(t, db, mildCritical.ID, models.StockIn, 4)
	seedRule(t, db, mildCritical.ID, 5, nil)

	report, err := BuildAlerts(db, testTenant, 30, 1.0)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 3)
	assert.Equal(t, worstCritical.ID, report.Alerts[0].ProductID)
	assert.Equal(t, mildCritical.ID, report.Alerts[1].ProductID)
	assert.Equal(t, lowWarning.ID, report.Alerts[2].ProductID)
}

func TestBuildAlertsReportsConsumptionAndCoverage(t *testing.T) {
	db := testdb.Open(t)
	flour := seedIngredient(t, db, "flour")

	seedMove(t, db, flour.ID, models.StockIn, 14)
	seedMove(t, db, flour.ID, models.StockOut, 5)
	seedMove(t, db, flour.ID, models.StockOut, 5)
	seedRule(t, db, flour.ID, 10, nil)

	report, err := BuildAlerts(db, testTenant, 10, 1.0)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 1)

	alert := report.Alerts[0]
	assert.InDelta(t, 4.0, alert.CurrentStock, 1e-9)
	require.NotNil(t, alert.AvgDailyConsumption)
	assert.InDelta(t, 1.0, *alert.AvgDailyConsumption, 1e-9)
	require.NotNil(t, alert.CoverageDays)
	assert.InDelta(t, 4.0, *alert.CoverageDays, 1e-9)
}

func TestBuildAlertsWithoutRulesIsEmpty(t *testing.T) {
	db := testdb.Open(t)
	flour := seedIngredient(t, db, "flour")
	seedMove(t, db, flour.ID, models.StockOut, 100)

	report, err := BuildAlerts(db, testTenant, 30, 1.3)
	require.NoError(t, err)
	assert.Empty(t, report.Alerts)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestBuildAlertsScopedToTenant(t *testing.T) {
	db := testdb.Open(t)
	flour := seedIngredient(t, db, "flour")
	seedRule(t, db, flour.ID, 5, nil)

	report, err := BuildAlerts(db, "bistro", 30, 1.0)
	require.NoError(t, err)
	assert.Empty(t, report.Alerts)
}
