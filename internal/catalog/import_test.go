package catalog

import (
	"bytes"
	"testing"

	"comanda-backend/internal/models"
	"comanda-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1",
		&[]any{"name", "type", "unit", "cost_price", "sale_price", "opening_qty"}))
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportProductsCreatesRowsAndOpeningStock(t *testing.T) {
	db := testdb.Open(t)
	kg := models.Unit{TenantID: testTenant, Name: "kilogram", Abbreviation: "kg"}
	require.NoError(t, db.Create(&kg).Error)

	buf := buildWorkbook(t, [][]any{
		{"flour", "ingredient", "kg", "3.50", "", "25"},
		{"soda can", "merchandise", "", "2", "6", ""},
	})

	result, err := importProducts(db, testTenant, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)

	var flour models.Product
	require.NoError(t, db.Where("tenant_id = ? AND name = ?", testTenant, "flour").First(&flour).Error)
	assert.Equal(t, models.ProductIngredient, flour.Type)
	require.NotNil(t, flour.UnitID)
	assert.Equal(t, kg.ID, *flour.UnitID)
	require.NotNil(t, flour.CostPrice)
	assert.InDelta(t, 3.5, *flour.CostPrice, 1e-9)

	var move models.StockMove
	require.NoError(t, db.Where("tenant_id = ? AND product_id = ?", testTenant, flour.ID).First(&move).Error)
	assert.Equal(t, models.StockIn, move.Type)
	assert.InDelta(t, 25.0, move.Quantity, 1e-9)
	assert.Equal(t, "imported opening stock", move.Reason)

	// no opening qty, no move
	var soda models.Product
	require.NoError(t, db.Where("tenant_id = ? AND name = ?", testTenant, "soda can").First(&soda).Error)
	var count int64
	require.NoError(t, db.Model(&models.StockMove{}).Where("product_id = ?", soda.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestImportProductsSkipsDuplicatesAndBadRows(t *testing.T) {
	db := testdb.Open(t)
	existing := seedTestProduct(t, db, "flour", models.ProductIngredient)
	_ = existing

	buf := buildWorkbook(t, [][]any{
		{"flour", "ingredient", "", "", "", ""},
		{"mystery", "gadget", "", "", "", ""},
		{"oil", "ingredient", "l", "", "", ""},
		{"", "ingredient", "", "", "", ""},
		{"rice", "ingredient", "", "bad", "", ""},
	})

	result, err := importProducts(db, testTenant, buf)
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	assert.Equal(t, 5, result.Skipped)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "unknown product type")
	assert.Contains(t, result.Errors[1], "unknown unit")
	assert.Contains(t, result.Errors[2], "bad cost price")

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("tenant_id = ?", testTenant).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestImportProductsRejectsGarbage(t *testing.T) {
	db := testdb.Open(t)

	_, err := importProducts(db, testTenant, bytes.NewBufferString("definitely not a workbook"))
	require.Error(t, err)
}
