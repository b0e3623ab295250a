package catalog

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"comanda-backend/internal/auth"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// POST /api/products/import
//
// Accepts an xlsx upload with one product per row:
// name | type | unit abbreviation | cost price | sale price | opening qty
// The first row is treated as a header. Rows whose name already exists are
// skipped, not updated.
func ImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file upload is required")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not open uploaded file")
		}
		defer file.Close()

		result, err := importProducts(database.DB, auth.TenantID(c), file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(result)
	}
}

func importProducts(db *gorm.DB, tenantID string, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("not a valid xlsx file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q", sheets[0])
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rowNum := i + 1

		name := strings.TrimSpace(cell(row, 0))
		if name == "" {
			result.Skipped++
			continue
		}

		pType, ok := models.ParseProductType(strings.ToLower(strings.TrimSpace(cell(row, 1))))
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: unknown product type %q", rowNum, cell(row, 1)))
			result.Skipped++
			continue
		}

		var existing models.Product
		err := db.Where("tenant_id = ? AND name = ?", tenantID, name).First(&existing).Error
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		var unitID *uint
		if abbr := strings.TrimSpace(cell(row, 2)); abbr != "" {
			var unit models.Unit
			err := db.Where("tenant_id = ? AND abbreviation = ?", tenantID, abbr).First(&unit).Error
			switch {
			case err == nil:
				unitID = &unit.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: unknown unit %q", rowNum, abbr))
				result.Skipped++
				continue
			default:
				return nil, err
			}
		}

		costPrice, err := parsePrice(cell(row, 3))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad cost price %q", rowNum, cell(row, 3)))
			result.Skipped++
			continue
		}
		salePrice, err := parsePrice(cell(row, 4))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad sale price %q", rowNum, cell(row, 4)))
			result.Skipped++
			continue
		}

		openingQty := 0.0
		if raw := strings.TrimSpace(cell(row, 5)); raw != "" {
			openingQty, err = strconv.ParseFloat(raw, 64)
			if err != nil || openingQty < 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad opening qty %q", rowNum, raw))
				result.Skipped++
				continue
			}
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			product := models.Product{
				TenantID:  tenantID,
				Name:      name,
				Type:      pType,
				UnitID:    unitID,
				CostPrice: costPrice,
				SalePrice: salePrice,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			if openingQty > 0 {
				move := models.StockMove{
					TenantID:  tenantID,
					ProductID: product.ID,
					Quantity:  openingQty,
					UnitID:    unitID,
					Type:      models.StockIn,
					Reason:    "imported opening stock",
				}
				if err := tx.Create(&move).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			result.Skipped++
			continue
		}
		result.Imported++
	}
	return result, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid price")
	}
	return &v, nil
}
