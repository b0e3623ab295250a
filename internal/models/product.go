package models

import "time"

type ProductType string

const (
	ProductIngredient  ProductType = "ingredient"
	ProductMerchandise ProductType = "merchandise"
	ProductDish        ProductType = "dish"
)

func ParseProductType(s string) (ProductType, bool) {
	switch ProductType(s) {
	case ProductIngredient, ProductMerchandise, ProductDish:
		return ProductType(s), true
	}
	return "", false
}

type Unit struct {
	ID           uint   `gorm:"primaryKey"`
	TenantID     string `gorm:"size:64;index;not null"`
	Name         string `gorm:"size:50;not null"`
	Abbreviation string `gorm:"size:10;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Product struct {
	ID        uint        `gorm:"primaryKey"`
	TenantID  string      `gorm:"size:64;index;not null"`
	Name      string      `gorm:"size:100;not null"`
	Type      ProductType `gorm:"size:20;not null"`
	UnitID    *uint       `gorm:"index"`
	Unit      *Unit
	CostPrice *float64
	SalePrice *float64
	Markup    *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recipe is the bill of materials of one dish product. yield_qty is the
// number of servings one recipe execution produces and must be > 0.
type Recipe struct {
	ID          uint   `gorm:"primaryKey"`
	TenantID    string `gorm:"size:64;index;not null"`
	ProductID   uint   `gorm:"index;not null"`
	YieldQty    float64 `gorm:"not null;default:1"`
	YieldUnitID *uint
	Items       []RecipeItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RecipeItem struct {
	ID           uint   `gorm:"primaryKey"`
	TenantID     string `gorm:"size:64;index;not null"`
	RecipeID     uint   `gorm:"index;not null"`
	IngredientID uint   `gorm:"index;not null"`
	Quantity     float64 `gorm:"not null"`
	UnitID       *uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
