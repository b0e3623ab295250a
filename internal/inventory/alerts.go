package inventory

import (
	"sort"
	"time"

	"comanda-backend/internal/models"

	"gorm.io/gorm"
)

type AlertStatus string

const (
	AlertCritical AlertStatus = "critical"
	AlertWarning  AlertStatus = "warning"
)

type Alert struct {
	ProductID           uint        `json:"product_id"`
	ProductName         string      `json:"product_name"`
	Unit                string      `json:"unit,omitempty"`
	CurrentStock        float64     `json:"current_stock"`
	ReorderPoint        float64     `json:"reorder_point"`
	ParLevel            *float64    `json:"par_level,omitempty"`
	AvgDailyConsumption *float64    `json:"avg_daily_consumption,omitempty"`
	CoverageDays        *float64    `json:"coverage_days,omitempty"`
	Status              AlertStatus `json:"status"`
}

type AlertReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Alerts      []Alert   `json:"alerts"`
}

// balanceExpr folds the move log into a signed balance. Transfer moves are a
// location change, not a net change, and contribute zero.
const balanceExpr = `COALESCE(SUM(CASE
	WHEN type = 'in' THEN quantity
	WHEN type = 'out' THEN -quantity
	WHEN type = 'adjust' THEN quantity
	ELSE 0 END), 0)`

type productBalance struct {
	ProductID uint
	Balance   float64
}

type productConsumption struct {
	ProductID uint
	Consumed  float64
}

type ruleRow struct {
	ProductID    uint
	ReorderPoint float64
	ParLevel     *float64
	Name         string
	Abbreviation *string
}

// BuildAlerts projects stock coverage for every product that has an inventory
// rule. Products above both thresholds are omitted; the rest come back sorted
// critical first, then by ascending current stock, so the most urgent
// shortages surface on top.
func BuildAlerts(db *gorm.DB, tenantID string, historyDays int, warningMultiplier float64) (*AlertReport, error) {
	var balances []productBalance
	err := db.Model(&models.StockMove{}).
		Select("product_id, " + balanceExpr + " AS balance").
		Where("tenant_id = ?", tenantID).
		Group("product_id").
		Scan(&balances).Error
	if err != nil {
		return nil, err
	}
	balanceByProduct := make(map[uint]float64, len(balances))
	for _, b := range balances {
		balanceByProduct[b.ProductID] = b.Balance
	}

	historyStart := time.Now().UTC().AddDate(0, 0, -historyDays)
	var consumptions []productConsumption
	err = db.Model(&models.StockMove{}).
		Select("product_id, COALESCE(SUM(quantity), 0) AS consumed").
		Where("tenant_id = ? AND type = ? AND created_at >= ?", tenantID, models.StockOut, historyStart).
		Group("product_id").
		Scan(&consumptions).Error
	if err != nil {
		return nil, err
	}
	avgConsumption := make(map[uint]float64, len(consumptions))
	for _, c := range consumptions {
		if historyDays > 0 {
			avgConsumption[c.ProductID] = c.Consumed / float64(historyDays)
		}
	}

	var rules []ruleRow
	err = db.Table("inventory_rules").
		Select("inventory_rules.product_id, inventory_rules.reorder_point, inventory_rules.par_level, products.name, units.abbreviation").
		Joins("JOIN products ON products.id = inventory_rules.product_id AND products.tenant_id = inventory_rules.tenant_id").
		Joins("LEFT JOIN units ON units.id = products.unit_id").
		Where("inventory_rules.tenant_id = ?", tenantID).
		Scan(&rules).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0)
	for _, rule := range rules {
		currentStock := balanceByProduct[rule.ProductID]

		warningThreshold := rule.ReorderPoint
		if rule.ParLevel != nil {
			warningThreshold = *rule.ParLevel
		}
		warningThreshold *= warningMultiplier

		var status AlertStatus
		switch {
		case currentStock <= rule.ReorderPoint:
			status = AlertCritical
		case currentStock <= warningThreshold:
			status = AlertWarning
		default:
			continue
		}

		alert := Alert{
			ProductID:    rule.ProductID,
			ProductName:  rule.Name,
			CurrentStock: currentStock,
			ReorderPoint: rule.ReorderPoint,
			ParLevel:     rule.ParLevel,
			Status:       status,
		}
		if rule.Abbreviation != nil {
			alert.Unit = *rule.Abbreviation
		}
		if avg, ok := avgConsumption[rule.ProductID]; ok && avg > 0 {
			avgCopy := avg
			coverage := currentStock / avg
			alert.AvgDailyConsumption = &avgCopy
			alert.CoverageDays = &coverage
		}
		alerts = append(alerts, alert)
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Status != alerts[j].Status {
			return alerts[i].Status == AlertCritical
		}
		return alerts[i].CurrentStock < alerts[j].CurrentStock
	})

	return &AlertReport{GeneratedAt: time.Now().UTC(), Alerts: alerts}, nil
}

// Balance returns the current signed balance of one product.
func Balance(db *gorm.DB, tenantID string, productID uint) (float64, error) {
	var out struct{ Balance float64 }
	err := db.Model(&models.StockMove{}).
		Select(balanceExpr + " AS balance").
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Scan(&out).Error
	if err != nil {
		return 0, err
	}
	return out.Balance, nil
}
