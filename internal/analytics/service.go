package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"comanda-backend/internal/models"
	"comanda-backend/internal/orders"

	"gorm.io/gorm"
)

type PaymentBreakdownItem struct {
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type TopProduct struct {
	ProductID    uint    `json:"product_id"`
	Name         string  `json:"name"`
	QuantitySold float64 `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

type DailyOverview struct {
	Date             string                 `json:"date"`
	GeneratedAt      time.Time              `json:"generated_at"`
	TotalOrders      int                    `json:"total_orders"`
	TotalRevenue     float64                `json:"total_revenue"`
	AverageTicket    float64                `json:"average_ticket"`
	CustomersServed  int                    `json:"customers_served"`
	PaymentBreakdown []PaymentBreakdownItem `json:"payment_breakdown"`
	TopProducts      []TopProduct           `json:"top_products"`
	SoldProducts     []TopProduct           `json:"sold_products"`
}

// BuildDailyOverview summarizes one day of paid orders: revenue, average
// ticket, distinct customers, payment mix and the best sellers.
func BuildDailyOverview(db *gorm.DB, tenantID string, target time.Time, topLimit int) (*DailyOverview, error) {
	dayStart := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var paidOrders []models.Order
	err := db.Where("tenant_id = ? AND status = ? AND closed_at >= ? AND closed_at < ?",
		tenantID, models.OrderPaid, dayStart, dayEnd).
		Find(&paidOrders).Error
	if err != nil {
		return nil, err
	}

	totalRevenue := 0.0
	customers := map[uint]struct{}{}
	for _, o := range paidOrders {
		if o.Total != nil {
			totalRevenue += *o.Total
		}
		if o.CustomerID != nil {
			customers[*o.CustomerID] = struct{}{}
		}
	}
	averageTicket := 0.0
	if len(paidOrders) > 0 {
		averageTicket = totalRevenue / float64(len(paidOrders))
	}

	breakdown, err := BuildPaymentBreakdown(db, tenantID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	soldProducts, err := topProductRows(db, tenantID, dayStart, dayEnd, 0)
	if err != nil {
		return nil, err
	}
	topProducts := soldProducts
	if topLimit > 0 && len(soldProducts) > topLimit {
		topProducts = soldProducts[:topLimit]
	}

	return &DailyOverview{
		Date:             dayStart.Format("2006-01-02"),
		GeneratedAt:      time.Now().UTC(),
		TotalOrders:      len(paidOrders),
		TotalRevenue:     totalRevenue,
		AverageTicket:    averageTicket,
		CustomersServed:  len(customers),
		PaymentBreakdown: breakdown,
		TopProducts:      topProducts,
		SoldProducts:     soldProducts,
	}, nil
}

// BuildPaymentBreakdown sums completed payments per method over [start, end)
// with each method's share of the total, largest first.
func BuildPaymentBreakdown(db *gorm.DB, tenantID string, start, end time.Time) ([]PaymentBreakdownItem, error) {
	type row struct {
		Method string
		Amount float64
	}
	var rows []row
	err := db.Model(&models.Payment{}).
		Select("method, COALESCE(SUM(amount), 0) AS amount").
		Where("tenant_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			tenantID, models.PaymentCompleted, start, end).
		Group("method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, r := range rows {
		total += r.Amount
	}
	out := make([]PaymentBreakdownItem, 0, len(rows))
	for _, r := range rows {
		item := PaymentBreakdownItem{Method: r.Method, Amount: r.Amount}
		if total > 0 {
			item.Percentage = r.Amount / total * 100
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out, nil
}

// BuildTopProducts ranks products by revenue over [start, end).
func BuildTopProducts(db *gorm.DB, tenantID string, start, end time.Time, limit int) ([]TopProduct, error) {
	return topProductRows(db, tenantID, start, end, limit)
}

func topProductRows(db *gorm.DB, tenantID string, start, end time.Time, limit int) ([]TopProduct, error) {
	query := db.Table("order_items").
		Select("order_items.product_id, products.name, SUM(order_items.quantity) AS quantity_sold, SUM(order_items.quantity * order_items.unit_price) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.tenant_id = ? AND orders.status = ? AND orders.closed_at >= ? AND orders.closed_at < ?",
			tenantID, models.OrderPaid, start, end).
		Group("order_items.product_id, products.name").
		Order("revenue DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var out []TopProduct
	if err := query.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type PeriodEntry struct {
	Label         string    `json:"label"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	TotalOrders   int       `json:"total_orders"`
	TotalRevenue  float64   `json:"total_revenue"`
	AverageTicket float64   `json:"average_ticket"`
}

type PeriodicReport struct {
	Granularity string        `json:"granularity"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Entries     []PeriodEntry `json:"entries"`
}

func periodBoundaries(target time.Time, granularity string) (time.Time, time.Time, string) {
	day := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	switch granularity {
	case "daily":
		return day, day, day.Format("2006-01-02")
	case "monthly":
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		return start, end, start.Format("2006-01")
	default: // weekly, ISO weeks starting Monday
		weekday := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -weekday)
		end := start.AddDate(0, 0, 6)
		isoYear, isoWeek := day.ISOWeek()
		return start, end, fmt.Sprintf("Week %d/%d", isoWeek, isoYear)
	}
}

// BuildPeriodicReport buckets paid orders into daily, weekly or monthly
// periods over [start, end).
func BuildPeriodicReport(db *gorm.DB, tenantID string, start, end time.Time, granularity string) (*PeriodicReport, error) {
	var paidOrders []models.Order
	err := db.Select("closed_at, total").
		Where("tenant_id = ? AND status = ? AND closed_at >= ? AND closed_at < ?",
			tenantID, models.OrderPaid, start, end).
		Find(&paidOrders).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]*PeriodEntry{}
	for _, o := range paidOrders {
		if o.ClosedAt == nil {
			continue
		}
		pStart, pEnd, label := periodBoundaries(*o.ClosedAt, granularity)
		entry, ok := buckets[label]
		if !ok {
			entry = &PeriodEntry{Label: label, Start: pStart, End: pEnd}
			buckets[label] = entry
		}
		entry.TotalOrders++
		if o.Total != nil {
			entry.TotalRevenue += *o.Total
		}
	}

	entries := make([]PeriodEntry, 0, len(buckets))
	for _, e := range buckets {
		if e.TotalOrders > 0 {
			e.AverageTicket = e.TotalRevenue / float64(e.TotalOrders)
		}
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Start.Before(entries[j].Start) })

	return &PeriodicReport{Granularity: granularity, Start: start, End: end, Entries: entries}, nil
}

type SalesByDay struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// BuildSalesByDay sums paid-order revenue per calendar day.
func BuildSalesByDay(db *gorm.DB, tenantID string, start, end time.Time) ([]SalesByDay, error) {
	var paidOrders []models.Order
	err := db.Select("closed_at, total").
		Where("tenant_id = ? AND status = ? AND closed_at >= ? AND closed_at <= ?",
			tenantID, models.OrderPaid, start, end).
		Find(&paidOrders).Error
	if err != nil {
		return nil, err
	}

	byDay := map[string]float64{}
	for _, o := range paidOrders {
		if o.ClosedAt == nil {
			continue
		}
		day := o.ClosedAt.UTC().Format("2006-01-02")
		if o.Total != nil {
			byDay[day] += *o.Total
		}
	}

	out := make([]SalesByDay, 0, len(byDay))
	for day, total := range byDay {
		out = append(out, SalesByDay{Date: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type CMVReport struct {
	Revenue       float64  `json:"revenue"`
	Cost          float64  `json:"cost"`
	CMVPercentage *float64 `json:"cmv_percentage"`
}

// BuildCMV computes cost of goods sold over [start, end]: dish items are
// costed through their recipe expansion at current ingredient cost prices,
// everything else at its own cost price.
func BuildCMV(db *gorm.DB, tenantID string, start, end time.Time) (*CMVReport, error) {
	var paidOrders []models.Order
	err := db.Preload("Items").
		Where("tenant_id = ? AND status = ? AND closed_at >= ? AND closed_at <= ?",
			tenantID, models.OrderPaid, start, end).
		Find(&paidOrders).Error
	if err != nil {
		return nil, err
	}

	revenue := 0.0
	cost := 0.0
	for _, order := range paidOrders {
		if order.Total != nil {
			revenue += *order.Total
		}
		for _, item := range order.Items {
			itemCost, err := itemCost(db, tenantID, item)
			if err != nil {
				return nil, err
			}
			cost += itemCost
		}
	}

	report := &CMVReport{Revenue: revenue, Cost: cost}
	if revenue > 0 {
		pct := cost / revenue * 100
		report.CMVPercentage = &pct
	}
	return report, nil
}

func itemCost(db *gorm.DB, tenantID string, item models.OrderItem) (float64, error) {
	var product models.Product
	err := db.Where("id = ? AND tenant_id = ?", item.ProductID, tenantID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var recipe *models.Recipe
	if product.Type == models.ProductDish {
		var r models.Recipe
		err := db.Preload("Items").
			Where("product_id = ? AND tenant_id = ?", product.ID, tenantID).
			First(&r).Error
		if err == nil {
			recipe = &r
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
	}

	consumptions, err := orders.ExpandRecipe(&product, recipe, item.Quantity)
	if err != nil {
		return 0, err
	}

	cost := 0.0
	for _, cons := range consumptions {
		var component models.Product
		err := db.Where("id = ? AND tenant_id = ?", cons.ProductID, tenantID).First(&component).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if component.CostPrice != nil {
			cost += *component.CostPrice * cons.Quantity
		}
	}
	return cost, nil
}
