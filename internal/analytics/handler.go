package analytics

import (
	"time"

	"comanda-backend/internal/apperrors"
	"comanda-backend/internal/auth"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func parseRange(c *fiber.Ctx, defaultDays int) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -defaultDays)
	end := now

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid start_date")
		}
		start = parsed
	}
	if e := c.Query("end_date"); e != "" {
		parsed, err := time.Parse("2006-01-02", e)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid end_date")
		}
		end = parsed
	}
	if start.After(end) {
		start, end = end, start
	}
	return start, end, nil
}

// GET /api/analytics/daily
func DailyOverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		target := time.Now().UTC()
		if d := c.Query("date"); d != "" {
			parsed, err := time.Parse("2006-01-02", d)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid date")
			}
			target = parsed
		}
		topLimit := c.QueryInt("top_limit", 5)

		overview, err := BuildDailyOverview(database.DB, auth.TenantID(c), target, topLimit)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(overview)
	}
}

// GET /api/analytics/periodic
func PeriodicReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseRange(c, 30)
		if err != nil {
			return err
		}
		granularity := c.Query("granularity", "weekly")
		switch granularity {
		case "daily", "weekly", "monthly":
		default:
			return fiber.NewError(fiber.StatusBadRequest, "granularity must be daily, weekly or monthly")
		}

		report, err := BuildPeriodicReport(database.DB, auth.TenantID(c), start, end.AddDate(0, 0, 1), granularity)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(report)
	}
}

// GET /api/analytics/payments
func PaymentBreakdownHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseRange(c, 30)
		if err != nil {
			return err
		}
		breakdown, err := BuildPaymentBreakdown(database.DB, auth.TenantID(c), start, end.AddDate(0, 0, 1))
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(fiber.Map{"payment_breakdown": breakdown})
	}
}

// GET /api/analytics/top-products
func TopProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseRange(c, 30)
		if err != nil {
			return err
		}
		limit := c.QueryInt("limit", 5)

		top, err := BuildTopProducts(database.DB, auth.TenantID(c), start, end.AddDate(0, 0, 1), limit)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(fiber.Map{"top_products": top})
	}
}

// GET /api/reports/sales
func SalesReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseRange(c, 30)
		if err != nil {
			return err
		}
		sales, err := BuildSalesByDay(database.DB, auth.TenantID(c), start, end.AddDate(0, 0, 1))
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(fiber.Map{"sales": sales})
	}
}

// GET /api/reports/cmv
func CMVReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseRange(c, 30)
		if err != nil {
			return err
		}
		report, err := BuildCMV(database.DB, auth.TenantID(c), start, end.AddDate(0, 0, 1))
		if err != nil {
			return apperrors.ToFiber(err)
		}
		return c.JSON(report)
	}
}

// GET /api/reports/turnover
func TurnoverReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		top := c.QueryInt("top", 10)
		if top < 1 || top > 50 {
			return fiber.NewError(fiber.StatusBadRequest, "top must be between 1 and 50")
		}

		type row struct {
			ProductID uint
			Name      string
			Quantity  float64
		}
		var rows []row
		err := database.DB.Table("order_items").
			Select("order_items.product_id, products.name, SUM(order_items.quantity) AS quantity").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("orders.tenant_id = ? AND orders.status = ?", auth.TenantID(c), models.OrderPaid).
			Group("order_items.product_id, products.name").
			Order("quantity DESC").
			Limit(top).
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build turnover report")
		}

		payload := make([]fiber.Map, 0, len(rows))
		for _, r := range rows {
			payload = append(payload, fiber.Map{"product": r.Name, "quantity": r.Quantity})
		}
		return c.JSON(fiber.Map{"turnover": payload})
	}
}

// GET /api/reports/dashboard
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := auth.TenantID(c)
		today := time.Now().UTC()
		dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

		overview, err := BuildDailyOverview(database.DB, tenantID, today, 5)
		if err != nil {
			return apperrors.ToFiber(err)
		}
		cmv, err := BuildCMV(database.DB, tenantID, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return apperrors.ToFiber(err)
		}

		var openOrders int64
		err = database.DB.Model(&models.Order{}).
			Where("tenant_id = ? AND status = ?", tenantID, models.OrderOpen).
			Count(&openOrders).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count open orders")
		}

		return c.JSON(fiber.Map{
			"day_revenue":    overview.TotalRevenue,
			"average_ticket": overview.AverageTicket,
			"cmv_percentage": cmv.CMVPercentage,
			"open_orders":    openOrders,
		})
	}
}
