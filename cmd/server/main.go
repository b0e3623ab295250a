package main

import (
	"strings"
	"time"

	"comanda-backend/internal/analytics"
	"comanda-backend/internal/audit"
	"comanda-backend/internal/auth"
	"comanda-backend/internal/cash"
	"comanda-backend/internal/catalog"
	"comanda-backend/internal/config"
	"comanda-backend/internal/customers"
	"comanda-backend/internal/database"
	"comanda-backend/internal/inventory"
	"comanda-backend/internal/models"
	"comanda-backend/internal/orders"
	"comanda-backend/internal/purchasing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logrus.WithField("request_id", c.Locals("request_id")).
				WithError(err).Error("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Tenant",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// request id + access log
	app.Use(func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Locals("request_id", requestID)
		start := time.Now()
		err := c.Next()
		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"duration":   time.Since(start).String(),
		}).Info("request")
		return err
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/refresh", auth.RefreshHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Catalog
	protected.Post("/products/units", auth.RequireRole(models.RoleOwner, models.RoleManager), catalog.CreateUnitHandler())
	protected.Get("/products/units", catalog.ListUnitsHandler())
	protected.Post("/products", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing, models.RoleChef), catalog.CreateProductHandler())
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Put("/products/:id", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing, models.RoleChef), catalog.UpdateProductHandler())
	protected.Delete("/products/:id", auth.RequireRole(models.RoleOwner, models.RoleManager), catalog.DeleteProductHandler())
	protected.Post("/products/import", auth.RequireRole(models.RoleOwner, models.RoleManager), catalog.ImportProductsHandler())
	protected.Get("/products/:id/recipe", catalog.GetRecipeHandler())
	protected.Post("/products/:id/recipe", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleChef), catalog.UpsertRecipeHandler())

	// Orders & settlement
	protected.Post("/orders", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier, models.RoleWaiter), orders.CreateOrderHandler())
	protected.Get("/orders", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier, models.RoleWaiter), orders.ListOrdersHandler())
	protected.Get("/orders/:id", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier, models.RoleWaiter), orders.GetOrderHandler())
	protected.Put("/orders/:id/pay", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier), orders.PayOrderHandler())

	// Stock ledger
	protected.Post("/stock/moves", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing, models.RoleChef), inventory.CreateMoveHandler())
	protected.Get("/stock/moves", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing, models.RoleChef), inventory.ListMovesHandler())
	protected.Post("/stock/batches", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing), inventory.CreateBatchHandler())
	protected.Get("/stock/batches", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing, models.RoleChef), inventory.ListBatchesHandler())

	// Inventory rules & alerts
	protected.Put("/inventory/rules", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing), inventory.UpsertRuleHandler())
	protected.Get("/inventory/rules", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing, models.RoleChef), inventory.ListRulesHandler())
	protected.Get("/inventory/alerts", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleChef, models.RolePurchasing), inventory.AlertsHandler())

	// Cash drawer
	protected.Post("/cash/sessions", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier), cash.OpenSessionHandler())
	protected.Post("/cash/sessions/:id/close", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier), cash.CloseSessionHandler())
	protected.Get("/cash/sessions", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier), cash.ListSessionsHandler())
	protected.Post("/cash/movements", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier), cash.RegisterMovementHandler())

	// Purchasing
	protected.Post("/purchases/suppliers", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing), purchasing.CreateSupplierHandler())
	protected.Get("/purchases/suppliers", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing), purchasing.ListSuppliersHandler())
	protected.Post("/purchases/orders", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing), purchasing.CreateOrderHandler())
	protected.Get("/purchases/orders", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing), purchasing.ListOrdersHandler())
	protected.Put("/purchases/orders/:id/approve", auth.RequireRole(models.RoleOwner, models.RoleManager), purchasing.ApproveOrderHandler())
	protected.Put("/purchases/orders/:id/receive", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RolePurchasing), purchasing.ReceiveOrderHandler())
	protected.Post("/purchases/payables", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), purchasing.CreatePayableHandler())
	protected.Get("/purchases/payables", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), purchasing.ListPayablesHandler())
	protected.Put("/purchases/payables/:id/settle", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), purchasing.SettlePayableHandler())
	protected.Put("/purchases/payables/:id/cancel", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), purchasing.CancelPayableHandler())

	// Customers & data privacy
	protected.Get("/customers", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier, models.RoleWaiter), customers.ListCustomersHandler())
	protected.Post("/customers", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier, models.RoleWaiter), customers.CreateCustomerHandler())
	protected.Get("/customers/:id", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier, models.RoleWaiter), customers.GetCustomerHandler())
	protected.Post("/customers/:id/consents", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier, models.RoleWaiter), customers.AddConsentHandler())
	protected.Get("/customers/:id/export", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier), customers.ExportCustomerHandler())
	protected.Post("/customers/:id/delete", auth.RequireRole(models.RoleOwner, models.RoleManager), customers.EraseCustomerHandler())

	// Analytics & reports
	protected.Get("/analytics/daily", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier), analytics.DailyOverviewHandler())
	protected.Get("/analytics/periodic", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), analytics.PeriodicReportHandler())
	protected.Get("/analytics/payments", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), analytics.PaymentBreakdownHandler())
	protected.Get("/analytics/top-products", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), analytics.TopProductsHandler())
	protected.Get("/reports/sales", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), analytics.SalesReportHandler())
	protected.Get("/reports/cmv", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), analytics.CMVReportHandler())
	protected.Get("/reports/turnover", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleAccountant), analytics.TurnoverReportHandler())
	protected.Get("/reports/dashboard", auth.RequireRole(models.RoleOwner, models.RoleManager, models.RoleCashier), analytics.DashboardHandler())

	// Audit logs
	protected.Get("/audit-logs", auth.RequireRole(models.RoleOwner, models.RoleManager), audit.ListAuditLogsHandler())

	logrus.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
