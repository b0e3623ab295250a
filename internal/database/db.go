package database

import (
	"comanda-backend/internal/config"
	"comanda-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("database connection failed: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	// GORM cannot express a partial unique index, so it is created by hand.
	// It backs the one-open-session-per-user invariant under concurrent
	// open attempts.
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_sessions_open
		ON cash_sessions (tenant_id, user_id) WHERE is_open`).Error; err != nil {
		logrus.Warnf("could not create open-session index: %v", err)
	}

	logrus.Info("database connected, migration complete")
}

// Migrate runs AutoMigrate for every model. Split out so tests can run it
// against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.UserRole{},
		&models.Table{},
		&models.Unit{},
		&models.Product{},
		&models.Recipe{},
		&models.RecipeItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.StockLocation{},
		&models.StockMove{},
		&models.Batch{},
		&models.InventoryRule{},
		&models.CashSession{},
		&models.CashMovement{},
		&models.Supplier{},
		&models.PurchaseOrder{},
		&models.PurchaseItem{},
		&models.Payable{},
		&models.Customer{},
		&models.Consent{},
		&models.AuditLog{},
	)
}
