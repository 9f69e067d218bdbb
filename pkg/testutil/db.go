package testutil

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/flaboy/aira-giftcard/pkg/database"
	"github.com/flaboy/aira-giftcard/pkg/models"
)

// NewTestDB creates an in-memory SQLite database, migrates the gift card
// models and installs it as the package-global handle. The connection is
// closed when the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Order{},
		&models.VoucherCode{},
		&models.GiftCard{},
		&models.DeliveryLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	database.SetDatabase(db)
	return db
}

// NewTestConfig installs a minimal config for tests.
func NewTestConfig(t *testing.T) *config.CommenceConfig {
	t.Helper()

	cfg := &config.CommenceConfig{}
	cfg.Voucher.ValidityMonths = 12
	cfg.Voucher.CodeLength = 12
	cfg.Voucher.BatchSize = 50
	cfg.Voucher.LinkSalt = "test-salt"
	cfg.Voucher.LinkBaseURL = "https://cards.example.com"
	cfg.PayFast.MerchantID = "10000100"
	cfg.PayFast.Passphrase = "secret"
	config.Config = cfg
	return cfg
}
