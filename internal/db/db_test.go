package db

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/diewo77/go-stock/internal/config"
	"github.com/diewo77/go-stock/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   "file:" + name + "?mode=memory&cache=shared",
	}, log)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func TestOpen_UnknownDriver(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	if _, err := Open(config.DatabaseConfig{Driver: "oracle"}, log); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestMigrate_CreatesTables(t *testing.T) {
	d := openTestDB(t)
	if err := Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"products", "orders", "order_items", "cash_flow"} {
		if !d.Migrator().HasTable(table) {
			t.Errorf("missing table %s", table)
		}
	}
	if !d.Migrator().HasColumn(&models.CashFlowEntry{}, "order_id") {
		t.Error("cash_flow.order_id missing")
	}
}

func TestMigrateSQL_SQLite(t *testing.T) {
	d := openTestDB(t)
	if err := MigrateSQL(d, config.DriverSQLite); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// already at the latest version
	if err := MigrateSQL(d, config.DriverSQLite); err != nil {
		t.Fatalf("second run: %v", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		t.Fatal(err)
	}
	if inUse := sqlDB.Stats().InUse; inUse != 0 {
		t.Fatalf("migrations left %d connections checked out", inUse)
	}

	for _, table := range []string{"products", "orders", "order_items", "cash_flow", "schema_migrations"} {
		if !d.Migrator().HasTable(table) {
			t.Errorf("missing table %s", table)
		}
	}

	// the SQL schema must accept what the models write
	p := models.Product{Name: "Widget", Quantity: 1, Price: decimal.RequireFromString("2.50")}
	if err := d.Create(&p).Error; err != nil {
		t.Fatalf("insert product: %v", err)
	}
	o := models.Order{Customer: "Ana", Status: models.OrderStatusOpen, Timestamp: "2024-01-01 10:00:00", Items: "1x Widget"}
	if err := d.Create(&o).Error; err != nil {
		t.Fatalf("insert order: %v", err)
	}
	e := models.CashFlowEntry{Date: "2024-01-01", Type: models.EntryTypeSale, Amount: p.Price, OrderID: &o.ID}
	if err := d.Create(&e).Error; err != nil {
		t.Fatalf("insert entry: %v", err)
	}
}

// Runs only when TEST_POSTGRES_DSN points at a scratch database.
func TestMigrateSQL_PostgresReleasesConnection(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	d, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, err := d.DB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	sqlDB.SetMaxOpenConns(2)

	for i := 0; i < 3; i++ {
		if err := MigrateSQL(d, config.DriverPostgres); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if inUse := sqlDB.Stats().InUse; inUse != 0 {
			t.Fatalf("run %d left %d connections checked out", i, inUse)
		}
	}
	if !d.Migrator().HasTable("order_items") {
		t.Error("missing table order_items")
	}
}

func TestMigrateSQL_UnsupportedDriver(t *testing.T) {
	d := openTestDB(t)
	if err := MigrateSQL(d, config.DriverMySQL); err == nil {
		t.Fatal("expected error for mysql")
	}
}

func TestSeedIdempotent(t *testing.T) {
	d := openTestDB(t)
	if err := Migrate(d); err != nil {
		t.Fatal(err)
	}
	if err := Seed(d); err != nil {
		t.Fatal(err)
	}

	// stock changed after the first seed must survive a second one
	if err := d.Model(&models.Product{}).Where("name = ?", "Café 500g").Update("quantity", 3).Error; err != nil {
		t.Fatal(err)
	}
	if err := Seed(d); err != nil {
		t.Fatal(err)
	}

	var count int64
	d.Model(&models.Product{}).Count(&count)
	if count != 4 {
		t.Fatalf("expected 4 products got %d", count)
	}
	var cafe models.Product
	if err := d.Where("name = ?", "Café 500g").First(&cafe).Error; err != nil {
		t.Fatal(err)
	}
	if cafe.Quantity != 3 {
		t.Fatalf("seed reset stock: quantity=%d", cafe.Quantity)
	}
}
