package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/diewo77/go-stock/internal/config"
	"github.com/diewo77/go-stock/internal/models"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "automigrate")
	}
	return nil
}

// MigrateSQL applies the embedded versioned migrations for driver.
// Running it on an up-to-date schema is a no-op.
func MigrateSQL(db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return errors.Wrapf(err, "no migrations for %s", driver)
	}

	var target database.Driver
	switch driver {
	case config.DriverSQLite:
		target, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	case config.DriverPostgres:
		// The postgres driver pins one connection for its advisory lock.
		// It is borrowed here and handed back to the pool once Up returns.
		var conn *sql.Conn
		conn, err = sqlDB.Conn(context.Background())
		if err != nil {
			return errors.Wrap(err, "migration connection")
		}
		defer conn.Close()
		target, err = migratepg.WithConnection(context.Background(), conn, &migratepg.Config{})
	default:
		return errors.Errorf("sql migrations not available for %s", driver)
	}
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}

	// m.Close would close the shared *sql.DB, so the instance is left open.
	// Neither driver holds a connection past Up.
	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return errors.Wrap(err, "init migrations")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

// Prepare brings the schema up to date, by SQL migrations when useSQL is
// set and by AutoMigrate otherwise.
func Prepare(db *gorm.DB, driver string, useSQL bool) error {
	if useSQL {
		return MigrateSQL(db, driver)
	}
	return Migrate(db)
}
