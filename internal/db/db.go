// Package db opens the shop database and manages its schema.
package db

import (
	"time"

	"github.com/diewo77/go-stock/internal/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connection attempts for network databases, which may still be starting.
var (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Open connects to the configured database. SQL statements are logged
// through log, at Info level when cfg.Debug is set.
func Open(cfg config.DatabaseConfig, log logrus.FieldLogger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	attempts := 1
	if cfg.Driver != config.DriverSQLite {
		attempts = connectAttempts
	}

	var conn *gorm.DB
	for i := 1; i <= attempts; i++ {
		conn, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			break
		}
		log.WithError(err).WithField("attempt", i).Warn("database connection failed")
		if i < attempts {
			time.Sleep(connectBackoff)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "connect %s", cfg.Driver)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}
	if cfg.Driver == config.DriverSQLite {
		// one writer; a second connection would also see a different
		// in-memory database
		sqlDB.SetMaxOpenConns(1)
	}

	fields := logrus.Fields{"driver": cfg.Driver}
	if cfg.Driver == config.DriverSQLite {
		fields["path"] = cfg.Path
	} else {
		fields["host"] = cfg.Host
		fields["port"] = cfg.Port
		fields["dbname"] = cfg.Name
		fields["user"] = cfg.User
	}
	log.WithFields(fields).Info("connected to database")
	return conn, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	}
	return nil, errors.Errorf("unsupported driver %q", cfg.Driver)
}
