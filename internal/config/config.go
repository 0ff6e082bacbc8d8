// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Database DatabaseConfig `envconfig:"DB"`
	App      AppConfig      `envconfig:"APP"`
	Log      LogConfig      `envconfig:"LOG"`
	Kafka    KafkaConfig    `envconfig:"KAFKA"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// SERVER_PORT, falling back to PORT.
	Port         string `envconfig:"PORT" default:"8080"`
	ReadTimeout  int    `split_words:"true" default:"15"` // seconds
	WriteTimeout int    `split_words:"true" default:"15"` // seconds
	IdleTimeout  int    `split_words:"true" default:"60"` // seconds
}

// DatabaseConfig selects the store and holds its connection settings.
// Path is only used by sqlite; the network fields by postgres and mysql.
// An unset Port becomes the driver's standard port in Validate.
type DatabaseConfig struct {
	Driver   string `default:"sqlite"`
	Path     string `default:"stock.db"`
	Host     string `default:"localhost"`
	Port     int
	User     string `default:"stock"`
	Password string `default:"stock"`
	Name     string `default:"stock"`
	SSLMode  string `default:"disable"`
	Debug    bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	// Migrations switches schema management from AutoMigrate to the
	// embedded SQL migrations.
	Migrations bool
	Seed       bool
	Lang       string `default:"pt"`
	Currency   string `default:"R$"`
}

type LogConfig struct {
	Level  string `default:"info"`
	Format string `default:"text"`
}

// KafkaConfig enables event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string `default:"shop-events"`
}

// Enabled reports whether a broker list was configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	case DriverMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Name,
		)
	default:
		return d.Path
	}
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot be acted upon.
var defaultPorts = map[string]int{
	DriverPostgres: 5432,
	DriverMySQL:    3306,
}

func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return errors.Errorf("unknown DB_DRIVER %q (want sqlite, postgres or mysql)", c.Database.Driver)
	}
	if c.Database.Port == 0 {
		c.Database.Port = defaultPorts[c.Database.Driver]
	}
	if c.App.Migrations && c.Database.Driver == DriverMySQL {
		return errors.New("APP_MIGRATIONS is not supported for mysql, use AutoMigrate")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.Errorf("unknown LOG_FORMAT %q (want text or json)", c.Log.Format)
	}
	if c.Kafka.Enabled() && strings.TrimSpace(c.Kafka.Topic) == "" {
		return errors.New("KAFKA_TOPIC must be set when KAFKA_BROKERS is")
	}
	return nil
}
