package database

import (
	"fmt"

	"budgeteer/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DSN returns the connection string for the configured driver: a key/value
// PostgreSQL DSN, or the sqlite file path.
func DSN(cfg config.DatabaseConfig) string {
	if cfg.Driver == DriverSQLite {
		return cfg.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// dialector selects the GORM dialector for the configured driver.
func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return postgres.New(postgres.Config{
			DSN:                  DSN(cfg),
			PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
		}), nil
	case DriverSQLite:
		return sqlite.Open(DSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
