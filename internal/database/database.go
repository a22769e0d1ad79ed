// Package database opens the GORM connection and applies the embedded SQL migrations.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"budgeteer/internal/config"
	"budgeteer/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Manager handles database operations
type Manager struct {
	db  *gorm.DB
	cfg config.DatabaseConfig
}

// NewManager creates a new database manager
func NewManager(cfg config.DatabaseConfig) (*Manager, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// sqlite serialises writers; a single connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &Manager{db: db, cfg: cfg}, nil
}

// Migrator returns a golang-migrate instance over a dedicated connection, reading
// the SQL files embedded for the configured driver. The caller must Close it.
func (m *Manager) Migrator() (*migrate.Migrate, error) {
	return NewMigrator(m.cfg)
}

// NewMigrator builds a migrate instance without opening a GORM connection.
func NewMigrator(cfg config.DatabaseConfig) (*migrate.Migrate, error) {
	var (
		sqlDriverName string
		dir           string
	)
	switch cfg.Driver {
	case DriverPostgres, "":
		sqlDriverName, dir = "pgx", "migrations/postgres"
	case DriverSQLite:
		sqlDriverName, dir = "sqlite3", "migrations/sqlite"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	// A separate connection keeps the migrator's Close from closing the GORM pool.
	conn, err := sql.Open(sqlDriverName, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	var driver migratedb.Driver
	if cfg.Driver == DriverSQLite {
		driver, err = sqlite3.WithInstance(conn, &sqlite3.Config{})
	} else {
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create %s migration driver: %w", cfg.Driver, err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", src, cfg.Driver, driver)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

// RunMigrations applies all pending embedded SQL migrations.
func (m *Manager) RunMigrations() error {
	logger.Get().Info("Running database migrations...")

	mig, err := m.Migrator()
	if err != nil {
		return err
	}
	defer closeMigrator(mig)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

func closeMigrator(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
