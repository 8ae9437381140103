package database

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/config"
)

// MigrationManager handles database migrations
type MigrationManager struct {
	cfg config.DatabaseConfig
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(cfg config.DatabaseConfig) *MigrationManager {
	return &MigrationManager{cfg: cfg}
}

// Up runs all up migrations
func (m *MigrationManager) Up() error {
	return m.run(func(mg *migrate.Migrate) error {
		if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run up migrations: %w", err)
		}
		return nil
	})
}

// Down runs all down migrations
func (m *MigrationManager) Down() error {
	return m.run(func(mg *migrate.Migrate) error {
		if err := mg.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run down migrations: %w", err)
		}
		return nil
	})
}

// Steps applies n migrations, or rolls back -n when n is negative
func (m *MigrationManager) Steps(n int) error {
	return m.run(func(mg *migrate.Migrate) error {
		if err := mg.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to step migrations by %d: %w", n, err)
		}
		return nil
	})
}

// Version returns current migration version
func (m *MigrationManager) Version() (version uint, dirty bool, err error) {
	err = m.run(func(mg *migrate.Migrate) error {
		version, dirty, err = mg.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return err
	})
	return version, dirty, err
}

// Force sets the migration version without running migrations
func (m *MigrationManager) Force(version int) error {
	return m.run(func(mg *migrate.Migrate) error {
		return mg.Force(version)
	})
}

// run opens a dedicated connection so closing the migrate instance never
// closes the pool used by the server.
func (m *MigrationManager) run(fn func(*migrate.Migrate) error) error {
	migrationDB, err := sql.Open("postgres", m.cfg.DSN(m.cfg.DBName))
	if err != nil {
		return fmt.Errorf("failed to open migration database connection: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	migrationsPath, err := filepath.Abs(m.cfg.MigrationsPath)
	if err != nil {
		driver.Close()
		return fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	mg, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer mg.Close()

	return fn(mg)
}

// EnsureDatabase creates the database if it doesn't exist
func EnsureDatabase(cfg config.DatabaseConfig) error {
	db, err := sql.Open("postgres", cfg.DSN("postgres"))
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1)"
	if err := db.QueryRow(query, cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		return nil
	}

	if _, err := db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(cfg.DBName)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	return nil
}
