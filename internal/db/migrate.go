package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/reefdive/apiserver/config"
)

//go:embed migrations
var migrationsFS embed.FS

// NewMigrator builds a migrator over an open connection using the
// embedded migrations for the given driver.
func NewMigrator(conn *sql.DB, driver string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	var target database.Driver
	switch driver {
	case config.DriverPostgres:
		target, err = postgres.WithInstance(conn, &postgres.Config{})
	case config.DriverSQLite:
		target, err = sqlite.WithInstance(conn, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("init migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, driver, target)
}

// MigrateUp applies all pending up migrations.
func MigrateUp(conn *sql.DB, driver string) error {
	migrator, err := NewMigrator(conn, driver)
	if err != nil {
		return err
	}
	defer release(migrator, driver)

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(conn *sql.DB, driver string, steps int) error {
	migrator, err := NewMigrator(conn, driver)
	if err != nil {
		return err
	}
	defer release(migrator, driver)

	if steps <= 0 {
		err = migrator.Down()
	} else {
		err = migrator.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down failed: %w", err)
	}
	return nil
}

// release returns the dedicated connection the postgres driver holds.
// The sqlite driver closes the whole *sql.DB on Close, so it is left open.
func release(migrator *migrate.Migrate, driver string) {
	if driver == config.DriverPostgres {
		_, _ = migrator.Close()
	}
}
