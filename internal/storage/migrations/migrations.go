// Package migrations applies the embedded SQLite schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migrator runs schema migrations against an open database.
type Migrator struct {
	db     *sql.DB
	logger *log.Logger
}

// NewMigrator creates a migrator. A nil logger discards output.
func NewMigrator(db *sql.DB, logger *log.Logger) (*Migrator, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Migrator{db: db, logger: logger}, nil
}

// Up applies every pending migration and returns the resulting schema version.
func (m *Migrator) Up(ctx context.Context) (uint, error) {
	inst, closeSrc, err := m.instance(ctx)
	defer closeSrc()
	if err != nil {
		return 0, err
	}

	if err := inst.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("could not run migrations: %w", err)
	}

	v, _, err := inst.Version()
	if err != nil {
		return 0, fmt.Errorf("could not read schema version: %w", err)
	}
	m.logger.Debug("migrations applied", "version", v)
	return v, nil
}

func (m *Migrator) instance(_ context.Context) (*migrate.Migrate, func(), error) {
	closeSrc := func() {}

	driver, err := sqlite.WithInstance(m.db, &sqlite.Config{})
	if err != nil {
		return nil, closeSrc, fmt.Errorf("could not create driver: %w", err)
	}

	src, err := iofs.New(migrationFiles, "sql")
	if err != nil {
		return nil, closeSrc, fmt.Errorf("could not create fs: %w", err)
	}
	closeSrc = func() {
		if err := src.Close(); err != nil {
			m.logger.Error("could not close migration source", "err", err)
		}
	}

	inst, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, closeSrc, fmt.Errorf("could not create migration instance: %w", err)
	}
	return inst, closeSrc, nil
}
