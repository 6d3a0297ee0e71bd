package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/TrueSergey/websitewishlist/internal/config"
	"github.com/TrueSergey/websitewishlist/internal/logging"
)

// ErrDirtySchema is returned when a previous migration failed halfway. The
// schema has to be repaired by hand and the version forced before startup.
var ErrDirtySchema = errors.New("database schema is dirty")

// Migrator applies the SQL files under migrations/ to the wishlist schema.
type Migrator struct {
	m *migrate.Migrate
}

func NewMigrator(cfg config.DatabaseConfig) (*Migrator, error) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", cfg.MigrationsPath),
		cfg.DSN(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return newMigrator(m), nil
}

func newMigrator(m *migrate.Migrate) *Migrator {
	m.Log = migrateLogger{}
	return &Migrator{m: m}
}

func (m *Migrator) Up() error {
	err := m.m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", dirtyErr(err))
	}
	return nil
}

// Down rolls back n migrations, or every migration when n <= 0.
func (m *Migrator) Down(n int) error {
	var err error
	if n > 0 {
		err = m.m.Steps(-n)
	} else {
		err = m.m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back migrations: %w", dirtyErr(err))
	}
	return nil
}

func (m *Migrator) Version() (uint, bool, error) {
	return m.m.Version()
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

// ApplyUp brings the schema to the latest version and reports it.
func (m *Migrator) ApplyUp() (uint, error) {
	if err := m.Up(); err != nil {
		return 0, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logging.Info("No migrations applied", nil)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}

	logging.Info("Database schema up to date", map[string]interface{}{
		"version": version,
	})
	return version, nil
}

func dirtyErr(err error) error {
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		return fmt.Errorf("%w at version %d", ErrDirtySchema, dirty.Version)
	}
	return err
}

// migrateLogger forwards golang-migrate progress lines to the debug log.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logging.Debug("migrate: "+strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}

func (migrateLogger) Verbose() bool {
	return false
}
