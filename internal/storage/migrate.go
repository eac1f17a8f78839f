package storage

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func migrations() (*migrate.Migrations, error) {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	m := migrate.NewMigrations()
	if err := m.Discover(sub); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return m, nil
}

// Migrate applies pending schema migrations under the migrator lock.
func (s *MySQLStore) Migrate(ctx context.Context) error {
	m, err := migrations()
	if err != nil {
		return err
	}
	migrator := migrate.NewMigrator(s.db, m)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to create migration tables: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to lock migrations: %w", err)
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if group.IsZero() {
		s.log.LogDatabase("MIGRATE", "mysql", "Schema is up to date")
		return nil
	}
	s.log.LogDatabase("MIGRATE", "mysql", "Migrated to "+group.String())
	return nil
}
