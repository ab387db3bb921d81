package db

import (
	"context"
	"database/sql"
	"io/fs"

	"stakeholder_map_backend/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies all pending goose migrations from fsys.
// It is a no-op when migrations are disabled in configuration.
func RunMigrations(ctx context.Context, cfg config.MigrationConfig, fsys fs.FS) error {
	if !cfg.GetMigrationsEnabled() {
		return nil
	}

	sqlDB, err := sql.Open("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return err
	}

	_, err = provider.Up(ctx)
	return err
}
