package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations
var migrations embed.FS

const (
	postgresDir = "migrations/postgres"
	sqliteDir   = "migrations/sqlite"
)

// SetupPostgres provisions the catalog schema through the pool.
func SetupPostgres(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	return up(ctx, goose.DialectPostgres, sqlDB, postgresDir, logger)
}

// SetupSQLite provisions the catalog schema in an opened SQLite database.
func SetupSQLite(ctx context.Context, sqlDB *sql.DB, logger *zap.Logger) error {
	return up(ctx, goose.DialectSQLite3, sqlDB, sqliteDir, logger)
}

func up(ctx context.Context, dialect goose.Dialect, sqlDB *sql.DB, dir string, logger *zap.Logger) error {
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("can not open migrations %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("can not create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("can not apply migrations: %w", err)
	}

	if logger != nil {
		for _, r := range results {
			logger.Info("migration applied",
				zap.String("source", r.Source.Path),
				zap.Int64("version", r.Source.Version),
				zap.Duration("duration", r.Duration))
		}
	}

	return nil
}
