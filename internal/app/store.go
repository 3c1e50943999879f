package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/project/catalog/config"
	"github.com/project/catalog/db"
	"github.com/project/catalog/internal/usecase/library"
	"github.com/project/catalog/internal/usecase/outbox"
	"github.com/project/catalog/internal/usecase/repository"
	"github.com/project/catalog/pkg/logger"
	"go.uber.org/zap"
)

type store struct {
	authors    library.AuthorRepository
	books      library.BooksRepository
	transactor library.Transactor

	// outboxRepository is nil unless the outbox is enabled.
	outboxRepository outbox.Repository

	ping  func(ctx context.Context) error
	close func()
}

// openStore connects to the configured driver and provisions its schema.
func openStore(ctx context.Context, l *zap.Logger, cfg *config.Config) (*store, error) {
	logRepo := logger.Enabled(l, cfg.Log.LogDBRepo)
	logTransactor := logger.Enabled(l, cfg.Log.LogTransactor)

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PG.URL)
		if err != nil {
			return nil, fmt.Errorf("can not create pgxpool: %w", err)
		}

		if err = db.SetupPostgres(ctx, pool, l); err != nil {
			pool.Close()
			return nil, err
		}

		repo := repository.New(logRepo, pool)
		s := &store{
			authors:    repo,
			books:      repo,
			transactor: repository.NewTransactor(logTransactor, pool),
			ping:       pool.Ping,
			close:      pool.Close,
		}
		if cfg.Outbox.Enabled {
			s.outboxRepository = repository.NewOutbox(pool, cfg.Outbox.AttemptsRetry)
		}
		return s, nil

	case config.DriverSQLite:
		sqlDB, err := repository.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}

		if err = db.SetupSQLite(ctx, sqlDB, l); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}

		repo := repository.NewSQLite(logRepo, sqlDB)
		return &store{
			authors:    repo,
			books:      repo,
			transactor: repository.NewSQLiteTransactor(logTransactor, sqlDB),
			ping:       sqlDB.PingContext,
			close: func() {
				err := sqlDB.Close()
				logger.CheckError(err, l, "can not close sqlite", zap.Error(err))
			},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Store.Driver)
	}
}
