package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/project/catalog/pkg/logger"
	"go.uber.org/zap"
)

type SQLBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ Transactor = (*sqliteTransactor)(nil)

type sqliteTransactor struct {
	logger *zap.Logger
	db     SQLBeginner
}

func NewSQLiteTransactor(logger *zap.Logger, db SQLBeginner) *sqliteTransactor {
	return &sqliteTransactor{
		logger: logger,
		db:     db,
	}
}

// WithTx opens an immediate transaction, so concurrent writers queue on
// BEGIN instead of failing at commit.
func (t *sqliteTransactor) WithTx(ctx context.Context, function func(ctx context.Context) error) (txErr error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can not begin transaction, error: %w", err)
	}

	ctxWithTx := context.WithValue(ctx, sqlTxInjector{}, tx)

	defer func() {
		if p := recover(); p != nil {
			err := tx.Rollback()
			logger.CheckError(err, t.logger, "failed Rollback of tx after panic", zap.Error(err))
			panic(p)
		}

		if txErr != nil {
			err := tx.Rollback()
			logger.CheckError(err, t.logger, "failed Rollback of tx", zap.Error(err))
			return
		}

		if err := tx.Commit(); err != nil {
			logger.CheckError(err, t.logger, "failed commit of tx", zap.Error(err))
			txErr = fmt.Errorf("can not commit transaction: %w", err)
		}
	}()

	return function(ctxWithTx)
}

type sqlTxInjector struct{}

func extractSQLTx(ctx context.Context) (*sql.Tx, error) {
	tx, ok := ctx.Value(sqlTxInjector{}).(*sql.Tx)

	if !ok {
		return nil, ErrTxNotFound
	}

	return tx, nil
}
