package repository

import (
	"context"
	"errors"

	"github.com/pashagolub/pgxmock/v4"
)

// txLayer tells whether a test runs its statement inside a transaction.
type txLayer uint

const (
	none txLayer = iota
	extract
)

// errLayer is the step a test makes fail.
type errLayer uint

const (
	null errLayer = iota
	statement
	scan
	callback
	beginTx
	commitTx
	rollBackTx
)

var errInternal = errors.New("internal error")

// insertTxInMock begins a mocked transaction and puts it into ctx the way
// the transactor does.
func insertTxInMock(ctx context.Context, mock pgxmock.PgxPoolIface) context.Context {
	mock.ExpectBegin()
	tx, _ := mock.Begin(ctx)
	return context.WithValue(ctx, txInjector{}, tx)
}
