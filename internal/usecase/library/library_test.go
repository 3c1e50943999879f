package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/project/catalog/internal/entity"
	"github.com/project/catalog/internal/usecase/library/mocks"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var errInternal = errors.New("internal error")

var (
	tolkienBirth = time.Date(1892, time.January, 3, 0, 0, 0, 0, time.UTC)
	tolkien      = entity.Author{ID: 1, Name: "J.R.R. Tolkien", BirthDate: tolkienBirth}
	hobbit       = entity.Book{
		ID:            1,
		Title:         "The Hobbit",
		PublishedYear: 1937,
		AuthorID:      1,
		Price:         decimal.RequireFromString("12.99"),
	}
)

func ptr[T any](v T) *T {
	return &v
}

func tolkienPayload() *entity.AuthorPayload {
	return &entity.AuthorPayload{Name: tolkien.Name, BirthDate: tolkien.BirthDate}
}

func hobbitPayload() *entity.BookPayload {
	return &entity.BookPayload{
		Title:         hobbit.Title,
		PublishedYear: hobbit.PublishedYear,
		AuthorID:      hobbit.AuthorID,
		Price:         ptr(hobbit.Price),
	}
}

type testLibrary struct {
	authors *mocks.MockAuthorRepository
	books   *mocks.MockBooksRepository
	outbox  *mocks.MockOutboxRepository
	lib     *libraryImpl
}

// newTestLibrary wires the catalog to mocks. The transactor runs the
// function in place; the outbox is only attached on request.
func newTestLibrary(t *testing.T, withOutbox bool) testLibrary {
	t.Helper()

	ctrl := gomock.NewController(t)
	tl := testLibrary{
		authors: mocks.NewMockAuthorRepository(ctrl),
		books:   mocks.NewMockBooksRepository(ctrl),
	}

	transactor := mocks.NewMockTransactor(ctrl)
	transactor.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, f func(context.Context) error) error {
			return f(ctx)
		}).AnyTimes()

	var outbox OutboxRepository
	if withOutbox {
		tl.outbox = mocks.NewMockOutboxRepository(ctrl)
		outbox = tl.outbox
	}

	tl.lib = New(zap.NewNop(), tl.authors, tl.books, outbox, transactor)
	return tl
}
