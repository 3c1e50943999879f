package library

import (
	"context"
	"testing"

	"github.com/project/catalog/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateBook(t *testing.T) {
	t.Parallel()

	withID := func(id int64) *entity.BookPayload {
		p := hobbitPayload()
		p.ID = ptr(id)
		return p
	}

	tests := []struct {
		name       string
		payload    *entity.BookPayload
		prepare    func(tl testLibrary)
		wantID     int64
		errRequire error
	}{
		{
			name:       "nil payload",
			prepare:    func(testLibrary) {},
			errRequire: entity.ErrInvalid,
		},
		{
			name: "negative price never reaches the store",
			payload: func() *entity.BookPayload {
				p := hobbitPayload()
				p.Price = ptr(decimal.NewFromInt(-1))
				return p
			}(),
			prepare:    func(testLibrary) {},
			errRequire: entity.ErrInvalid,
		},
		{
			name:    "taken id is reported before the author check",
			payload: withID(1),
			prepare: func(tl testLibrary) {
				tl.books.EXPECT().GetBook(gomock.Any(), int64(1)).Return(hobbit, nil)
			},
			errRequire: entity.ErrConflict,
		},
		{
			name: "missing author",
			payload: func() *entity.BookPayload {
				p := hobbitPayload()
				p.AuthorID = 999
				return p
			}(),
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(999)).Return(entity.Author{}, entity.ErrAuthorNotFound)
			},
			errRequire: entity.ErrReferenceMissing,
		},
		{
			name:    "free explicit id",
			payload: withID(8),
			prepare: func(tl testLibrary) {
				tl.books.EXPECT().GetBook(gomock.Any(), int64(8)).Return(entity.Book{}, entity.ErrBookNotFound)
				tl.authors.EXPECT().GetAuthor(gomock.Any(), hobbit.AuthorID).Return(tolkien, nil)
				tl.books.EXPECT().InsertBook(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b entity.Book) (entity.Book, error) { return b, nil })
			},
			wantID: 8,
		},
		{
			name:    "generated id",
			payload: hobbitPayload(),
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), hobbit.AuthorID).Return(tolkien, nil)
				tl.books.EXPECT().InsertBook(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b entity.Book) (entity.Book, error) {
						require.Equal(t, unassignedID, b.ID)
						b.ID = 1
						return b, nil
					})
			},
			wantID: 1,
		},
		{
			name:    "author lookup failure",
			payload: hobbitPayload(),
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), hobbit.AuthorID).Return(entity.Author{}, errInternal)
			},
			errRequire: entity.ErrStoreFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tl := newTestLibrary(t, false)
			tt.prepare(tl)

			book, err := tl.lib.CreateBook(context.Background(), tt.payload)
			if tt.errRequire != nil {
				require.ErrorIs(t, err, tt.errRequire)
				require.Empty(t, book)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, book.ID)
			require.Equal(t, hobbit.Title, book.Title)
			require.True(t, hobbit.Price.Equal(book.Price))
		})
	}
}

func TestGetBook(t *testing.T) {
	t.Parallel()

	tl := newTestLibrary(t, false)
	tl.books.EXPECT().GetBook(gomock.Any(), int64(1)).Return(hobbit, nil)
	tl.books.EXPECT().GetBook(gomock.Any(), int64(2)).Return(entity.Book{}, entity.ErrBookNotFound)

	book, err := tl.lib.GetBook(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, hobbit, book)

	_, err = tl.lib.GetBook(context.Background(), 2)
	require.ErrorIs(t, err, entity.ErrNotFound)
	require.NotErrorIs(t, err, entity.ErrStoreFailure)
}

func TestListBooks(t *testing.T) {
	t.Parallel()

	tl := newTestLibrary(t, false)
	tl.books.EXPECT().ListBooks(gomock.Any()).Return([]entity.Book{hobbit}, nil)

	books, err := tl.lib.ListBooks(context.Background())
	require.NoError(t, err)
	require.Equal(t, []entity.Book{hobbit}, books)
}

func TestUpdateBook(t *testing.T) {
	t.Parallel()

	moved := hobbit
	moved.AuthorID = 2

	tests := []struct {
		name       string
		id         int64
		payload    func() *entity.BookPayload
		prepare    func(tl testLibrary)
		want       entity.Book
		errRequire error
	}{
		{
			name:       "invalid payload never reaches the store",
			id:         1,
			payload:    func() *entity.BookPayload { p := hobbitPayload(); p.PublishedYear = 0; return p },
			prepare:    func(testLibrary) {},
			errRequire: entity.ErrInvalid,
		},
		{
			name:    "unknown id",
			id:      5,
			payload: hobbitPayload,
			prepare: func(tl testLibrary) {
				tl.books.EXPECT().GetBook(gomock.Any(), int64(5)).Return(entity.Book{}, entity.ErrBookNotFound)
			},
			errRequire: entity.ErrNotFound,
		},
		{
			name:    "missing payload",
			id:      1,
			payload: func() *entity.BookPayload { return nil },
			prepare: func(tl testLibrary) {
				tl.books.EXPECT().GetBook(gomock.Any(), int64(1)).Return(hobbit, nil)
			},
			errRequire: entity.ErrInvalid,
		},
		{
			name:    "mismatched id",
			id:      1,
			payload: func() *entity.BookPayload { p := hobbitPayload(); p.ID = ptr(int64(3)); return p },
			prepare: func(tl testLibrary) {
				tl.books.EXPECT().GetBook(gomock.Any(), int64(1)).Return(hobbit, nil)
			},
			errRequire: entity.ErrConflict,
		},
		{
			name:    "same author is not checked again",
			id:      1,
			payload: hobbitPayload,
			prepare: func(tl testLibrary) {
				tl.books.EXPECT().GetBook(gomock.Any(), int64(1)).Return(hobbit, nil)
				tl.books.EXPECT().UpdateBook(gomock.Any(), hobbit).Return(hobbit, nil)
			},
			want: hobbit,
		},
		{
			name:    "moved to a missing author",
			id:      1,
			payload: func() *entity.BookPayload { p := hobbitPayload(); p.AuthorID = 2; return p },
			prepare: func(tl testLibrary) {
				tl.books.EXPECT().GetBook(gomock.Any(), int64(1)).Return(hobbit, nil)
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(2)).Return(entity.Author{}, entity.ErrAuthorNotFound)
			},
			errRequire: entity.ErrReferenceMissing,
		},
		{
			name:    "moved to an existing author",
			id:      1,
			payload: func() *entity.BookPayload { p := hobbitPayload(); p.AuthorID = 2; return p },
			prepare: func(tl testLibrary) {
				tl.books.EXPECT().GetBook(gomock.Any(), int64(1)).Return(hobbit, nil)
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(2)).Return(entity.Author{ID: 2}, nil)
				tl.books.EXPECT().UpdateBook(gomock.Any(), moved).Return(moved, nil)
			},
			want: moved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tl := newTestLibrary(t, false)
			tt.prepare(tl)

			book, err := tl.lib.UpdateBook(context.Background(), tt.id, tt.payload())
			if tt.errRequire != nil {
				require.ErrorIs(t, err, tt.errRequire)
				require.Empty(t, book)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, book)
		})
	}
}

func TestDeleteBook(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		tl := newTestLibrary(t, false)
		tl.books.EXPECT().GetBook(gomock.Any(), int64(3)).Return(entity.Book{}, entity.ErrBookNotFound)

		require.ErrorIs(t, tl.lib.DeleteBook(context.Background(), 3), entity.ErrNotFound)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		tl := newTestLibrary(t, false)
		tl.books.EXPECT().GetBook(gomock.Any(), hobbit.ID).Return(hobbit, nil)
		tl.books.EXPECT().DeleteBook(gomock.Any(), hobbit.ID).Return(nil)

		require.NoError(t, tl.lib.DeleteBook(context.Background(), hobbit.ID))
	})
}
