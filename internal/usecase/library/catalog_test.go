package library

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/project/catalog/db"
	"github.com/project/catalog/internal/entity"
	"github.com/project/catalog/internal/usecase/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newSQLiteCatalog runs the catalog on a fresh SQLite database.
func newSQLiteCatalog(t *testing.T) *libraryImpl {
	t.Helper()

	sqlDB, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.SetupSQLite(context.Background(), sqlDB, nil))

	repo := repository.NewSQLite(nil, sqlDB)
	return New(zap.NewNop(), repo, repo, nil, repository.NewSQLiteTransactor(nil, sqlDB))
}

func TestCatalog_TolkienScenario(t *testing.T) {
	t.Parallel()

	lib := newSQLiteCatalog(t)
	ctx := context.Background()

	author, err := lib.CreateAuthor(ctx, &entity.AuthorPayload{Name: "J.R.R. Tolkien", BirthDate: tolkienBirth})
	require.NoError(t, err)
	require.Equal(t, int64(1), author.ID)

	book, err := lib.CreateBook(ctx, &entity.BookPayload{
		Title:         "The Hobbit",
		PublishedYear: 1937,
		AuthorID:      author.ID,
		Price:         ptr(decimal.RequireFromString("12.99")),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), book.ID)
	require.Equal(t, author.ID, book.AuthorID)

	err = lib.DeleteAuthor(ctx, author.ID)
	require.ErrorIs(t, err, entity.ErrHasDependents)

	books, err := lib.GetAuthorBooks(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)

	require.NoError(t, lib.DeleteBook(ctx, book.ID))
	require.NoError(t, lib.DeleteAuthor(ctx, author.ID))

	_, err = lib.GetAuthor(ctx, author.ID)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCatalog_DanglingReference(t *testing.T) {
	t.Parallel()

	lib := newSQLiteCatalog(t)
	ctx := context.Background()

	_, err := lib.CreateBook(ctx, &entity.BookPayload{
		Title:         "Orphan",
		PublishedYear: 2000,
		AuthorID:      999,
		Price:         ptr(decimal.NewFromInt(10)),
	})
	require.ErrorIs(t, err, entity.ErrReferenceMissing)

	books, err := lib.ListBooks(ctx)
	require.NoError(t, err)
	require.Empty(t, books)

	author, err := lib.CreateAuthor(ctx, tolkienPayload())
	require.NoError(t, err)

	book, err := lib.CreateBook(ctx, &entity.BookPayload{
		Title:         "The Hobbit",
		PublishedYear: 1937,
		AuthorID:      author.ID,
		Price:         ptr(decimal.NewFromInt(10)),
	})
	require.NoError(t, err)

	moved := hobbitPayload()
	moved.AuthorID = 999
	_, err = lib.UpdateBook(ctx, book.ID, moved)
	require.ErrorIs(t, err, entity.ErrReferenceMissing)

	stored, err := lib.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, author.ID, stored.AuthorID)
}

func TestCatalog_ExplicitIdentity(t *testing.T) {
	t.Parallel()

	lib := newSQLiteCatalog(t)
	ctx := context.Background()

	payload := &entity.AuthorPayload{ID: ptr(int64(1)), Name: "X", BirthDate: tolkienBirth}

	first, err := lib.CreateAuthor(ctx, payload)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)

	_, err = lib.CreateAuthor(ctx, payload)
	require.ErrorIs(t, err, entity.ErrConflict)

	authors, err := lib.ListAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	require.Equal(t, "X", authors[0].Name)

	far, err := lib.CreateAuthor(ctx, &entity.AuthorPayload{ID: ptr(int64(40)), Name: "Far", BirthDate: tolkienBirth})
	require.NoError(t, err)
	require.Equal(t, int64(40), far.ID)

	next, err := lib.CreateAuthor(ctx, &entity.AuthorPayload{Name: "Next", BirthDate: tolkienBirth})
	require.NoError(t, err)
	require.Greater(t, next.ID, far.ID)
}

func TestCatalog_RoundTripAndIdempotentUpdate(t *testing.T) {
	t.Parallel()

	lib := newSQLiteCatalog(t)
	ctx := context.Background()

	author, err := lib.CreateAuthor(ctx, tolkienPayload())
	require.NoError(t, err)

	got, err := lib.GetAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Equal(t, author, got)

	payload := hobbitPayload()
	payload.AuthorID = author.ID
	book, err := lib.CreateBook(ctx, payload)
	require.NoError(t, err)

	gotBook, err := lib.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, book.Title, gotBook.Title)
	require.Equal(t, book.PublishedYear, gotBook.PublishedYear)
	require.True(t, book.Price.Equal(gotBook.Price))

	once, err := lib.UpdateBook(ctx, book.ID, payload)
	require.NoError(t, err)
	twice, err := lib.UpdateBook(ctx, book.ID, payload)
	require.NoError(t, err)
	require.Equal(t, once.ID, twice.ID)
	require.Equal(t, once.Title, twice.Title)
	require.True(t, once.Price.Equal(twice.Price))

	renamed := tolkienPayload()
	renamed.Name = "Tolkien"
	a1, err := lib.UpdateAuthor(ctx, author.ID, renamed)
	require.NoError(t, err)
	a2, err := lib.UpdateAuthor(ctx, author.ID, renamed)
	require.NoError(t, err)
	require.Equal(t, a1, a2)

	_, err = lib.UpdateAuthor(ctx, 999, renamed)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCatalog_ConcurrentExplicitCreates(t *testing.T) {
	t.Parallel()

	lib := newSQLiteCatalog(t)
	ctx := context.Background()

	const workers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := lib.CreateAuthor(ctx, &entity.AuthorPayload{ID: ptr(int64(7)), Name: "Racer", BirthDate: tolkienBirth})

			mu.Lock()
			defer mu.Unlock()
			switch entity.Classify(err) {
			case entity.FailureNone:
				succeeded++
			case entity.FailureConflict:
				conflicts++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)
	require.Equal(t, workers-1, conflicts)
}
