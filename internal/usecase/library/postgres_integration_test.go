//go:build integration

package library

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/project/catalog/db"
	"github.com/project/catalog/internal/entity"
	"github.com/project/catalog/internal/usecase/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func newPostgresCatalog(t *testing.T) (*libraryImpl, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("can not terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.SetupPostgres(ctx, pool, zap.NewNop()))

	repo := repository.New(nil, pool)
	lib := New(zap.NewNop(), repo, repo, repository.NewOutbox(pool, 3), repository.NewTransactor(nil, pool))
	return lib, pool
}

func TestPostgresCatalog(t *testing.T) {
	lib, pool := newPostgresCatalog(t)
	ctx := context.Background()

	author, err := lib.CreateAuthor(ctx, &entity.AuthorPayload{Name: "J.R.R. Tolkien", BirthDate: tolkienBirth})
	require.NoError(t, err)

	book, err := lib.CreateBook(ctx, &entity.BookPayload{
		Title:         "The Hobbit",
		PublishedYear: 1937,
		AuthorID:      author.ID,
		Price:         ptr(decimal.RequireFromString("12.99")),
	})
	require.NoError(t, err)
	require.True(t, book.Price.Equal(decimal.RequireFromString("12.99")))

	require.ErrorIs(t, lib.DeleteAuthor(ctx, author.ID), entity.ErrHasDependents)

	_, err = lib.CreateBook(ctx, &entity.BookPayload{
		Title:         "Orphan",
		PublishedYear: 2000,
		AuthorID:      999,
		Price:         ptr(decimal.NewFromInt(1)),
	})
	require.ErrorIs(t, err, entity.ErrReferenceMissing)

	explicit := int64(10)
	_, err = lib.CreateAuthor(ctx, &entity.AuthorPayload{ID: &explicit, Name: "C. S. Lewis", BirthDate: tolkienBirth})
	require.NoError(t, err)
	_, err = lib.CreateAuthor(ctx, &entity.AuthorPayload{ID: &explicit, Name: "C. S. Lewis", BirthDate: tolkienBirth})
	require.ErrorIs(t, err, entity.ErrConflict)

	generated, err := lib.CreateAuthor(ctx, &entity.AuthorPayload{Name: "Owen Barfield", BirthDate: tolkienBirth})
	require.NoError(t, err)
	require.Greater(t, generated.ID, explicit)

	require.NoError(t, lib.DeleteBook(ctx, book.ID))
	require.NoError(t, lib.DeleteAuthor(ctx, author.ID))

	var messages int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM outbox").Scan(&messages))
	require.Equal(t, 6, messages)
}
