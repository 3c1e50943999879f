package controller

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/project/catalog/internal/entity"
	"go.uber.org/zap"
)

//go:generate mockgen -source=service.go -destination=mocks/usecase_mock.go -package=mocks

type (
	AuthorUseCase interface {
		ListAuthors(ctx context.Context) ([]entity.Author, error)
		GetAuthor(ctx context.Context, id int64) (entity.Author, error)
		CreateAuthor(ctx context.Context, payload *entity.AuthorPayload) (entity.Author, error)
		UpdateAuthor(ctx context.Context, id int64, payload *entity.AuthorPayload) (entity.Author, error)
		DeleteAuthor(ctx context.Context, id int64) error
		GetAuthorBooks(ctx context.Context, id int64) ([]entity.Book, error)
	}

	BooksUseCase interface {
		ListBooks(ctx context.Context) ([]entity.Book, error)
		GetBook(ctx context.Context, id int64) (entity.Book, error)
		CreateBook(ctx context.Context, payload *entity.BookPayload) (entity.Book, error)
		UpdateBook(ctx context.Context, id int64, payload *entity.BookPayload) (entity.Book, error)
		DeleteBook(ctx context.Context, id int64) error
	}
)

type implementation struct {
	logger        *zap.Logger
	booksUseCase  BooksUseCase
	authorUseCase AuthorUseCase
}

func New(
	logger *zap.Logger,
	booksUseCase BooksUseCase,
	authorUseCase AuthorUseCase,
) *implementation {
	return &implementation{
		logger:        logger,
		booksUseCase:  booksUseCase,
		authorUseCase: authorUseCase,
	}
}

// Register mounts the catalog routes under /api.
func (i *implementation) Register(router gin.IRouter) {
	api := router.Group("/api", requestID(), tracing(), accessLog(i.logger))

	authors := api.Group("/authors")
	authors.GET("", i.ListAuthors)
	authors.POST("", i.CreateAuthor)
	authors.GET("/:id", i.GetAuthor)
	authors.PUT("/:id", i.UpdateAuthor)
	authors.DELETE("/:id", i.DeleteAuthor)
	authors.GET("/:id/books", i.GetAuthorBooks)

	books := api.Group("/books")
	books.GET("", i.ListBooks)
	books.POST("", i.CreateBook)
	books.GET("/:id", i.GetBook)
	books.PUT("/:id", i.UpdateBook)
	books.DELETE("/:id", i.DeleteBook)
}
