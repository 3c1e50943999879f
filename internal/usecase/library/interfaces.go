package library

import (
	"context"

	"github.com/project/catalog/internal/entity"
)

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
