package repository

import (
	"context"
	"time"

	"github.com/project/catalog/internal/entity"
)

type (
	// AuthorRepository reports entity.ErrAuthorNotFound for unknown ids and
	// entity.ErrConflict for an explicit id that is already taken.
	AuthorRepository interface {
		GetAuthor(ctx context.Context, id int64) (entity.Author, error)
		ListAuthors(ctx context.Context) ([]entity.Author, error)
		InsertAuthor(ctx context.Context, author entity.Author) (entity.Author, error)
		UpdateAuthor(ctx context.Context, author entity.Author) (entity.Author, error)
		DeleteAuthor(ctx context.Context, id int64) error
	}

	BooksRepository interface {
		GetBook(ctx context.Context, id int64) (entity.Book, error)
		ListBooks(ctx context.Context) ([]entity.Book, error)
		InsertBook(ctx context.Context, book entity.Book) (entity.Book, error)
		UpdateBook(ctx context.Context, book entity.Book) (entity.Book, error)
		DeleteBook(ctx context.Context, id int64) error
		CountAuthorBooks(ctx context.Context, authorID int64) (int, error)
		ListAuthorBooks(ctx context.Context, authorID int64) ([]entity.Book, error)
	}

	OutboxRepository interface {
		SendMessage(ctx context.Context, idempotencyKey string, kind OutboxKind, message []byte) error
		GetMessages(ctx context.Context, batchSize int, inProgressTTL time.Duration) ([]OutboxData, error)
		MarkAs(ctx context.Context, idempotencyKeys []string, s Status) error
	}

	OutboxData struct {
		IdempotencyKey string
		Kind           OutboxKind
		RawData        []byte
	}

	Transactor interface {
		WithTx(ctx context.Context, function func(ctx context.Context) error) error
	}
)

// unassignedID asks the store to pick the identity on insert.
const unassignedID int64 = 0

type OutboxKind int

const (
	OutboxKindUndefined OutboxKind = iota
	OutboxKindAuthor
	OutboxKindBook
)

func (o OutboxKind) String() string {
	switch o {
	case OutboxKindAuthor:
		return "author"
	case OutboxKindBook:
		return "book"
	default:
		return "undefined"
	}
}
