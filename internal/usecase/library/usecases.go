package library

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/project/catalog/internal/entity"
	"github.com/project/catalog/internal/usecase/repository"
	"go.uber.org/zap"
)

//go:generate mockgen -source=usecases.go -destination=mocks/repository_mock.go -package=mocks

type (
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
		SendMessage(ctx context.Context, idempotencyKey string, kind repository.OutboxKind, message []byte) error
		GetMessages(ctx context.Context, batchSize int, inProgressTTL time.Duration) ([]repository.OutboxData, error)
		MarkAs(ctx context.Context, idempotencyKeys []string, s repository.Status) error
	}

	Transactor interface {
		WithTx(ctx context.Context, function func(ctx context.Context) error) error
	}
)

var _ AuthorUseCase = (*libraryImpl)(nil)
var _ BooksUseCase = (*libraryImpl)(nil)

type libraryImpl struct {
	logger           *zap.Logger
	authorRepository AuthorRepository
	booksRepository  BooksRepository
	outboxRepository OutboxRepository
	transactor       Transactor
}

// New builds the catalog. outboxRepository may be nil, in which case no
// change messages are written.
func New(
	logger *zap.Logger,
	authorRepository AuthorRepository,
	booksRepository BooksRepository,
	outboxRepository OutboxRepository,
	transactor Transactor,
) *libraryImpl {
	return &libraryImpl{
		logger:           logger,
		authorRepository: authorRepository,
		booksRepository:  booksRepository,
		outboxRepository: outboxRepository,
		transactor:       transactor,
	}
}

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ChangeMessage is the body delivered by the outbox workers.
type ChangeMessage struct {
	Action Action          `json:"action"`
	Kind   string          `json:"kind"`
	ID     int64           `json:"id"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// publish writes a change message in the transaction of ctx.
func (l *libraryImpl) publish(ctx context.Context, kind repository.OutboxKind, action Action, id int64, data any) error {
	if l.outboxRepository == nil {
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	serialized, err := json.Marshal(ChangeMessage{
		Action: action,
		Kind:   kind.String(),
		ID:     id,
		Data:   raw,
	})
	if err != nil {
		return err
	}

	return l.outboxRepository.SendMessage(ctx, uuid.NewString(), kind, serialized)
}
