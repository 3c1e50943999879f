package library

import (
	"context"
	"fmt"

	"github.com/project/catalog/internal/entity"
	"github.com/project/catalog/internal/log"
	"github.com/project/catalog/internal/usecase/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const bookKind = "book"

func (l *libraryImpl) ListBooks(ctx context.Context) ([]entity.Book, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	books, err := l.booksRepository.ListBooks(ctx)

	if log.ErrorListBooks(l.logger, err, "Failed list books", traceID) {
		span.RecordError(err)
		return nil, entity.StoreFailure(err)
	}

	log.InfoListBooks(l.logger, "Listed books", traceID, len(books))
	return books, nil
}

func (l *libraryImpl) GetBook(ctx context.Context, id int64) (entity.Book, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.Int64("book_id", id))

	book, err := l.booksRepository.GetBook(ctx, id)

	if log.ErrorBook(l.logger, log.GetBook, err, "Failed get book", traceID, id) {
		span.RecordError(err)
		return entity.Book{}, entity.StoreFailure(err)
	}

	log.InfoBook(l.logger, log.GetBook, "Got the book", traceID, id)
	return book, nil
}

func (l *libraryImpl) CreateBook(ctx context.Context, payload *entity.BookPayload) (entity.Book, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	if payload == nil {
		err := fmt.Errorf("book is required: %w", entity.ErrInvalid)
		log.ErrorCreateBook(l.logger, err, "Got empty book", traceID, "", 0)
		return entity.Book{}, err
	}

	log.InfoCreateBook(l.logger, "Start of create book", traceID, payload.Title, payload.AuthorID)

	if err := payload.Validate(); log.ErrorCreateBook(l.logger, err, "Got invalid book", traceID, payload.Title, payload.AuthorID) {
		span.RecordError(err)
		return entity.Book{}, err
	}

	var book entity.Book
	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		id, txErr := resolveID(ctx, bookKind, l.bookExists, payload.RequestedID())
		if txErr != nil {
			return txErr
		}

		if txErr = l.validateAuthorExists(ctx, payload.AuthorID); txErr != nil {
			return txErr
		}

		book = entity.Book{ID: id}
		payload.Apply(&book)

		if book, txErr = l.booksRepository.InsertBook(ctx, book); txErr != nil {
			return txErr
		}

		return l.publish(ctx, repository.OutboxKindBook, ActionCreated, book.ID, book)
	})

	if log.ErrorCreateBook(l.logger, err, "Failed create book", traceID, payload.Title, payload.AuthorID) {
		span.SetAttributes(attribute.String("book_title", payload.Title))
		span.RecordError(err)
		return entity.Book{}, entity.StoreFailure(err)
	}

	span.SetAttributes(attribute.Int64("book_id", book.ID))
	log.InfoCreateBook(l.logger, "Created the book", traceID, book.Title, book.AuthorID, book.ID)
	return book, nil
}

func (l *libraryImpl) UpdateBook(ctx context.Context, id int64, payload *entity.BookPayload) (entity.Book, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.Int64("book_id", id))

	if payload != nil {
		if err := payload.Validate(); log.ErrorUpdateBook(l.logger, err, "Got invalid book", traceID, id) {
			span.RecordError(err)
			return entity.Book{}, err
		}
		log.InfoUpdateBook(l.logger, "Start of update book", traceID, id, payload.Title, payload.AuthorID)
	}

	var book entity.Book
	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		var txErr error
		if book, txErr = l.booksRepository.GetBook(ctx, id); txErr != nil {
			return txErr
		}

		if payload == nil {
			return fmt.Errorf("book is required: %w", entity.ErrInvalid)
		}

		if requested := payload.RequestedID(); requested != unassignedID && requested != id {
			return fmt.Errorf("book ID %d in the payload does not match ID %d: %w", requested, id, entity.ErrConflict)
		}

		if payload.AuthorID != book.AuthorID {
			if txErr = l.validateAuthorExists(ctx, payload.AuthorID); txErr != nil {
				return txErr
			}
		}

		payload.Apply(&book)

		if book, txErr = l.booksRepository.UpdateBook(ctx, book); txErr != nil {
			return txErr
		}

		return l.publish(ctx, repository.OutboxKindBook, ActionUpdated, book.ID, book)
	})

	if log.ErrorUpdateBook(l.logger, err, "Failed update book", traceID, id) {
		span.RecordError(err)
		return entity.Book{}, entity.StoreFailure(err)
	}

	log.InfoUpdateBook(l.logger, "Updated the book", traceID, id, book.Title, book.AuthorID)
	return book, nil
}

func (l *libraryImpl) DeleteBook(ctx context.Context, id int64) error {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.Int64("book_id", id))
	log.InfoBook(l.logger, log.DeleteBook, "Start of delete book", traceID, id)

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		book, txErr := l.booksRepository.GetBook(ctx, id)
		if txErr != nil {
			return txErr
		}

		if txErr = l.booksRepository.DeleteBook(ctx, id); txErr != nil {
			return txErr
		}

		return l.publish(ctx, repository.OutboxKindBook, ActionDeleted, id, book)
	})

	if log.ErrorBook(l.logger, log.DeleteBook, err, "Failed delete book", traceID, id) {
		span.RecordError(err)
		return entity.StoreFailure(err)
	}

	log.InfoBook(l.logger, log.DeleteBook, "Deleted the book", traceID, id)
	return nil
}
