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

const authorKind = "author"

func (l *libraryImpl) ListAuthors(ctx context.Context) ([]entity.Author, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	authors, err := l.authorRepository.ListAuthors(ctx)

	if log.ErrorListAuthors(l.logger, err, "Failed list authors", traceID) {
		span.RecordError(err)
		return nil, entity.StoreFailure(err)
	}

	log.InfoListAuthors(l.logger, "Listed authors", traceID, len(authors))
	return authors, nil
}

func (l *libraryImpl) GetAuthor(ctx context.Context, id int64) (entity.Author, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.Int64("author_id", id))

	author, err := l.authorRepository.GetAuthor(ctx, id)

	if log.ErrorAuthor(l.logger, log.GetAuthor, err, "Failed get author", traceID, id) {
		span.RecordError(err)
		return entity.Author{}, entity.StoreFailure(err)
	}

	log.InfoAuthor(l.logger, log.GetAuthor, "Got the author", traceID, id)
	return author, nil
}

func (l *libraryImpl) CreateAuthor(ctx context.Context, payload *entity.AuthorPayload) (entity.Author, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	if payload == nil {
		err := fmt.Errorf("author is required: %w", entity.ErrInvalid)
		log.ErrorCreateAuthor(l.logger, err, "Got empty author", traceID, "")
		return entity.Author{}, err
	}

	log.InfoCreateAuthor(l.logger, "Start of create author", traceID, payload.Name)

	if err := payload.Validate(); log.ErrorCreateAuthor(l.logger, err, "Got invalid author", traceID, payload.Name) {
		span.RecordError(err)
		return entity.Author{}, err
	}

	var author entity.Author
	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		id, txErr := resolveID(ctx, authorKind, l.authorExists, payload.RequestedID())
		if txErr != nil {
			return txErr
		}

		author = entity.Author{ID: id}
		payload.Apply(&author)

		author, txErr = l.authorRepository.InsertAuthor(ctx, author)
		if txErr != nil {
			return txErr
		}

		return l.publish(ctx, repository.OutboxKindAuthor, ActionCreated, author.ID, author)
	})

	if log.ErrorCreateAuthor(l.logger, err, "Failed create author", traceID, payload.Name) {
		span.SetAttributes(attribute.String("author_name", payload.Name))
		span.RecordError(err)
		return entity.Author{}, entity.StoreFailure(err)
	}

	span.SetAttributes(attribute.Int64("author_id", author.ID))
	log.InfoCreateAuthor(l.logger, "Created the author", traceID, author.Name, author.ID)
	return author, nil
}

func (l *libraryImpl) UpdateAuthor(ctx context.Context, id int64, payload *entity.AuthorPayload) (entity.Author, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.Int64("author_id", id))

	if payload != nil {
		if err := payload.Validate(); log.ErrorUpdateAuthor(l.logger, err, "Got invalid author", traceID, id) {
			span.RecordError(err)
			return entity.Author{}, err
		}
		log.InfoUpdateAuthor(l.logger, "Start of update author", traceID, id, payload.Name)
	}

	var author entity.Author
	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		var txErr error
		if author, txErr = l.authorRepository.GetAuthor(ctx, id); txErr != nil {
			return txErr
		}

		if payload == nil {
			return fmt.Errorf("author is required: %w", entity.ErrInvalid)
		}

		if requested := payload.RequestedID(); requested != unassignedID && requested != id {
			return fmt.Errorf("author ID %d in the payload does not match ID %d: %w", requested, id, entity.ErrConflict)
		}

		payload.Apply(&author)

		if author, txErr = l.authorRepository.UpdateAuthor(ctx, author); txErr != nil {
			return txErr
		}

		return l.publish(ctx, repository.OutboxKindAuthor, ActionUpdated, author.ID, author)
	})

	if log.ErrorUpdateAuthor(l.logger, err, "Failed update author", traceID, id) {
		span.RecordError(err)
		return entity.Author{}, entity.StoreFailure(err)
	}

	log.InfoUpdateAuthor(l.logger, "Updated the author", traceID, id, author.Name)
	return author, nil
}

func (l *libraryImpl) DeleteAuthor(ctx context.Context, id int64) error {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.Int64("author_id", id))
	log.InfoAuthor(l.logger, log.DeleteAuthor, "Start of delete author", traceID, id)

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		author, txErr := l.authorRepository.GetAuthor(ctx, id)
		if txErr != nil {
			return txErr
		}

		if txErr = l.canDeleteAuthor(ctx, id); txErr != nil {
			return txErr
		}

		if txErr = l.authorRepository.DeleteAuthor(ctx, id); txErr != nil {
			return txErr
		}

		return l.publish(ctx, repository.OutboxKindAuthor, ActionDeleted, id, author)
	})

	if log.ErrorAuthor(l.logger, log.DeleteAuthor, err, "Failed delete author", traceID, id) {
		span.RecordError(err)
		return entity.StoreFailure(err)
	}

	log.InfoAuthor(l.logger, log.DeleteAuthor, "Deleted the author", traceID, id)
	return nil
}

func (l *libraryImpl) GetAuthorBooks(ctx context.Context, id int64) ([]entity.Book, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.Int64("author_id", id))

	var books []entity.Book
	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		if _, txErr := l.authorRepository.GetAuthor(ctx, id); txErr != nil {
			return txErr
		}

		var txErr error
		books, txErr = l.booksRepository.ListAuthorBooks(ctx, id)
		return txErr
	})

	if log.ErrorAuthor(l.logger, log.GetAuthorBooks, err, "Failed get author books", traceID, id) {
		span.RecordError(err)
		return nil, entity.StoreFailure(err)
	}

	log.InfoAuthor(l.logger, log.GetAuthorBooks, "Got the author books", traceID, id)
	return books, nil
}
