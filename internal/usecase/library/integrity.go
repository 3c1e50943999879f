package library

import (
	"context"
	"fmt"

	"github.com/project/catalog/internal/entity"
)

func (l *libraryImpl) validateAuthorExists(ctx context.Context, authorID int64) error {
	ok, err := l.authorExists(ctx, authorID)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("author with ID %d does not exist: %w", authorID, entity.ErrReferenceMissing)
	}

	return nil
}

func (l *libraryImpl) canDeleteAuthor(ctx context.Context, authorID int64) error {
	count, err := l.booksRepository.CountAuthorBooks(ctx, authorID)
	if err != nil {
		return err
	}

	if count > 0 {
		return fmt.Errorf("author with ID %d has %d books and cannot be deleted: %w",
			authorID, count, entity.ErrHasDependents)
	}

	return nil
}
