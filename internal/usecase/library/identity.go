package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/project/catalog/internal/entity"
)

// unassignedID lets the store pick the identity on insert.
const unassignedID int64 = 0

type lookup[T any] func(ctx context.Context, id int64) (T, error)

// exists reports whether an entity with id is stored. Only a not-found
// lookup counts as absence; other failures are returned.
func exists[T any](ctx context.Context, get lookup[T], id int64) (bool, error) {
	_, err := get(ctx, id)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, entity.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// resolveID returns the identity a new entity is inserted with: the
// requested one when it is free, or unassignedID when none was requested.
// A taken identity is a conflict and is never overwritten.
func resolveID(
	ctx context.Context,
	kind string,
	isTaken func(ctx context.Context, id int64) (bool, error),
	requested int64,
) (int64, error) {
	if requested == unassignedID {
		return unassignedID, nil
	}

	taken, err := isTaken(ctx, requested)
	if err != nil {
		return 0, err
	}

	if taken {
		return 0, fmt.Errorf("%s with ID %d already exists: %w", kind, requested, entity.ErrConflict)
	}

	return requested, nil
}

func (l *libraryImpl) authorExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, l.authorRepository.GetAuthor, id)
}

func (l *libraryImpl) bookExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, l.booksRepository.GetBook, id)
}
