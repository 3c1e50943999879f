package entity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalid          = errors.New("invalid payload")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrReferenceMissing = errors.New("referenced author does not exist")
	ErrHasDependents    = errors.New("author has books")
	ErrStoreFailure     = errors.New("store failure")
)

var (
	ErrAuthorNotFound = fmt.Errorf("author %w", ErrNotFound)
	ErrBookNotFound   = fmt.Errorf("book %w", ErrNotFound)
)

// Failure classifies an error returned by a catalog operation.
type Failure uint8

const (
	FailureNone Failure = iota
	FailureInvalid
	FailureNotFound
	FailureConflict
	FailureReferenceMissing
	FailureHasDependents
	FailureStore
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "NONE"
	case FailureInvalid:
		return "INVALID"
	case FailureNotFound:
		return "NOT_FOUND"
	case FailureConflict:
		return "CONFLICT"
	case FailureReferenceMissing:
		return "REFERENCE_MISSING"
	case FailureHasDependents:
		return "HAS_DEPENDENTS"
	default:
		return "STORE_FAILURE"
	}
}

// Classify maps err onto the failure taxonomy. Anything that is not one of
// the catalog sentinels is reported as a store failure.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrInvalid):
		return FailureInvalid
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrConflict):
		return FailureConflict
	case errors.Is(err, ErrReferenceMissing):
		return FailureReferenceMissing
	case errors.Is(err, ErrHasDependents):
		return FailureHasDependents
	default:
		return FailureStore
	}
}

// StoreFailure wraps an unclassified store error, leaving classified ones as is.
func StoreFailure(err error) error {
	if err == nil || Classify(err) != FailureStore || errors.Is(err, ErrStoreFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreFailure, err)
}
