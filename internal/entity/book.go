package entity

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

const (
	maxBookTitleLength = 200
	minPublishedYear   = 1
	maxPublishedYear   = 9999
)

type Book struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	PublishedYear int             `json:"publishedYear"`
	AuthorID      int64           `json:"authorId"`
	Price         decimal.Decimal `json:"price"`
}

// BookPayload is the caller supplied state of a book. Price is a pointer so
// that a missing price can be told apart from a free book.
type BookPayload struct {
	ID            *int64           `json:"id"`
	Title         string           `json:"title"`
	PublishedYear int              `json:"publishedYear"`
	AuthorID      int64            `json:"authorId"`
	Price         *decimal.Decimal `json:"price"`
}

func (p *BookPayload) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Min(int64(0))),
		validation.Field(&p.Title, validation.Required, notBlank, validation.RuneLength(1, maxBookTitleLength)),
		validation.Field(&p.PublishedYear, validation.Required, validation.Min(minPublishedYear), validation.Max(maxPublishedYear)),
		validation.Field(&p.AuthorID, validation.Required, validation.Min(int64(1))),
		validation.Field(&p.Price, validation.Required, validation.By(nonNegative)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (p *BookPayload) RequestedID() int64 {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}

// Apply copies the mutable fields of the payload onto b. The identity of b
// is never touched.
func (p *BookPayload) Apply(b *Book) {
	b.Title = p.Title
	b.PublishedYear = p.PublishedYear
	b.AuthorID = p.AuthorID
	if p.Price != nil {
		b.Price = *p.Price
	}
}

var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

func nonNegative(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	default:
		return errors.New("must be a decimal")
	}
	if d.IsNegative() {
		return errors.New("must be no less than 0")
	}
	return nil
}
