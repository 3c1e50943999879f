package entity

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxAuthorNameLength = 100

type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birthDate"`
}

// AuthorPayload is the caller supplied state of an author. ID is optional,
// nil and 0 both mean "not assigned".
type AuthorPayload struct {
	ID        *int64    `json:"id"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birthDate"`
}

func (p *AuthorPayload) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Min(int64(0))),
		validation.Field(&p.Name, validation.Required, notBlank, validation.RuneLength(1, maxAuthorNameLength)),
		validation.Field(&p.BirthDate, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// RequestedID returns the explicit identity of the payload or 0.
func (p *AuthorPayload) RequestedID() int64 {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}

// Apply copies the mutable fields of the payload onto a.
func (p *AuthorPayload) Apply(a *Author) {
	a.Name = p.Name
	a.BirthDate = DateOf(p.BirthDate)
}

// DateOf drops the clock part of t, keeping the calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
