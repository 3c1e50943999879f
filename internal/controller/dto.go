package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project/catalog/internal/entity"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var birthDateLayouts = []string{time.DateOnly, time.RFC3339, "2006-01-02T15:04:05"}

type (
	authorRequest struct {
		ID        *int64 `json:"id"`
		Name      string `json:"name"`
		BirthDate string `json:"birthDate"`
	}

	authorResponse struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		BirthDate string `json:"birthDate"`
	}

	bookRequest struct {
		ID            *int64           `json:"id"`
		Title         string           `json:"title"`
		PublishedYear int              `json:"publishedYear"`
		AuthorID      int64            `json:"authorId"`
		Price         *decimal.Decimal `json:"price"`
	}

	bookResponse struct {
		ID            int64       `json:"id"`
		Title         string      `json:"title"`
		PublishedYear int         `json:"publishedYear"`
		AuthorID      int64       `json:"authorId"`
		Price         json.Number `json:"price"`
	}
)

func parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not an integer", entity.ErrInvalid, raw)
	}
	return id, nil
}

// decodeBody reads a JSON object into a fresh T. An empty body or a JSON
// null yields nil.
func decodeBody[T any](c *gin.Context) (*T, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: can not read body: %w", entity.ErrInvalid, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var req *T
	if err = json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %w", entity.ErrInvalid, err)
	}
	return req, nil
}

func decodeAuthor(c *gin.Context) (*entity.AuthorPayload, error) {
	req, err := decodeBody[authorRequest](c)
	if err != nil || req == nil {
		return nil, err
	}

	payload := &entity.AuthorPayload{ID: req.ID, Name: req.Name}
	if req.BirthDate == "" {
		return payload, nil
	}

	for _, layout := range birthDateLayouts {
		if payload.BirthDate, err = time.Parse(layout, req.BirthDate); err == nil {
			return payload, nil
		}
	}
	return nil, fmt.Errorf("%w: birthDate %q is not a date", entity.ErrInvalid, req.BirthDate)
}

func decodeBook(c *gin.Context) (*entity.BookPayload, error) {
	req, err := decodeBody[bookRequest](c)
	if err != nil || req == nil {
		return nil, err
	}

	return &entity.BookPayload{
		ID:            req.ID,
		Title:         req.Title,
		PublishedYear: req.PublishedYear,
		AuthorID:      req.AuthorID,
		Price:         req.Price,
	}, nil
}

func newAuthorResponse(author entity.Author) authorResponse {
	return authorResponse{
		ID:        author.ID,
		Name:      author.Name,
		BirthDate: author.BirthDate.Format(time.DateOnly),
	}
}

func newBookResponse(book entity.Book) bookResponse {
	return bookResponse{
		ID:            book.ID,
		Title:         book.Title,
		PublishedYear: book.PublishedYear,
		AuthorID:      book.AuthorID,
		Price:         json.Number(book.Price.String()),
	}
}

func newAuthorsResponse(authors []entity.Author) []authorResponse {
	return lo.Map(authors, func(a entity.Author, _ int) authorResponse {
		return newAuthorResponse(a)
	})
}

func newBooksResponse(books []entity.Book) []bookResponse {
	return lo.Map(books, func(b entity.Book, _ int) bookResponse {
		return newBookResponse(b)
	})
}
