package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/project/catalog/internal/entity"
)

const bookColumns = `id, title, published_year, author_id, price::text`

func (p *postgresRepository) GetBook(ctx context.Context, id int64) (entity.Book, error) {
	db, lock := p.conn(ctx)

	query := `
SELECT ` + bookColumns + `
FROM book
WHERE id = $1` + lock

	book, err := scanBook(db.QueryRow(ctx, query, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Book{}, fmt.Errorf("book with ID %d was not found: %w", id, entity.ErrBookNotFound)
	}

	if err != nil {
		return entity.Book{}, err
	}

	return book, nil
}

func (p *postgresRepository) ListBooks(ctx context.Context) ([]entity.Book, error) {
	db, _ := p.conn(ctx)

	const query = `
SELECT ` + bookColumns + `
FROM book
ORDER BY id
`
	return p.queryBooks(ctx, db, query)
}

func (p *postgresRepository) ListAuthorBooks(ctx context.Context, authorID int64) ([]entity.Book, error) {
	db, _ := p.conn(ctx)

	const query = `
SELECT ` + bookColumns + `
FROM book
WHERE author_id = $1
ORDER BY id
`
	return p.queryBooks(ctx, db, query, authorID)
}

func (p *postgresRepository) queryBooks(ctx context.Context, db DataBase, query string, args ...any) ([]entity.Book, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]entity.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

func (p *postgresRepository) CountAuthorBooks(ctx context.Context, authorID int64) (int, error) {
	db, _ := p.conn(ctx)

	const query = `
SELECT count(*)
FROM book
WHERE author_id = $1
`
	var count int
	if err := db.QueryRow(ctx, query, authorID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (p *postgresRepository) InsertBook(ctx context.Context, book entity.Book) (entity.Book, error) {
	db, _ := p.conn(ctx)

	var (
		result entity.Book
		err    error
	)
	if book.ID == unassignedID {
		const query = `
INSERT INTO book (title, published_year, author_id, price)
VALUES ($1, $2, $3, $4::numeric)
RETURNING ` + bookColumns

		result, err = scanBook(db.QueryRow(ctx, query,
			book.Title, book.PublishedYear, book.AuthorID, book.Price.String()))
	} else {
		const query = `
INSERT INTO book (id, title, published_year, author_id, price)
VALUES ($1, $2, $3, $4, $5::numeric)
RETURNING ` + bookColumns

		result, err = scanBook(db.QueryRow(ctx, query,
			book.ID, book.Title, book.PublishedYear, book.AuthorID, book.Price.String()))
		if err == nil {
			err = p.syncSequence(ctx, db, "book")
		}
	}

	switch pgCode(err) {
	case ErrUniqueViolation:
		return entity.Book{}, fmt.Errorf("book with ID %d already exists: %w", book.ID, entity.ErrConflict)
	case ErrForeignKeyViolation:
		return entity.Book{}, fmt.Errorf("author with ID %d does not exist: %w", book.AuthorID, entity.ErrReferenceMissing)
	}

	if err != nil {
		return entity.Book{}, err
	}

	return result, nil
}

func (p *postgresRepository) UpdateBook(ctx context.Context, book entity.Book) (entity.Book, error) {
	db, _ := p.conn(ctx)

	const query = `
UPDATE book SET title = $1, published_year = $2, author_id = $3, price = $4::numeric
WHERE id = $5
RETURNING ` + bookColumns

	result, err := scanBook(db.QueryRow(ctx, query,
		book.Title, book.PublishedYear, book.AuthorID, book.Price.String(), book.ID))

	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Book{}, fmt.Errorf("book with ID %d was not found: %w", book.ID, entity.ErrBookNotFound)
	}

	if pgCode(err) == ErrForeignKeyViolation {
		return entity.Book{}, fmt.Errorf("author with ID %d does not exist: %w", book.AuthorID, entity.ErrReferenceMissing)
	}

	if err != nil {
		return entity.Book{}, err
	}

	return result, nil
}

func (p *postgresRepository) DeleteBook(ctx context.Context, id int64) error {
	db, _ := p.conn(ctx)

	const query = `
DELETE FROM book WHERE id = $1
`
	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book with ID %d was not found: %w", id, entity.ErrBookNotFound)
	}

	return nil
}
