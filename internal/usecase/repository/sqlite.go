package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/project/catalog/internal/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteDateLayout = time.DateOnly

var _ AuthorRepository = (*sqliteRepository)(nil)
var _ BooksRepository = (*sqliteRepository)(nil)

type SQLDataBase interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqliteRepository struct {
	logger *zap.Logger
	db     SQLDataBase
}

func NewSQLite(logger *zap.Logger, db SQLDataBase) *sqliteRepository {
	return &sqliteRepository{
		logger: logger,
		db:     db,
	}
}

// OpenSQLite opens the database file at path, creating its directory when
// needed. Foreign keys are enforced and transactions take the write lock
// on BEGIN.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	return db, nil
}

func (s *sqliteRepository) conn(ctx context.Context) SQLDataBase {
	if tx, err := extractSQLTx(ctx); err == nil {
		return tx
	}
	return s.db
}

func sqliteCode(err error) int {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}

func isUniqueViolation(err error) bool {
	code := sqliteCode(err)
	return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// isForeignKeyViolation matches both immediate foreign key failures and the
// RESTRICT action, which SQLite reports as SQLITE_CONSTRAINT_TRIGGER.
func isForeignKeyViolation(err error) bool {
	switch sqliteCode(err) {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT_TRIGGER:
		return strings.Contains(err.Error(), "FOREIGN KEY")
	default:
		return false
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteAuthor(row scanner) (entity.Author, error) {
	var (
		author    entity.Author
		birthDate string
	)
	if err := row.Scan(&author.ID, &author.Name, &birthDate); err != nil {
		return entity.Author{}, err
	}

	var err error
	if author.BirthDate, err = time.Parse(sqliteDateLayout, birthDate); err != nil {
		return entity.Author{}, fmt.Errorf("can not parse birth date of author %d: %w", author.ID, err)
	}

	return author, nil
}

func scanSQLiteBook(row scanner) (entity.Book, error) {
	var (
		book  entity.Book
		price string
	)
	if err := row.Scan(&book.ID, &book.Title, &book.PublishedYear, &book.AuthorID, &price); err != nil {
		return entity.Book{}, err
	}

	var err error
	if book.Price, err = decimal.NewFromString(price); err != nil {
		return entity.Book{}, fmt.Errorf("can not parse price of book %d: %w", book.ID, err)
	}

	return book, nil
}

// nullableID binds the unassigned identity as NULL so that SQLite picks the
// next rowid.
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != unassignedID}
}

func (s *sqliteRepository) GetAuthor(ctx context.Context, id int64) (entity.Author, error) {
	const query = `
SELECT id, name, birth_date
FROM author
WHERE id = ?
`
	author, err := scanSQLiteAuthor(s.conn(ctx).QueryRowContext(ctx, query, id))

	if errors.Is(err, sql.ErrNoRows) {
		return entity.Author{}, fmt.Errorf("author with ID %d was not found: %w", id, entity.ErrAuthorNotFound)
	}

	if err != nil {
		return entity.Author{}, err
	}

	return author, nil
}

func (s *sqliteRepository) ListAuthors(ctx context.Context) ([]entity.Author, error) {
	const query = `
SELECT id, name, birth_date
FROM author
ORDER BY id
`
	rows, err := s.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	authors := make([]entity.Author, 0)
	for rows.Next() {
		author, err := scanSQLiteAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}

	return authors, rows.Err()
}

func (s *sqliteRepository) InsertAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	const query = `
INSERT INTO author (id, name, birth_date)
VALUES (?, ?, ?)
RETURNING id, name, birth_date
`
	result, err := scanSQLiteAuthor(s.conn(ctx).QueryRowContext(ctx, query,
		nullableID(author.ID), author.Name, author.BirthDate.Format(sqliteDateLayout)))

	if isUniqueViolation(err) {
		return entity.Author{}, fmt.Errorf("author with ID %d already exists: %w", author.ID, entity.ErrConflict)
	}

	if err != nil {
		return entity.Author{}, err
	}

	return result, nil
}

func (s *sqliteRepository) UpdateAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	const query = `
UPDATE author SET name = ?, birth_date = ?
WHERE id = ?
RETURNING id, name, birth_date
`
	result, err := scanSQLiteAuthor(s.conn(ctx).QueryRowContext(ctx, query,
		author.Name, author.BirthDate.Format(sqliteDateLayout), author.ID))

	if errors.Is(err, sql.ErrNoRows) {
		return entity.Author{}, fmt.Errorf("author with ID %d was not found: %w", author.ID, entity.ErrAuthorNotFound)
	}

	if err != nil {
		return entity.Author{}, err
	}

	return result, nil
}

func (s *sqliteRepository) DeleteAuthor(ctx context.Context, id int64) error {
	const query = `
DELETE FROM author WHERE id = ?
`
	res, err := s.conn(ctx).ExecContext(ctx, query, id)

	if isForeignKeyViolation(err) {
		return fmt.Errorf("author with ID %d still has books: %w", id, entity.ErrHasDependents)
	}

	if err != nil {
		return err
	}

	return notFoundIfNone(res, fmt.Errorf("author with ID %d was not found: %w", id, entity.ErrAuthorNotFound))
}

func notFoundIfNone(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return notFound
	}

	return nil
}

const sqliteBookColumns = `id, title, published_year, author_id, price`

func (s *sqliteRepository) GetBook(ctx context.Context, id int64) (entity.Book, error) {
	const query = `
SELECT ` + sqliteBookColumns + `
FROM book
WHERE id = ?
`
	book, err := scanSQLiteBook(s.conn(ctx).QueryRowContext(ctx, query, id))

	if errors.Is(err, sql.ErrNoRows) {
		return entity.Book{}, fmt.Errorf("book with ID %d was not found: %w", id, entity.ErrBookNotFound)
	}

	if err != nil {
		return entity.Book{}, err
	}

	return book, nil
}

func (s *sqliteRepository) ListBooks(ctx context.Context) ([]entity.Book, error) {
	const query = `
SELECT ` + sqliteBookColumns + `
FROM book
ORDER BY id
`
	return s.queryBooks(ctx, query)
}

func (s *sqliteRepository) ListAuthorBooks(ctx context.Context, authorID int64) ([]entity.Book, error) {
	const query = `
SELECT ` + sqliteBookColumns + `
FROM book
WHERE author_id = ?
ORDER BY id
`
	return s.queryBooks(ctx, query, authorID)
}

func (s *sqliteRepository) queryBooks(ctx context.Context, query string, args ...any) ([]entity.Book, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	books := make([]entity.Book, 0)
	for rows.Next() {
		book, err := scanSQLiteBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

func (s *sqliteRepository) CountAuthorBooks(ctx context.Context, authorID int64) (int, error) {
	const query = `
SELECT count(*)
FROM book
WHERE author_id = ?
`
	var count int
	if err := s.conn(ctx).QueryRowContext(ctx, query, authorID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (s *sqliteRepository) InsertBook(ctx context.Context, book entity.Book) (entity.Book, error) {
	const query = `
INSERT INTO book (id, title, published_year, author_id, price)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + sqliteBookColumns

	result, err := scanSQLiteBook(s.conn(ctx).QueryRowContext(ctx, query,
		nullableID(book.ID), book.Title, book.PublishedYear, book.AuthorID, book.Price.String()))

	switch {
	case isUniqueViolation(err):
		return entity.Book{}, fmt.Errorf("book with ID %d already exists: %w", book.ID, entity.ErrConflict)
	case isForeignKeyViolation(err):
		return entity.Book{}, fmt.Errorf("author with ID %d does not exist: %w", book.AuthorID, entity.ErrReferenceMissing)
	case err != nil:
		return entity.Book{}, err
	}

	return result, nil
}

func (s *sqliteRepository) UpdateBook(ctx context.Context, book entity.Book) (entity.Book, error) {
	const query = `
UPDATE book SET title = ?, published_year = ?, author_id = ?, price = ?
WHERE id = ?
RETURNING ` + sqliteBookColumns

	result, err := scanSQLiteBook(s.conn(ctx).QueryRowContext(ctx, query,
		book.Title, book.PublishedYear, book.AuthorID, book.Price.String(), book.ID))

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return entity.Book{}, fmt.Errorf("book with ID %d was not found: %w", book.ID, entity.ErrBookNotFound)
	case isForeignKeyViolation(err):
		return entity.Book{}, fmt.Errorf("author with ID %d does not exist: %w", book.AuthorID, entity.ErrReferenceMissing)
	case err != nil:
		return entity.Book{}, err
	}

	return result, nil
}

func (s *sqliteRepository) DeleteBook(ctx context.Context, id int64) error {
	const query = `
DELETE FROM book WHERE id = ?
`
	res, err := s.conn(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return notFoundIfNone(res, fmt.Errorf("book with ID %d was not found: %w", id, entity.ErrBookNotFound))
}
