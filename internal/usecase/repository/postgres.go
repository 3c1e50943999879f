package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/project/catalog/internal/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	ErrUniqueViolation     = "23505"
	ErrForeignKeyViolation = "23503"
)

var _ AuthorRepository = (*postgresRepository)(nil)
var _ BooksRepository = (*postgresRepository)(nil)

type DataBase interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type postgresRepository struct {
	logger *zap.Logger
	db     DataBase
}

func New(logger *zap.Logger, db DataBase) *postgresRepository {
	return &postgresRepository{
		logger: logger,
		db:     db,
	}
}

// conn returns the transaction of ctx, or the pool for a single statement.
// Rows read inside a transaction are locked until it ends.
func (p *postgresRepository) conn(ctx context.Context) (DataBase, string) {
	if tx, err := extractTx(ctx); err == nil {
		return tx, " FOR UPDATE"
	}
	return p.db, ""
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func (p *postgresRepository) GetAuthor(ctx context.Context, id int64) (entity.Author, error) {
	db, lock := p.conn(ctx)

	query := `
SELECT id, name, birth_date
FROM author
WHERE id = $1` + lock

	var author entity.Author
	err := db.QueryRow(ctx, query, id).Scan(&author.ID, &author.Name, &author.BirthDate)

	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Author{}, fmt.Errorf("author with ID %d was not found: %w", id, entity.ErrAuthorNotFound)
	}

	if err != nil {
		return entity.Author{}, err
	}

	return author, nil
}

func (p *postgresRepository) ListAuthors(ctx context.Context) ([]entity.Author, error) {
	db, _ := p.conn(ctx)

	const query = `
SELECT id, name, birth_date
FROM author
ORDER BY id
`
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := make([]entity.Author, 0)
	for rows.Next() {
		var author entity.Author
		if err = rows.Scan(&author.ID, &author.Name, &author.BirthDate); err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}

	return authors, rows.Err()
}

func (p *postgresRepository) InsertAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	db, _ := p.conn(ctx)

	var (
		result entity.Author
		err    error
	)
	if author.ID == unassignedID {
		const query = `
INSERT INTO author (name, birth_date)
VALUES ($1, $2)
RETURNING id, name, birth_date
`
		err = db.QueryRow(ctx, query, author.Name, author.BirthDate).
			Scan(&result.ID, &result.Name, &result.BirthDate)
	} else {
		const query = `
INSERT INTO author (id, name, birth_date)
VALUES ($1, $2, $3)
RETURNING id, name, birth_date
`
		err = db.QueryRow(ctx, query, author.ID, author.Name, author.BirthDate).
			Scan(&result.ID, &result.Name, &result.BirthDate)
		if err == nil {
			err = p.syncSequence(ctx, db, "author")
		}
	}

	if pgCode(err) == ErrUniqueViolation {
		return entity.Author{}, fmt.Errorf("author with ID %d already exists: %w", author.ID, entity.ErrConflict)
	}

	if err != nil {
		return entity.Author{}, err
	}

	return result, nil
}

// syncSequence moves the identity sequence of table past an explicitly
// inserted id so that generated ids never collide with it.
func (p *postgresRepository) syncSequence(ctx context.Context, db DataBase, table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT MAX(id) FROM %[1]s))`, table)

	_, err := db.Exec(ctx, query)
	if err != nil && p.logger != nil {
		p.logger.Error("can not move identity sequence", zap.String("table", table), zap.Error(err))
	}
	return err
}

func (p *postgresRepository) UpdateAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	db, _ := p.conn(ctx)

	const query = `
UPDATE author SET name = $1, birth_date = $2
WHERE id = $3
RETURNING id, name, birth_date
`
	var result entity.Author
	err := db.QueryRow(ctx, query, author.Name, author.BirthDate, author.ID).
		Scan(&result.ID, &result.Name, &result.BirthDate)

	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Author{}, fmt.Errorf("author with ID %d was not found: %w", author.ID, entity.ErrAuthorNotFound)
	}

	if err != nil {
		return entity.Author{}, err
	}

	return result, nil
}

func (p *postgresRepository) DeleteAuthor(ctx context.Context, id int64) error {
	db, _ := p.conn(ctx)

	const query = `
DELETE FROM author WHERE id = $1
`
	tag, err := db.Exec(ctx, query, id)

	if pgCode(err) == ErrForeignKeyViolation {
		return fmt.Errorf("author with ID %d still has books: %w", id, entity.ErrHasDependents)
	}

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("author with ID %d was not found: %w", id, entity.ErrAuthorNotFound)
	}

	return nil
}

func scanBook(row pgx.Row) (entity.Book, error) {
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
