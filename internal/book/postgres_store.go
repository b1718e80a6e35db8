package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresStore persists books in PostgreSQL. The UNIQUE constraint on isbn
// enforces uniqueness atomically across concurrent writers.
type PostgresStore struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresStore(db *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

const bookColumns = "id, title, author, genre, isbn, published_year, description, cover_url, created_at"

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.ISBN,
		&b.PublishedYear, &b.Description, &b.CoverURL, &b.CreatedAt,
	)
	return b, err
}

func (s *PostgresStore) Insert(ctx context.Context, f Fields) (Book, error) {
	const query = `
		INSERT INTO books (title, author, genre, isbn, published_year, description, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bookColumns

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(s.db.QueryRow(timeoutCtx, query,
		f.Title, f.Author, f.Genre, f.ISBN, f.PublishedYear, f.Description, f.CoverURL,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Book{}, ErrDuplicateISBN
		}
		return Book{}, err
	}
	return b, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(s.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC, id DESC`
	return s.queryBooks(ctx, query)
}

func (s *PostgresStore) FindByText(ctx context.Context, query string) ([]Book, error) {
	if query == "" {
		return s.ListAll(ctx)
	}
	const sql = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE $1 OR author ILIKE $1 OR genre ILIKE $1
		ORDER BY created_at DESC, id DESC`
	return s.queryBooks(ctx, sql, "%"+escapeLike(query)+"%")
}

func (s *PostgresStore) queryBooks(ctx context.Context, sql string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Replace(ctx context.Context, id string, f Fields) (Book, error) {
	const query = `
		UPDATE books
		SET title = $2, author = $3, genre = $4, isbn = $5,
		    published_year = $6, description = $7, cover_url = $8
		WHERE id = $1
		RETURNING ` + bookColumns

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(s.db.QueryRow(timeoutCtx, query,
		id, f.Title, f.Author, f.Genre, f.ISBN, f.PublishedYear, f.Description, f.CoverURL,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Book{}, ErrDuplicateISBN
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (Book, error) {
	const query = `DELETE FROM books WHERE id = $1 RETURNING ` + bookColumns

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(s.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// escapeLike escapes LIKE metacharacters so the user query is matched as a
// literal substring.
func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(q)
}
