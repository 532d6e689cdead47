// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shelfmark/internal/platform/apperr"
	"github.com/taibuivan/shelfmark/internal/platform/database/schema"
	"github.com/taibuivan/shelfmark/internal/platform/dberr"
	"github.com/taibuivan/shelfmark/pkg/pagination"
)

// PostgresRepository implements [Repository] against PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs the catalog storage layer.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Write Path

func (repository *PostgresRepository) CreateBook(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		schema.CatalogBook.Table,
		strings.Join(schema.CatalogBook.Columns(), ", "),
	)

	_, err := repository.db.Exec(context, query,
		book.ID, book.Slug, book.Title, book.Author, book.ISBN,
		book.PublicationYear, book.Genre, book.Description, book.PageCount, book.AddedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperr.Conflict("A book with the same slug or ISBN already exists")
		}
		return dberr.Wrap(err, "create_book")
	}

	return nil
}

func (repository *PostgresRepository) UpdateBook(context context.Context, book *Book) error {
	// Slug stays fixed after creation so existing links keep resolving.
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1
	`,
		schema.CatalogBook.Table,
		schema.CatalogBook.Title, schema.CatalogBook.Author, schema.CatalogBook.ISBN,
		schema.CatalogBook.PublicationYear, schema.CatalogBook.Genre,
		schema.CatalogBook.Description, schema.CatalogBook.PageCount,
		schema.CatalogBook.ID,
	)

	result, err := repository.db.Exec(context, query,
		book.ID, book.Title, book.Author, book.ISBN,
		book.PublicationYear, book.Genre, book.Description, book.PageCount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperr.Conflict("Another book already carries this ISBN")
		}
		return dberr.Wrap(err, "update_book")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Book")
	}

	return nil
}

// # Read Path

func (repository *PostgresRepository) GetBookByID(context context.Context, bookID string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.CatalogBook.Columns(), ", "),
		schema.CatalogBook.Table, schema.CatalogBook.ID)

	return repository.getBook(context, query, bookID)
}

func (repository *PostgresRepository) GetBookBySlug(context context.Context, slug string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.CatalogBook.Columns(), ", "),
		schema.CatalogBook.Table, schema.CatalogBook.Slug)

	return repository.getBook(context, query, slug)
}

func (repository *PostgresRepository) ListBooks(context context.Context, params pagination.Params) ([]*Book, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.CatalogBook.Table)

	total := 0
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_books")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`,
		strings.Join(schema.CatalogBook.Columns(), ", "),
		schema.CatalogBook.Table,
		schema.CatalogBook.Title,
	)

	books, err := repository.queryBooks(context, listQuery, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (repository *PostgresRepository) SearchBooks(context context.Context, query string, params pagination.Params) ([]*Book, int, error) {
	pattern := "%" + query + "%"

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE %s ILIKE $1 OR %s ILIKE $1
	`,
		schema.CatalogBook.Table,
		schema.CatalogBook.Title, schema.CatalogBook.Author,
	)

	total := 0
	if err := repository.db.QueryRow(context, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_book_search")
	}

	searchQuery := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s ILIKE $1 OR %s ILIKE $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`,
		strings.Join(schema.CatalogBook.Columns(), ", "),
		schema.CatalogBook.Table,
		schema.CatalogBook.Title, schema.CatalogBook.Author,
		schema.CatalogBook.Title,
	)

	books, err := repository.queryBooks(context, searchQuery, pattern, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// # Scan Helpers

func (repository *PostgresRepository) getBook(context context.Context, query string, argument any) (*Book, error) {
	book, err := scanBook(repository.db.QueryRow(context, query, argument))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Book")
		}
		return nil, dberr.Wrap(err, "get_book")
	}

	return book, nil
}

func (repository *PostgresRepository) queryBooks(context context.Context, query string, arguments ...any) ([]*Book, error) {
	rows, err := repository.db.Query(context, query, arguments...)
	if err != nil {
		return nil, dberr.Wrap(err, "query_books")
	}
	defer rows.Close()

	books := make([]*Book, 0)
	for rows.Next() {
		book := &Book{}
		err := rows.Scan(
			&book.ID, &book.Slug, &book.Title, &book.Author, &book.ISBN,
			&book.PublicationYear, &book.Genre, &book.Description, &book.PageCount, &book.AddedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_book")
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

// scanBook hydrates a [Book] from the canonical column order of
// [schema.CatalogBookTable.Columns].
func scanBook(row pgx.Row) (*Book, error) {
	book := &Book{}
	err := row.Scan(
		&book.ID, &book.Slug, &book.Title, &book.Author, &book.ISBN,
		&book.PublicationYear, &book.Genre, &book.Description, &book.PageCount, &book.AddedAt,
	)
	if err != nil {
		return nil, err
	}

	return book, nil
}
