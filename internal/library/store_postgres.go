// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shelfmark/internal/platform/apperr"
	"github.com/taibuivan/shelfmark/internal/platform/database/schema"
	"github.com/taibuivan/shelfmark/internal/platform/dberr"
	"github.com/taibuivan/shelfmark/pkg/pagination"
	"github.com/taibuivan/shelfmark/pkg/pointer"
	"github.com/taibuivan/shelfmark/pkg/uuid"
)

// PostgresRepository implements [Repository] against PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs the library storage layer.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Catalog Reference Access (read-only)

func (repository *PostgresRepository) GetBookRef(context context.Context, bookID string) (*BookRef, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CatalogBook.ID, schema.CatalogBook.Title, schema.CatalogBook.Author,
		schema.CatalogBook.Table, schema.CatalogBook.ID)

	book := &BookRef{}
	err := repository.db.QueryRow(context, query, bookID).Scan(&book.ID, &book.Title, &book.Author)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Book")
		}
		return nil, dberr.Wrap(err, "get_book_ref")
	}

	return book, nil
}

func (repository *PostgresRepository) SearchAvailableBooks(context context.Context, userID, query string) ([]BookRef, error) {
	// NOT EXISTS keeps books the user already shelved out of the result,
	// mirroring the "add to collection" picker semantics.
	searchQuery := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s
		FROM %s b
		WHERE (b.%s ILIKE $2 OR b.%s ILIKE $2)
		AND NOT EXISTS (
			SELECT 1 FROM %s ub
			WHERE ub.%s = b.%s AND ub.%s = $1
		)
		ORDER BY b.%s ASC
	`,
		schema.CatalogBook.ID, schema.CatalogBook.Title, schema.CatalogBook.Author,
		schema.CatalogBook.Table,
		schema.CatalogBook.Title, schema.CatalogBook.Author,
		schema.LibraryUserBook.Table,
		schema.LibraryUserBook.BookID, schema.CatalogBook.ID, schema.LibraryUserBook.UserID,
		schema.CatalogBook.ID,
	)

	rows, err := repository.db.Query(context, searchQuery, userID, "%"+query+"%")
	if err != nil {
		return nil, dberr.Wrap(err, "search_available_books")
	}
	defer rows.Close()

	books := make([]BookRef, 0)
	for rows.Next() {
		book := BookRef{}
		if err := rows.Scan(&book.ID, &book.Title, &book.Author); err != nil {
			return nil, dberr.Wrap(err, "scan_available_book")
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

// # Membership Implementation

func (repository *PostgresRepository) CreateEntry(context context.Context, entry *Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.LibraryUserBook.Table,
		schema.LibraryUserBook.ID, schema.LibraryUserBook.UserID, schema.LibraryUserBook.BookID,
		schema.LibraryUserBook.StatusID, schema.LibraryUserBook.CreatedAt, schema.LibraryUserBook.UpdatedAt,
	)

	_, err := repository.db.Exec(context, query,
		entry.ID, entry.UserID, entry.BookID, int(entry.Status), entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return apperr.Conflict("Book is already in your collection")
			case pgerrcode.ForeignKeyViolation:
				return apperr.NotFound("Book")
			}
		}
		return dberr.Wrap(err, "create_entry")
	}

	return nil
}

func (repository *PostgresRepository) GetEntry(context context.Context, userID, bookID string) (*Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.LibraryUserBook.ID, schema.LibraryUserBook.UserID, schema.LibraryUserBook.BookID,
		schema.LibraryUserBook.StatusID, schema.LibraryUserBook.Rating, schema.LibraryUserBook.StartDate,
		schema.LibraryUserBook.EndDate, schema.LibraryUserBook.Review, schema.LibraryUserBook.CreatedAt,
		schema.LibraryUserBook.UpdatedAt,
		schema.LibraryUserBook.Table,
		schema.LibraryUserBook.UserID, schema.LibraryUserBook.BookID,
	)

	entry, err := scanEntry(repository.db.QueryRow(context, query, userID, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotInCollection
		}
		return nil, dberr.Wrap(err, "get_entry")
	}

	return entry, nil
}

func (repository *PostgresRepository) ListEntries(context context.Context, userID string, params pagination.Params) ([]*EntryView, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.LibraryUserBook.Table, schema.LibraryUserBook.UserID)

	total := 0
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_entries")
	}

	listQuery := fmt.Sprintf(`
		SELECT ub.%s, ub.%s, ub.%s, ub.%s, ub.%s, ub.%s, ub.%s, ub.%s, ub.%s, ub.%s,
		       b.%s, b.%s
		FROM %s ub
		JOIN %s b ON ub.%s = b.%s
		WHERE ub.%s = $1
		ORDER BY b.%s ASC
		LIMIT $2 OFFSET $3
	`,
		schema.LibraryUserBook.ID, schema.LibraryUserBook.UserID, schema.LibraryUserBook.BookID,
		schema.LibraryUserBook.StatusID, schema.LibraryUserBook.Rating, schema.LibraryUserBook.StartDate,
		schema.LibraryUserBook.EndDate, schema.LibraryUserBook.Review, schema.LibraryUserBook.CreatedAt,
		schema.LibraryUserBook.UpdatedAt,
		schema.CatalogBook.Title, schema.CatalogBook.Author,
		schema.LibraryUserBook.Table,
		schema.CatalogBook.Table, schema.LibraryUserBook.BookID, schema.CatalogBook.ID,
		schema.LibraryUserBook.UserID,
		schema.CatalogBook.Title,
	)

	rows, err := repository.db.Query(context, listQuery, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_entries")
	}
	defer rows.Close()

	views := make([]*EntryView, 0)
	for rows.Next() {
		view := &EntryView{}
		statusID := 0
		err := rows.Scan(
			&view.ID, &view.UserID, &view.BookID, &statusID, &view.Rating,
			&view.StartDate, &view.EndDate, &view.Review, &view.CreatedAt, &view.UpdatedAt,
			&view.BookTitle, &view.BookAuthor,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_entry_view")
		}
		view.Status = Status(statusID)
		view.StatusName = view.Status.DisplayName()
		views = append(views, view)
	}

	return views, total, rows.Err()
}

// # Transition Engine (storage half)

/*
Transition applies a status change and its ledger append atomically.

Description: Executes within one ACID transaction.
1. Locks the membership row (SELECT ... FOR UPDATE) so concurrent changes
to the same (user, book) pair serialize into a gapless previous→new chain.
2. Applies [Entry.ApplyStatus] in domain code: status, date stamps, and the
ledger record all share a single server timestamp.
3. Updates the row and inserts the history record.
Rolls back completely if any stage fails — a status change without its
history row (or vice versa) must never become visible.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - newStatus: Status (already validated)

Returns:
  - *Entry: The updated entry
  - error: ErrNotInCollection, transactional or database failures
*/
func (repository *PostgresRepository) Transition(context context.Context, userID, bookID string, newStatus Status) (*Entry, error) {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_transition_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Lock and load the membership row
	lockQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		FOR UPDATE
	`,
		schema.LibraryUserBook.ID, schema.LibraryUserBook.UserID, schema.LibraryUserBook.BookID,
		schema.LibraryUserBook.StatusID, schema.LibraryUserBook.Rating, schema.LibraryUserBook.StartDate,
		schema.LibraryUserBook.EndDate, schema.LibraryUserBook.Review, schema.LibraryUserBook.CreatedAt,
		schema.LibraryUserBook.UpdatedAt,
		schema.LibraryUserBook.Table,
		schema.LibraryUserBook.UserID, schema.LibraryUserBook.BookID,
	)

	entry, err := scanEntry(transaction.QueryRow(context, lockQuery, userID, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotInCollection
		}
		return nil, dberr.Wrap(err, "lock_entry")
	}

	// Step 2: Apply the domain policy under the lock
	record := entry.ApplyStatus(newStatus, time.Now().UTC())

	// Step 3: Persist the mutated entry
	updateQuery := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
	`,
		schema.LibraryUserBook.Table,
		schema.LibraryUserBook.StatusID, schema.LibraryUserBook.StartDate,
		schema.LibraryUserBook.EndDate, schema.LibraryUserBook.UpdatedAt,
		schema.LibraryUserBook.ID,
	)

	_, err = transaction.Exec(context, updateQuery,
		entry.ID, int(entry.Status), entry.StartDate, entry.EndDate, entry.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "update_entry_status")
	}

	// Step 4: Append the ledger record
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		schema.LibraryStatusHistory.Table,
		schema.LibraryStatusHistory.ID, schema.LibraryStatusHistory.UserBookID,
		schema.LibraryStatusHistory.OldStatusID, schema.LibraryStatusHistory.NewStatusID,
		schema.LibraryStatusHistory.ChangedAt,
	)

	_, err = transaction.Exec(context, insertQuery,
		uuid.New(), record.UserBookID, int(*record.OldStatus), int(record.NewStatus), record.ChangedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "append_transition")
	}

	// Persist Atomic Changeset
	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_transition_tx")
	}

	return entry, nil
}

// # Entry Annotations

func (repository *PostgresRepository) UpdateRating(context context.Context, userID, bookID string, rating *int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = NOW() WHERE %s = $1 AND %s = $2`,
		schema.LibraryUserBook.Table,
		schema.LibraryUserBook.Rating, schema.LibraryUserBook.UpdatedAt,
		schema.LibraryUserBook.UserID, schema.LibraryUserBook.BookID,
	)

	result, err := repository.db.Exec(context, query, userID, bookID, rating)
	if err != nil {
		return dberr.Wrap(err, "update_rating")
	}
	if result.RowsAffected() == 0 {
		return ErrNotInCollection
	}

	return nil
}

func (repository *PostgresRepository) UpdateReview(context context.Context, userID, bookID string, review *string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = NOW() WHERE %s = $1 AND %s = $2`,
		schema.LibraryUserBook.Table,
		schema.LibraryUserBook.Review, schema.LibraryUserBook.UpdatedAt,
		schema.LibraryUserBook.UserID, schema.LibraryUserBook.BookID,
	)

	result, err := repository.db.Exec(context, query, userID, bookID, review)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}
	if result.RowsAffected() == 0 {
		return ErrNotInCollection
	}

	return nil
}

// # History Ledger Implementation

func (repository *PostgresRepository) ListHistory(context context.Context, userID string, params pagination.Params) ([]*HistoryView, int, error) {
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s h
		JOIN %s ub ON h.%s = ub.%s
		WHERE ub.%s = $1
	`,
		schema.LibraryStatusHistory.Table,
		schema.LibraryUserBook.Table, schema.LibraryStatusHistory.UserBookID, schema.LibraryUserBook.ID,
		schema.LibraryUserBook.UserID,
	)

	total := 0
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_history")
	}

	// The secondary ordering key (id, a UUIDv7) keeps records with equal
	// timestamps in insertion order.
	listQuery := fmt.Sprintf(`
		SELECT h.%s, h.%s, h.%s, h.%s, h.%s, ub.%s, b.%s
		FROM %s h
		JOIN %s ub ON h.%s = ub.%s
		JOIN %s b ON ub.%s = b.%s
		WHERE ub.%s = $1
		ORDER BY h.%s DESC, h.%s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.LibraryStatusHistory.ID, schema.LibraryStatusHistory.UserBookID,
		schema.LibraryStatusHistory.OldStatusID, schema.LibraryStatusHistory.NewStatusID,
		schema.LibraryStatusHistory.ChangedAt,
		schema.LibraryUserBook.BookID, schema.CatalogBook.Title,
		schema.LibraryStatusHistory.Table,
		schema.LibraryUserBook.Table, schema.LibraryStatusHistory.UserBookID, schema.LibraryUserBook.ID,
		schema.CatalogBook.Table, schema.LibraryUserBook.BookID, schema.CatalogBook.ID,
		schema.LibraryUserBook.UserID,
		schema.LibraryStatusHistory.ChangedAt, schema.LibraryStatusHistory.ID,
	)

	rows, err := repository.db.Query(context, listQuery, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_history")
	}
	defer rows.Close()

	views := make([]*HistoryView, 0)
	for rows.Next() {
		view := &HistoryView{}
		var oldStatusID *int
		newStatusID := 0

		err := rows.Scan(
			&view.TransitionRecord.ID, &view.UserBookID, &oldStatusID, &newStatusID,
			&view.ChangedAt, &view.BookID, &view.BookTitle,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_history_view")
		}

		view.NewStatus = Status(newStatusID)
		view.NewStatusName = view.NewStatus.DisplayName()
		if oldStatusID != nil {
			old := Status(*oldStatusID)
			view.OldStatus = &old
			view.OldStatusName = pointer.To(old.DisplayName())
		}

		views = append(views, view)
	}

	return views, total, rows.Err()
}

// # Scan Helpers

// scanEntry hydrates an [Entry] from the canonical column order used by
// GetEntry and the transition lock query.
func scanEntry(row pgx.Row) (*Entry, error) {
	entry := &Entry{}
	statusID := 0

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.BookID, &statusID, &entry.Rating,
		&entry.StartDate, &entry.EndDate, &entry.Review, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Status = Status(statusID)
	return entry, nil
}
