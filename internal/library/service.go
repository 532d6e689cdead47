// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/shelfmark/internal/platform/validate"
	"github.com/taibuivan/shelfmark/pkg/pagination"
	"github.com/taibuivan/shelfmark/pkg/uuid"
)

// Service implements the collection use cases on top of [Repository].
//
// All validation happens here, before any mutation; the repository only
// receives inputs that already passed the vocabulary and range checks.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new library [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Catalog Matcher

/*
SearchAvailable finds catalog books the user could add to their collection.

Description: Case-insensitive substring match over title and author,
excluding books the user already holds. An empty result is a valid answer,
not an error.

Parameters:
  - context: context.Context
  - userID: string
  - query: string

Returns:
  - []BookRef: Matching catalog books not yet in the collection
  - error: Validation failure on a blank query, storage failures
*/
func (service *Service) SearchAvailable(context context.Context, userID, query string) ([]BookRef, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validate.RequiredError(FieldQuery, "Please enter a search term")
	}

	return service.repo.SearchAvailableBooks(context, userID, query)
}

// # Membership Lifecycle

/*
AddToCollection creates a membership entry for the (user, book) pair.

Description: The book must exist in the catalog and the status must belong to
the vocabulary; both are checked before anything is written. All optional
fields start unset. Creation itself writes no ledger record — the initial
status is the entry's starting state, not a transition.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - status: Status (the initial reading status chosen by the user)

Returns:
  - *Entry: The created entry
  - error: Unknown status, unknown book, duplicate pair, storage failures
*/
func (service *Service) AddToCollection(context context.Context, userID, bookID string, status Status) (*Entry, error) {
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}

	// Reject dangling references before mutating anything.
	book, err := service.repo.GetBookRef(context, bookID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &Entry{
		ID:        uuid.New(),
		UserID:    userID,
		BookID:    book.ID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repo.CreateEntry(context, entry); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "library_entry_added",
		slog.String("user_id", userID),
		slog.String("book_id", bookID),
		slog.String("status", status.Slug()),
	)

	return entry, nil
}

/*
GetEntry returns the membership entry for the (user, book) pair.
*/
func (service *Service) GetEntry(context context.Context, userID, bookID string) (*Entry, error) {
	return service.repo.GetEntry(context, userID, bookID)
}

/*
ListEntries returns one page of the user's collection, ordered by book title.
*/
func (service *Service) ListEntries(context context.Context, userID string, params pagination.Params) ([]*EntryView, int, error) {
	return service.repo.ListEntries(context, userID, params)
}

// # Status Transition Engine

/*
ChangeStatus moves the (user, book) entry to a new reading status.

Description: Validates the status against the vocabulary, then delegates to
the repository, which locks the entry row, applies [Entry.ApplyStatus] (date
stamps included), and appends the ledger record in the same transaction.
Re-applying the current status is allowed: dates stay untouched, but a
record is still written.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - newStatus: Status

Returns:
  - *Entry: The updated entry
  - error: Unknown status, pair not in collection, storage failures
*/
func (service *Service) ChangeStatus(context context.Context, userID, bookID string, newStatus Status) (*Entry, error) {
	if !newStatus.Valid() {
		return nil, ErrUnknownStatus
	}

	entry, err := service.repo.Transition(context, userID, bookID, newStatus)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "library_status_changed",
		slog.String("user_id", userID),
		slog.String("book_id", bookID),
		slog.String("status", newStatus.Slug()),
	)

	return entry, nil
}

// # Entry Annotations

/*
SetRating sets or clears the user's star rating on an entry.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - rating: *int (nil clears; otherwise must be within 1..5)

Returns:
  - error: Out-of-range rating, pair not in collection, storage failures
*/
func (service *Service) SetRating(context context.Context, userID, bookID string, rating *int) error {
	if rating != nil {
		v := &validate.Validator{}
		if err := v.Range(FieldRating, *rating, RatingMin, RatingMax).Err(); err != nil {
			return err
		}
	}

	return service.repo.UpdateRating(context, userID, bookID, rating)
}

/*
SetReview sets or clears the user's review text on an entry.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - review: *string (nil clears)

Returns:
  - error: Oversized review, pair not in collection, storage failures
*/
func (service *Service) SetReview(context context.Context, userID, bookID string, review *string) error {
	if review != nil {
		v := &validate.Validator{}
		if err := v.MaxLen(FieldReview, *review, ReviewMaxLen).Err(); err != nil {
			return err
		}
	}

	return service.repo.UpdateReview(context, userID, bookID, review)
}

// # History Ledger

/*
ListHistory returns one page of the user's transition ledger, most recent
change first.
*/
func (service *Service) ListHistory(context context.Context, userID string, params pagination.Params) ([]*HistoryView, int, error) {
	return service.repo.ListHistory(context, userID, params)
}
