// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"

	"github.com/taibuivan/shelfmark/pkg/pagination"
)

// # Collection Data Access

// Repository defines the data access contract for the collection core.
//
// The catalog.book table is consumed strictly read-only here — the library
// never mutates catalog data, it only resolves references for matching and
// display.
type Repository interface {

	/*
		GetBookRef resolves a catalog book into its read-only projection.

		Parameters:
		  - context: context.Context
		  - bookID: string

		Returns:
		  - *BookRef: Identity, title, and author
		  - error: apperr.NotFound("Book") if absent, storage failures otherwise
	*/
	GetBookRef(context context.Context, bookID string) (*BookRef, error)

	/*
		SearchAvailableBooks returns catalog books matching the query by title
		or author (case-insensitive substring) that are NOT yet in the user's
		collection, ordered by catalog identifier.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - query: string (non-empty, validated by the service)

		Returns:
		  - []BookRef: Possibly empty result set
		  - error: Storage failures
	*/
	SearchAvailableBooks(context context.Context, userID, query string) ([]BookRef, error)

	/*
		CreateEntry persists a brand-new membership entry.

		Parameters:
		  - context: context.Context
		  - entry: *Entry (all optional fields unset)

		Returns:
		  - error: apperr.Conflict if the (user, book) pair already exists,
		    apperr.NotFound("Book") on a dangling book reference
	*/
	CreateEntry(context context.Context, entry *Entry) error

	/*
		GetEntry returns the membership entry for the (user, book) pair.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string

		Returns:
		  - *Entry: Hydrated entity
		  - error: apperr.NotFound if the pair has no entry
	*/
	GetEntry(context context.Context, userID, bookID string) (*Entry, error)

	/*
		ListEntries returns the user's collection joined with book and status
		display data, ordered by book title.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - params: pagination.Params

		Returns:
		  - []*EntryView: One page of the collection
		  - int: Total entry count for pagination metadata
		  - error: Storage failures
	*/
	ListEntries(context context.Context, userID string, params pagination.Params) ([]*EntryView, int, error)

	/*
		Transition atomically applies a status change to the (user, book)
		entry and appends the resulting ledger record.

		Description: The entry row is locked for the duration of the change so
		concurrent transitions on the same pair serialize into one consistent
		previous→new chain. The membership update and the history insert
		commit together or not at all.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string
		  - newStatus: Status (validated by the service)

		Returns:
		  - *Entry: The updated entry
		  - error: apperr.NotFound if the pair has no entry, storage failures
	*/
	Transition(context context.Context, userID, bookID string, newStatus Status) (*Entry, error)

	/*
		UpdateRating sets or clears the rating on an existing entry.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string
		  - rating: *int (nil clears)

		Returns:
		  - error: apperr.NotFound if the pair has no entry
	*/
	UpdateRating(context context.Context, userID, bookID string, rating *int) error

	/*
		UpdateReview sets or clears the review text on an existing entry.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string
		  - review: *string (nil clears)

		Returns:
		  - error: apperr.NotFound if the pair has no entry
	*/
	UpdateReview(context context.Context, userID, bookID string, review *string) error

	/*
		ListHistory returns the user's ledger records joined with book titles
		and status display names, ordered by change time descending.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - params: pagination.Params

		Returns:
		  - []*HistoryView: One page of history, most recent first
		  - int: Total record count
		  - error: Storage failures
	*/
	ListHistory(context context.Context, userID string, params pagination.Params) ([]*HistoryView, int, error)
}
