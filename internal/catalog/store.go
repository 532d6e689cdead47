// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"

	"github.com/taibuivan/shelfmark/pkg/pagination"
)

// # Catalog Data Access

// Repository defines the data access contract for catalog books.
type Repository interface {

	/*
		CreateBook persists a new catalog record.

		Parameters:
		  - context: context.Context
		  - book: *Book (ID, slug, and AddedAt already assigned by the service)

		Returns:
		  - error: apperr.Conflict on a duplicate slug or ISBN
	*/
	CreateBook(context context.Context, book *Book) error

	/*
		GetBookByID returns one book by its UUID.

		Returns:
		  - *Book: Hydrated record
		  - error: apperr.NotFound("Book") if absent
	*/
	GetBookByID(context context.Context, bookID string) (*Book, error)

	/*
		GetBookBySlug returns one book by its unique slug.

		Returns:
		  - *Book: Hydrated record
		  - error: apperr.NotFound("Book") if absent
	*/
	GetBookBySlug(context context.Context, slug string) (*Book, error)

	/*
		ListBooks returns one page of the catalog ordered by title.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []*Book: One catalog page
		  - int: Total book count
		  - error: Storage failures
	*/
	ListBooks(context context.Context, params pagination.Params) ([]*Book, int, error)

	/*
		SearchBooks returns books matching the query by title or author
		(case-insensitive substring), ordered by title.

		Parameters:
		  - context: context.Context
		  - query: string (non-empty, validated by the service)
		  - params: pagination.Params

		Returns:
		  - []*Book: One page of matches, possibly empty
		  - int: Total match count
		  - error: Storage failures
	*/
	SearchBooks(context context.Context, query string, params pagination.Params) ([]*Book, int, error)

	/*
		UpdateBook overwrites the mutable metadata of an existing record.
		The slug is intentionally not part of the update set.

		Returns:
		  - error: apperr.NotFound("Book") if absent, apperr.Conflict on a
		    duplicate ISBN
	*/
	UpdateBook(context context.Context, book *Book) error
}

// Cache defines the read-through cache contract for book details.
//
// A cache outage must never fail a request; implementations return errors for
// observability, and the service degrades to the repository on any of them.
type Cache interface {

	/*
		GetBook returns the cached book, or (nil, nil) on a miss.
	*/
	GetBook(context context.Context, bookID string) (*Book, error)

	/*
		SetBook stores the book under its ID for the configured TTL.
	*/
	SetBook(context context.Context, book *Book) error

	/*
		InvalidateBook drops the cached record after a metadata update.
	*/
	InvalidateBook(context context.Context, bookID string) error
}
