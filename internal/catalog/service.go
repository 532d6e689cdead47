// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/shelfmark/internal/platform/validate"
	"github.com/taibuivan/shelfmark/pkg/pagination"
	"github.com/taibuivan/shelfmark/pkg/slug"
	"github.com/taibuivan/shelfmark/pkg/uuid"
)

// Service implements the catalog use cases on top of [Repository] and [Cache].
type Service struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
}

// NewService constructs a new catalog [Service].
func NewService(repo Repository, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// # Catalog Management

/*
CreateBook adds a new record to the shared catalog.

Description: Performs business validation on the metadata, generates a stable
UUID v7 identity, and derives the URL slug from the title before persisting.

Parameters:
  - context: context.Context
  - book: *Book (The entity to be persisted; identity fields may be empty)

Returns:
  - error: Validation errors, slug/ISBN conflicts, persistence errors
*/
func (service *Service) CreateBook(context context.Context, book *Book) error {

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, book.Title).MaxLen(FieldTitle, book.Title, TitleMaxLen)
	validator.Required(FieldAuthor, book.Author).MaxLen(FieldAuthor, book.Author, AuthorMaxLen)

	// Optional metadata validation
	if book.ISBN != nil {
		validator.MaxLen(FieldISBN, *book.ISBN, ISBNMaxLen)
	}
	if book.Genre != nil {
		validator.MaxLen(FieldGenre, *book.Genre, GenreMaxLen)
	}
	if book.Description != nil {
		validator.MaxLen(FieldDescription, *book.Description, DescriptionMaxLen)
	}
	if book.PublicationYear != nil {
		validator.Range(FieldPublicationYear, *book.PublicationYear, PublicationYearMin, PublicationYearMax)
	}
	if book.PageCount != nil {
		validator.Range(FieldPageCount, *book.PageCount, PageCountMin, PageCountMax)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	// Identity & Slug generation
	if book.ID == "" {
		book.ID = uuid.New()
	}
	if book.Slug == "" {
		book.Slug = slug.From(book.Title)
	}
	book.AddedAt = time.Now().UTC()

	// Persistence via Repository
	if err := service.repo.CreateBook(context, book); err != nil {
		return err
	}

	service.logger.InfoContext(context, "catalog_book_created",
		slog.String("book_id", book.ID),
		slog.String("slug", book.Slug),
	)

	return nil
}

/*
UpdateBook overwrites the mutable metadata of an existing record.

Description: Runs the same bounds checks as creation, persists, and then
evicts the cached detail record so readers see the update immediately. The
slug is never changed by an update.

Parameters:
  - context: context.Context
  - book: *Book (Full replacement metadata, addressed by ID)

Returns:
  - error: Validation errors, unknown book, ISBN conflicts
*/
func (service *Service) UpdateBook(context context.Context, book *Book) error {

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, book.Title).MaxLen(FieldTitle, book.Title, TitleMaxLen)
	validator.Required(FieldAuthor, book.Author).MaxLen(FieldAuthor, book.Author, AuthorMaxLen)
	if book.ISBN != nil {
		validator.MaxLen(FieldISBN, *book.ISBN, ISBNMaxLen)
	}
	if book.Genre != nil {
		validator.MaxLen(FieldGenre, *book.Genre, GenreMaxLen)
	}
	if book.Description != nil {
		validator.MaxLen(FieldDescription, *book.Description, DescriptionMaxLen)
	}
	if book.PublicationYear != nil {
		validator.Range(FieldPublicationYear, *book.PublicationYear, PublicationYearMin, PublicationYearMax)
	}
	if book.PageCount != nil {
		validator.Range(FieldPageCount, *book.PageCount, PageCountMin, PageCountMax)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.UpdateBook(context, book); err != nil {
		return err
	}

	// Cache invalidation is best-effort: a failed eviction only means stale
	// reads until TTL expiry.
	if err := service.cache.InvalidateBook(context, book.ID); err != nil {
		service.logger.WarnContext(context, "catalog_cache_invalidate_failed",
			slog.String("book_id", book.ID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.InfoContext(context, "catalog_book_updated",
		slog.String("book_id", book.ID),
	)

	return nil
}

// # Catalog Reads

/*
GetBook retrieves one book by UUID or slug.

Description: UUID lookups take the cache-aside path: cache first, repository
on a miss, then a best-effort cache fill. Slug lookups always hit the
repository because the cache is keyed by ID.

Parameters:
  - context: context.Context
  - identifier: string (UUID or slug)

Returns:
  - *Book: Hydrated record
  - error: apperr.NotFound("Book") if absent, storage failures
*/
func (service *Service) GetBook(context context.Context, identifier string) (*Book, error) {
	if !uuid.IsValid(identifier) {
		return service.repo.GetBookBySlug(context, identifier)
	}

	// Cache-aside read: a cache failure degrades to the repository.
	cached, err := service.cache.GetBook(context, identifier)
	if err != nil {
		service.logger.WarnContext(context, "catalog_cache_read_failed",
			slog.String("book_id", identifier),
			slog.String("error", err.Error()),
		)
	}
	if cached != nil {
		return cached, nil
	}

	book, err := service.repo.GetBookByID(context, identifier)
	if err != nil {
		return nil, err
	}

	if err := service.cache.SetBook(context, book); err != nil {
		service.logger.WarnContext(context, "catalog_cache_fill_failed",
			slog.String("book_id", identifier),
			slog.String("error", err.Error()),
		)
	}

	return book, nil
}

/*
ListBooks returns one page of the catalog ordered by title.
*/
func (service *Service) ListBooks(context context.Context, params pagination.Params) ([]*Book, int, error) {
	return service.repo.ListBooks(context, params)
}

/*
SearchBooks returns catalog books matching the query by title or author.

Description: Unlike the per-user collection matcher, this search spans the
whole catalog with no ownership exclusion.

Parameters:
  - context: context.Context
  - query: string
  - params: pagination.Params

Returns:
  - []*Book: One page of matches
  - int: Total match count
  - error: Validation failure on a blank query, storage failures
*/
func (service *Service) SearchBooks(context context.Context, query string, params pagination.Params) ([]*Book, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, validate.RequiredError(FieldQuery, "Please enter a search term")
	}

	return service.repo.SearchBooks(context, query, params)
}
