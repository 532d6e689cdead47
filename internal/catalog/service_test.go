// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelfmark/internal/catalog"
	"github.com/taibuivan/shelfmark/internal/platform/apperr"
	"github.com/taibuivan/shelfmark/pkg/pagination"
)

// # Test Fixtures

// fakeRepository is an in-memory [catalog.Repository].
type fakeRepository struct {
	books map[string]*catalog.Book
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{books: make(map[string]*catalog.Book)}
}

func (repository *fakeRepository) CreateBook(_ context.Context, book *catalog.Book) error {
	for _, existing := range repository.books {
		if existing.Slug == book.Slug {
			return apperr.Conflict("A book with the same slug or ISBN already exists")
		}
	}
	clone := *book
	repository.books[book.ID] = &clone
	return nil
}

func (repository *fakeRepository) GetBookByID(_ context.Context, bookID string) (*catalog.Book, error) {
	book, ok := repository.books[bookID]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	clone := *book
	return &clone, nil
}

func (repository *fakeRepository) GetBookBySlug(_ context.Context, slug string) (*catalog.Book, error) {
	for _, book := range repository.books {
		if book.Slug == slug {
			clone := *book
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Book")
}

func (repository *fakeRepository) ListBooks(_ context.Context, params pagination.Params) ([]*catalog.Book, int, error) {
	books := make([]*catalog.Book, 0, len(repository.books))
	for _, book := range repository.books {
		clone := *book
		books = append(books, &clone)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, len(books), nil
}

func (repository *fakeRepository) SearchBooks(_ context.Context, query string, params pagination.Params) ([]*catalog.Book, int, error) {
	needle := strings.ToLower(query)
	matches := make([]*catalog.Book, 0)
	for _, book := range repository.books {
		if strings.Contains(strings.ToLower(book.Title), needle) ||
			strings.Contains(strings.ToLower(book.Author), needle) {
			clone := *book
			matches = append(matches, &clone)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Title < matches[j].Title })
	return matches, len(matches), nil
}

func (repository *fakeRepository) UpdateBook(_ context.Context, book *catalog.Book) error {
	existing, ok := repository.books[book.ID]
	if !ok {
		return apperr.NotFound("Book")
	}
	updated := *book
	updated.Slug = existing.Slug
	updated.AddedAt = existing.AddedAt
	repository.books[book.ID] = &updated
	return nil
}

// fakeCache is an in-memory [catalog.Cache] with hit counters and an
// optional failure mode.
type fakeCache struct {
	entries map[string]*catalog.Book
	failing bool

	hits, misses, fills, evictions int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*catalog.Book)}
}

func (cache *fakeCache) GetBook(_ context.Context, bookID string) (*catalog.Book, error) {
	if cache.failing {
		return nil, errors.New("redis gone")
	}
	book, ok := cache.entries[bookID]
	if !ok {
		cache.misses++
		return nil, nil
	}
	cache.hits++
	clone := *book
	return &clone, nil
}

func (cache *fakeCache) SetBook(_ context.Context, book *catalog.Book) error {
	if cache.failing {
		return errors.New("redis gone")
	}
	clone := *book
	cache.entries[book.ID] = &clone
	cache.fills++
	return nil
}

func (cache *fakeCache) InvalidateBook(_ context.Context, bookID string) error {
	if cache.failing {
		return errors.New("redis gone")
	}
	delete(cache.entries, bookID)
	cache.evictions++
	return nil
}

func newTestService(repository catalog.Repository, cache catalog.Cache) *catalog.Service {
	return catalog.NewService(repository, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func textOf(value string) *string {
	return &value
}

func numberOf(value int) *int {
	return &value
}

// # Management Tests

/*
TestService_CreateBook verifies identity assignment, slug derivation, and the
mandatory field checks.
*/
func TestService_CreateBook(t *testing.T) {
	repository := newFakeRepository()
	service := newTestService(repository, newFakeCache())

	t.Run("happy_path", func(t *testing.T) {
		book := &catalog.Book{
			Title:           "The Left Hand of Darkness",
			Author:          "Ursula K. Le Guin",
			PublicationYear: numberOf(1969),
			PageCount:       numberOf(304),
		}

		require.NoError(t, service.CreateBook(context.Background(), book))

		assert.NotEmpty(t, book.ID)
		assert.Equal(t, "the-left-hand-of-darkness", book.Slug)
		assert.False(t, book.AddedAt.IsZero())

		stored, err := service.GetBook(context.Background(), book.ID)
		require.NoError(t, err)
		assert.Equal(t, book.Title, stored.Title)
	})

	t.Run("missing_title_and_author", func(t *testing.T) {
		err := service.CreateBook(context.Background(), &catalog.Book{})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Len(t, appError.Details, 2)
	})

	t.Run("out_of_bounds_metadata", func(t *testing.T) {
		err := service.CreateBook(context.Background(), &catalog.Book{
			Title:     "Pages",
			Author:    "Nobody",
			PageCount: numberOf(0),
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	})

	t.Run("duplicate_slug", func(t *testing.T) {
		err := service.CreateBook(context.Background(), &catalog.Book{
			Title:  "The Left Hand of Darkness",
			Author: "Someone Else",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})
}

/*
TestService_UpdateBook verifies metadata replacement, slug stability, and
cache eviction.
*/
func TestService_UpdateBook(t *testing.T) {
	repository := newFakeRepository()
	cache := newFakeCache()
	service := newTestService(repository, cache)

	book := &catalog.Book{Title: "Solaris", Author: "Stanislaw Lem"}
	require.NoError(t, service.CreateBook(context.Background(), book))

	// Warm the cache, then update.
	_, err := service.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, cache.fills)

	updated := &catalog.Book{
		ID:     book.ID,
		Title:  "Solaris (Revised Translation)",
		Author: "Stanislaw Lem",
		Genre:  textOf("Science Fiction"),
	}
	require.NoError(t, service.UpdateBook(context.Background(), updated))
	assert.Equal(t, 1, cache.evictions)

	// The slug survives the retitle.
	fetched, err := service.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, "solaris", fetched.Slug)
	assert.Equal(t, "Solaris (Revised Translation)", fetched.Title)

	t.Run("unknown_book", func(t *testing.T) {
		err := service.UpdateBook(context.Background(), &catalog.Book{
			ID:     "00000000-0000-7000-8000-000000000000",
			Title:  "Ghost",
			Author: "Nobody",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "NOT_FOUND", appError.Code)
	})
}

// # Read Path Tests

/*
TestService_GetBook verifies the cache-aside flow and the slug fallback.
*/
func TestService_GetBook(t *testing.T) {
	repository := newFakeRepository()
	cache := newFakeCache()
	service := newTestService(repository, cache)

	book := &catalog.Book{Title: "Roadside Picnic", Author: "Arkady Strugatsky"}
	require.NoError(t, service.CreateBook(context.Background(), book))

	// First read misses and fills; second read hits.
	_, err := service.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	_, err = service.GetBook(context.Background(), book.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.misses)
	assert.Equal(t, 1, cache.fills)
	assert.Equal(t, 1, cache.hits)

	t.Run("slug_lookup_bypasses_cache", func(t *testing.T) {
		fetched, err := service.GetBook(context.Background(), "roadside-picnic")
		require.NoError(t, err)
		assert.Equal(t, book.ID, fetched.ID)
		assert.Equal(t, 1, cache.hits)
	})

	t.Run("cache_outage_degrades_to_repository", func(t *testing.T) {
		cache.failing = true
		fetched, err := service.GetBook(context.Background(), book.ID)
		require.NoError(t, err)
		assert.Equal(t, book.ID, fetched.ID)
		cache.failing = false
	})

	t.Run("unknown_identifier", func(t *testing.T) {
		_, err := service.GetBook(context.Background(), "no-such-slug")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "NOT_FOUND", appError.Code)
	})
}

/*
TestService_SearchBooks verifies the blank-query guard and substring matching.
*/
func TestService_SearchBooks(t *testing.T) {
	repository := newFakeRepository()
	service := newTestService(repository, newFakeCache())

	require.NoError(t, service.CreateBook(context.Background(), &catalog.Book{Title: "Neuromancer", Author: "William Gibson"}))
	require.NoError(t, service.CreateBook(context.Background(), &catalog.Book{Title: "Pattern Recognition", Author: "William Gibson"}))

	t.Run("blank_query_rejected", func(t *testing.T) {
		_, _, err := service.SearchBooks(context.Background(), "  ", pagination.Params{Page: 1, Limit: 20})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	})

	t.Run("matches_by_author", func(t *testing.T) {
		books, total, err := service.SearchBooks(context.Background(), "gibson", pagination.Params{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, books, 2)
	})

	t.Run("no_match_is_empty", func(t *testing.T) {
		books, total, err := service.SearchBooks(context.Background(), "asimov", pagination.Params{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, books)
	})
}
