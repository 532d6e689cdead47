// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelfmark/internal/library"
	"github.com/taibuivan/shelfmark/internal/platform/apperr"
	"github.com/taibuivan/shelfmark/pkg/pagination"
)

// # Test Fixtures

// fakeRepository is an in-memory [library.Repository] that mirrors the
// relational store's contract, including its error mapping and the atomic
// transition-plus-ledger behavior.
type fakeRepository struct {
	books   map[string]library.BookRef
	entries map[string]*library.Entry
	history []library.TransitionRecord

	// clock advances one second per transition so ledger ordering is
	// deterministic in tests.
	clock time.Time
}

func newFakeRepository(books ...library.BookRef) *fakeRepository {
	repository := &fakeRepository{
		books:   make(map[string]library.BookRef),
		entries: make(map[string]*library.Entry),
		clock:   time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	for _, book := range books {
		repository.books[book.ID] = book
	}
	return repository
}

func (repository *fakeRepository) pairKey(userID, bookID string) string {
	return userID + "/" + bookID
}

func (repository *fakeRepository) tick() time.Time {
	repository.clock = repository.clock.Add(time.Second)
	return repository.clock
}

func (repository *fakeRepository) GetBookRef(_ context.Context, bookID string) (*library.BookRef, error) {
	book, ok := repository.books[bookID]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	return &book, nil
}

func (repository *fakeRepository) SearchAvailableBooks(_ context.Context, userID, query string) ([]library.BookRef, error) {
	needle := strings.ToLower(query)

	matches := make([]library.BookRef, 0)
	for _, book := range repository.books {
		if _, owned := repository.entries[repository.pairKey(userID, book.ID)]; owned {
			continue
		}
		if strings.Contains(strings.ToLower(book.Title), needle) ||
			strings.Contains(strings.ToLower(book.Author), needle) {
			matches = append(matches, book)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

func (repository *fakeRepository) CreateEntry(_ context.Context, entry *library.Entry) error {
	key := repository.pairKey(entry.UserID, entry.BookID)
	if _, exists := repository.entries[key]; exists {
		return apperr.Conflict("Book is already in your collection")
	}
	clone := *entry
	repository.entries[key] = &clone
	return nil
}

func (repository *fakeRepository) GetEntry(_ context.Context, userID, bookID string) (*library.Entry, error) {
	entry, ok := repository.entries[repository.pairKey(userID, bookID)]
	if !ok {
		return nil, library.ErrNotInCollection
	}
	clone := *entry
	return &clone, nil
}

func (repository *fakeRepository) ListEntries(_ context.Context, userID string, params pagination.Params) ([]*library.EntryView, int, error) {
	views := make([]*library.EntryView, 0)
	for _, entry := range repository.entries {
		if entry.UserID != userID {
			continue
		}
		book := repository.books[entry.BookID]
		views = append(views, &library.EntryView{
			Entry:      *entry,
			BookTitle:  book.Title,
			BookAuthor: book.Author,
			StatusName: entry.Status.DisplayName(),
		})
	}

	sort.Slice(views, func(i, j int) bool { return views[i].BookTitle < views[j].BookTitle })
	return views, len(views), nil
}

func (repository *fakeRepository) Transition(_ context.Context, userID, bookID string, newStatus library.Status) (*library.Entry, error) {
	entry, ok := repository.entries[repository.pairKey(userID, bookID)]
	if !ok {
		return nil, library.ErrNotInCollection
	}

	record := entry.ApplyStatus(newStatus, repository.tick())
	record.ID = fmt.Sprintf("record-%d", len(repository.history)+1)
	repository.history = append(repository.history, record)

	clone := *entry
	return &clone, nil
}

func (repository *fakeRepository) UpdateRating(_ context.Context, userID, bookID string, rating *int) error {
	entry, ok := repository.entries[repository.pairKey(userID, bookID)]
	if !ok {
		return library.ErrNotInCollection
	}
	entry.Rating = rating
	return nil
}

func (repository *fakeRepository) UpdateReview(_ context.Context, userID, bookID string, review *string) error {
	entry, ok := repository.entries[repository.pairKey(userID, bookID)]
	if !ok {
		return library.ErrNotInCollection
	}
	entry.Review = review
	return nil
}

func (repository *fakeRepository) ListHistory(_ context.Context, userID string, params pagination.Params) ([]*library.HistoryView, int, error) {
	views := make([]*library.HistoryView, 0)
	for _, record := range repository.history {
		entry := repository.entryByID(record.UserBookID)
		if entry == nil || entry.UserID != userID {
			continue
		}
		book := repository.books[entry.BookID]

		view := &library.HistoryView{
			TransitionRecord: record,
			BookID:           entry.BookID,
			BookTitle:        book.Title,
			NewStatusName:    record.NewStatus.DisplayName(),
		}
		if record.OldStatus != nil {
			name := record.OldStatus.DisplayName()
			view.OldStatusName = &name
		}
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool { return views[i].ChangedAt.After(views[j].ChangedAt) })
	return views, len(views), nil
}

func (repository *fakeRepository) entryByID(entryID string) *library.Entry {
	for _, entry := range repository.entries {
		if entry.ID == entryID {
			return entry
		}
	}
	return nil
}

func newTestService(repository library.Repository) *library.Service {
	return library.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var (
	bookDune     = library.BookRef{ID: "11111111-1111-7111-8111-111111111111", Title: "Dune", Author: "Frank Herbert"}
	bookHyperion = library.BookRef{ID: "22222222-2222-7222-8222-222222222222", Title: "Hyperion", Author: "Dan Simmons"}
)

const testUserID = "99999999-9999-7999-8999-999999999999"

// # Membership Tests

/*
TestService_AddToCollection verifies the add path: the created entry carries
the chosen status, no optional fields, and no ledger record.
*/
func TestService_AddToCollection(t *testing.T) {
	repository := newFakeRepository(bookDune)
	service := newTestService(repository)

	entry, err := service.AddToCollection(context.Background(), testUserID, bookDune.ID, library.StatusWantToRead)
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, testUserID, entry.UserID)
	assert.Equal(t, bookDune.ID, entry.BookID)
	assert.Equal(t, library.StatusWantToRead, entry.Status)
	assert.Nil(t, entry.Rating)
	assert.Nil(t, entry.StartDate)
	assert.Nil(t, entry.EndDate)
	assert.Nil(t, entry.Review)

	// Adding a book is not a transition, so the ledger stays empty.
	records, total, err := service.ListHistory(context.Background(), testUserID, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, records)

	// The entry is immediately readable back.
	stored, err := service.GetEntry(context.Background(), testUserID, bookDune.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, stored.ID)
}

/*
TestService_AddToCollection_Rejections verifies that invalid inputs leave the
collection untouched.
*/
func TestService_AddToCollection_Rejections(t *testing.T) {
	repository := newFakeRepository(bookDune)
	service := newTestService(repository)

	t.Run("unknown_status", func(t *testing.T) {
		_, err := service.AddToCollection(context.Background(), testUserID, bookDune.ID, library.Status(42))
		assert.ErrorIs(t, err, library.ErrUnknownStatus)
		assert.Empty(t, repository.entries)
	})

	t.Run("unknown_book", func(t *testing.T) {
		_, err := service.AddToCollection(context.Background(), testUserID, "00000000-0000-7000-8000-000000000000", library.StatusReading)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "NOT_FOUND", appError.Code)
		assert.Empty(t, repository.entries)
	})

	t.Run("duplicate_pair", func(t *testing.T) {
		_, err := service.AddToCollection(context.Background(), testUserID, bookDune.ID, library.StatusReading)
		require.NoError(t, err)

		_, err = service.AddToCollection(context.Background(), testUserID, bookDune.ID, library.StatusRead)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})
}

// # Matcher Tests

/*
TestService_SearchAvailable verifies matching on title and author and the
exclusion of books already held.
*/
func TestService_SearchAvailable(t *testing.T) {
	repository := newFakeRepository(bookDune, bookHyperion)
	service := newTestService(repository)

	t.Run("blank_query_rejected", func(t *testing.T) {
		for _, query := range []string{"", "   ", "\t"} {
			_, err := service.SearchAvailable(context.Background(), testUserID, query)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		}
	})

	t.Run("matches_title_and_author", func(t *testing.T) {
		byTitle, err := service.SearchAvailable(context.Background(), testUserID, "dune")
		require.NoError(t, err)
		require.Len(t, byTitle, 1)
		assert.Equal(t, bookDune.ID, byTitle[0].ID)

		byAuthor, err := service.SearchAvailable(context.Background(), testUserID, "simmons")
		require.NoError(t, err)
		require.Len(t, byAuthor, 1)
		assert.Equal(t, bookHyperion.ID, byAuthor[0].ID)
	})

	t.Run("excludes_owned_books", func(t *testing.T) {
		_, err := service.AddToCollection(context.Background(), testUserID, bookDune.ID, library.StatusWantToRead)
		require.NoError(t, err)

		matches, err := service.SearchAvailable(context.Background(), testUserID, "n")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, bookHyperion.ID, matches[0].ID)
	})

	t.Run("no_match_is_empty_not_error", func(t *testing.T) {
		matches, err := service.SearchAvailable(context.Background(), testUserID, "zzzzz")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

// # Transition Engine Tests

/*
TestService_ChangeStatus_Lifecycle walks an entry through the full reading
lifecycle and verifies date stamps and the ledger chain.
*/
func TestService_ChangeStatus_Lifecycle(t *testing.T) {
	repository := newFakeRepository(bookDune)
	service := newTestService(repository)

	_, err := service.AddToCollection(context.Background(), testUserID, bookDune.ID, library.StatusWantToRead)
	require.NoError(t, err)

	// want_to_read -> reading stamps the start date.
	entry, err := service.ChangeStatus(context.Background(), testUserID, bookDune.ID, library.StatusReading)
	require.NoError(t, err)
	require.NotNil(t, entry.StartDate)
	assert.Nil(t, entry.EndDate)
	startDate := *entry.StartDate

	// reading -> read stamps the end date and keeps the start date.
	entry, err = service.ChangeStatus(context.Background(), testUserID, bookDune.ID, library.StatusRead)
	require.NoError(t, err)
	require.NotNil(t, entry.EndDate)
	assert.Equal(t, startDate, *entry.StartDate)

	// The ledger holds exactly one record per transition, most recent first,
	// and each record's old status equals the previous record's new status.
	records, total, err := service.ListHistory(context.Background(), testUserID, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, records, 2)

	assert.Equal(t, library.StatusRead, records[0].NewStatus)
	require.NotNil(t, records[0].OldStatus)
	assert.Equal(t, library.StatusReading, *records[0].OldStatus)

	assert.Equal(t, library.StatusReading, records[1].NewStatus)
	require.NotNil(t, records[1].OldStatus)
	assert.Equal(t, library.StatusWantToRead, *records[1].OldStatus)

	assert.True(t, records[0].ChangedAt.After(records[1].ChangedAt))
	assert.Equal(t, records[1].NewStatus, *records[0].OldStatus)

	// Display names are resolved for both sides of each record.
	require.NotNil(t, records[0].OldStatusName)
	assert.Equal(t, "Currently reading", *records[0].OldStatusName)
	assert.Equal(t, "Read", records[0].NewStatusName)
	assert.Equal(t, bookDune.Title, records[0].BookTitle)
}

/*
TestService_ChangeStatus_DatesSurviveReverts verifies that leaving and
re-entering a milestone status never moves its date.
*/
func TestService_ChangeStatus_DatesSurviveReverts(t *testing.T) {
	repository := newFakeRepository(bookDune)
	service := newTestService(repository)

	_, err := service.AddToCollection(context.Background(), testUserID, bookDune.ID, library.StatusWantToRead)
	require.NoError(t, err)

	first, err := service.ChangeStatus(context.Background(), testUserID, bookDune.ID, library.StatusRead)
	require.NoError(t, err)
	require.NotNil(t, first.EndDate)

	// Revert to reading, then finish again.
	_, err = service.ChangeStatus(context.Background(), testUserID, bookDune.ID, library.StatusReading)
	require.NoError(t, err)

	again, err := service.ChangeStatus(context.Background(), testUserID, bookDune.ID, library.StatusRead)
	require.NoError(t, err)

	assert.Equal(t, *first.EndDate, *again.EndDate)

	// Three transitions, three records.
	_, total, err := service.ListHistory(context.Background(), testUserID, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

/*
TestService_ChangeStatus_Rejections verifies vocabulary and membership checks.
*/
func TestService_ChangeStatus_Rejections(t *testing.T) {
	repository := newFakeRepository(bookDune)
	service := newTestService(repository)

	t.Run("unknown_status", func(t *testing.T) {
		_, err := service.ChangeStatus(context.Background(), testUserID, bookDune.ID, library.Status(0))
		assert.ErrorIs(t, err, library.ErrUnknownStatus)
		assert.Empty(t, repository.history)
	})

	t.Run("not_in_collection", func(t *testing.T) {
		_, err := service.ChangeStatus(context.Background(), testUserID, bookDune.ID, library.StatusRead)
		assert.ErrorIs(t, err, library.ErrNotInCollection)
		assert.Empty(t, repository.history)
	})
}

// # Annotation Tests

/*
TestService_SetRating verifies the 1..5 bound and the clear-with-nil path.
*/
func TestService_SetRating(t *testing.T) {
	repository := newFakeRepository(bookDune)
	service := newTestService(repository)

	_, err := service.AddToCollection(context.Background(), testUserID, bookDune.ID, library.StatusRead)
	require.NoError(t, err)

	tests := []struct {
		name    string
		rating  *int
		wantErr bool
	}{
		{"minimum", ratingOf(1), false},
		{"maximum", ratingOf(5), false},
		{"clear", nil, false},
		{"below_minimum", ratingOf(0), true},
		{"above_maximum", ratingOf(6), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.SetRating(context.Background(), testUserID, bookDune.ID, tt.rating)

			if tt.wantErr {
				appError := apperr.As(err)
				require.NotNil(t, appError)
				assert.Equal(t, "VALIDATION_ERROR", appError.Code)
				return
			}

			require.NoError(t, err)
			entry, err := service.GetEntry(context.Background(), testUserID, bookDune.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.rating, entry.Rating)
		})
	}

	t.Run("not_in_collection", func(t *testing.T) {
		err := service.SetRating(context.Background(), testUserID, bookHyperion.ID, ratingOf(3))
		assert.ErrorIs(t, err, library.ErrNotInCollection)
	})
}

/*
TestService_SetReview verifies the length bound and the clear-with-nil path.
*/
func TestService_SetReview(t *testing.T) {
	repository := newFakeRepository(bookDune)
	service := newTestService(repository)

	_, err := service.AddToCollection(context.Background(), testUserID, bookDune.ID, library.StatusRead)
	require.NoError(t, err)

	review := "A slow burn that rewards patience."
	require.NoError(t, service.SetReview(context.Background(), testUserID, bookDune.ID, &review))

	entry, err := service.GetEntry(context.Background(), testUserID, bookDune.ID)
	require.NoError(t, err)
	require.NotNil(t, entry.Review)
	assert.Equal(t, review, *entry.Review)

	t.Run("oversized", func(t *testing.T) {
		oversized := strings.Repeat("x", library.ReviewMaxLen+1)
		err := service.SetReview(context.Background(), testUserID, bookDune.ID, &oversized)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, service.SetReview(context.Background(), testUserID, bookDune.ID, nil))
		entry, err := service.GetEntry(context.Background(), testUserID, bookDune.ID)
		require.NoError(t, err)
		assert.Nil(t, entry.Review)
	})
}

func ratingOf(value int) *int {
	return &value
}
