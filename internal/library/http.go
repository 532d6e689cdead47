// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/shelfmark/internal/platform/middleware"
	requestutil "github.com/taibuivan/shelfmark/internal/platform/request"
	"github.com/taibuivan/shelfmark/internal/platform/respond"
	"github.com/taibuivan/shelfmark/internal/platform/validate"
	"github.com/taibuivan/shelfmark/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the personal collection HTTP endpoints.
//
// # Scope
//
// Everything here is strictly per-caller: the user ID always comes from the
// verified token claims, never from the URL or the payload. There is no way
// to address another user's collection through this surface.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the collection endpoints.
//
// # Routing Strategy
//
// Every route requires authentication. The collection is addressed by catalog
// book ID because the (user, book) pair is the natural key of an entry.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		// Collection membership
		protected.Get("/", handler.listEntries)
		protected.Post("/", handler.addToCollection)
		protected.Get("/search", handler.searchAvailable)
		protected.Get("/history", handler.listHistory)

		// Per-entry operations
		protected.Get("/{bookID}", handler.getEntry)
		protected.Put("/{bookID}/status", handler.changeStatus)
		protected.Put("/{bookID}/rating", handler.setRating)
		protected.Put("/{bookID}/review", handler.setReview)
	})

	return router
}

// # Request Payloads

// addEntryRequest defines the inbound JSON schema for adding a book.
type addEntryRequest struct {
	BookID string `json:"book_id"`
	Status string `json:"status"`
}

// changeStatusRequest defines the inbound JSON schema for a status change.
type changeStatusRequest struct {
	Status string `json:"status"`
}

// setRatingRequest defines the inbound JSON schema for rating updates.
// A null rating clears the field.
type setRatingRequest struct {
	Rating *int `json:"rating"`
}

// setReviewRequest defines the inbound JSON schema for review updates.
// A null review clears the field.
type setReviewRequest struct {
	Review *string `json:"review"`
}

// # Collection Endpoints

/*
GET /api/v1/library.

Description: Retrieves a paginated view of the caller's collection, joined
with book titles and status display names, ordered by book title.

Request:
  - limit: int
  - page: int

Response:
  - 200: []EntryView: Paginated collection page
*/
func (handler *Handler) listEntries(writer http.ResponseWriter, request *http.Request) {
	// Identity extraction
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Pagination extraction using pkg/pagination
	paginationParams := pagination.FromRequest(request)

	// Domain Logic Execution
	entries, total, err := handler.service.ListEntries(request.Context(), userID, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
POST /api/v1/library.

Description: Adds a catalog book to the caller's collection with an initial
reading status. The pair must not already exist.

Request:
  - Body: addEntryRequest (BookID, Status slug)

Response:
  - 201: Entry: The created entry
  - 404: ErrNotFound: Book does not exist in the catalog
  - 409: ErrConflict: Book is already in the collection
  - 422: ErrUnprocessable: Status slug outside the vocabulary
*/
func (handler *Handler) addToCollection(writer http.ResponseWriter, request *http.Request) {
	// Identity extraction
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Payload decoding
	var payload addEntryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Input validation
	validator := &validate.Validator{}
	validator.Required(FieldBookID, payload.BookID).UUID(FieldBookID, payload.BookID)
	validator.Required(FieldStatus, payload.Status)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := ParseStatusSlug(payload.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	entry, err := handler.service.AddToCollection(request.Context(), userID, payload.BookID, status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Created(writer, entry)
}

/*
GET /api/v1/library/search.

Description: Finds catalog books matching the query by title or author that
are not yet in the caller's collection. An empty list is a normal answer.

Request:
  - q: string (Required, non-blank)

Response:
  - 200: []BookRef: Matching available books
  - 400: ErrValidation: Blank query
*/
func (handler *Handler) searchAvailable(writer http.ResponseWriter, request *http.Request) {
	// Identity extraction
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	books, err := handler.service.SearchAvailable(request.Context(), userID, request.URL.Query().Get(FieldQuery))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.OK(writer, books)
}

/*
GET /api/v1/library/{bookID}.

Description: Retrieves the caller's entry for one catalog book.

Request:
  - bookID: string (UUID)

Response:
  - 200: Entry: Success
  - 404: ErrNotFound: Pair not in the collection
*/
func (handler *Handler) getEntry(writer http.ResponseWriter, request *http.Request) {
	// Identity extraction
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	entry, err := handler.service.GetEntry(request.Context(), userID, requestutil.Param(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.OK(writer, entry)
}

// # Transition Endpoints

/*
PUT /api/v1/library/{bookID}/status.

Description: Moves the entry to a new reading status. Milestone dates are
stamped server-side on first entry into "reading" and "read" and never
overwritten; every change appends one history record.

Request:
  - bookID: string (UUID)
  - Body: changeStatusRequest (Status slug)

Response:
  - 200: Entry: The updated entry
  - 404: ErrNotFound: Pair not in the collection
  - 422: ErrUnprocessable: Status slug outside the vocabulary
*/
func (handler *Handler) changeStatus(writer http.ResponseWriter, request *http.Request) {
	// Identity extraction
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Payload decoding
	var payload changeStatusRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := ParseStatusSlug(payload.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	entry, err := handler.service.ChangeStatus(request.Context(), userID, requestutil.Param(request, "bookID"), status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.OK(writer, entry)
}

// # Annotation Endpoints

/*
PUT /api/v1/library/{bookID}/rating.

Description: Sets or clears the caller's star rating on an entry.

Request:
  - bookID: string (UUID)
  - Body: setRatingRequest (Rating 1..5, or null to clear)

Response:
  - 204: Rating updated
  - 400: ErrValidation: Rating outside 1..5
  - 404: ErrNotFound: Pair not in the collection
*/
func (handler *Handler) setRating(writer http.ResponseWriter, request *http.Request) {
	// Identity extraction
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Payload decoding
	var payload setRatingRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	if err := handler.service.SetRating(request.Context(), userID, requestutil.Param(request, "bookID"), payload.Rating); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.NoContent(writer)
}

/*
PUT /api/v1/library/{bookID}/review.

Description: Sets or clears the caller's review text on an entry.

Request:
  - bookID: string (UUID)
  - Body: setReviewRequest (Review text, or null to clear)

Response:
  - 204: Review updated
  - 400: ErrValidation: Review exceeds the length bound
  - 404: ErrNotFound: Pair not in the collection
*/
func (handler *Handler) setReview(writer http.ResponseWriter, request *http.Request) {
	// Identity extraction
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Payload decoding
	var payload setReviewRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	if err := handler.service.SetReview(request.Context(), userID, requestutil.Param(request, "bookID"), payload.Review); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.NoContent(writer)
}

// # Ledger Endpoints

/*
GET /api/v1/library/history.

Description: Retrieves the caller's status transition ledger, most recent
change first, joined with book titles and status display names.

Request:
  - limit: int
  - page: int

Response:
  - 200: []HistoryView: Paginated ledger page
*/
func (handler *Handler) listHistory(writer http.ResponseWriter, request *http.Request) {
	// Identity extraction
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Pagination extraction using pkg/pagination
	paginationParams := pagination.FromRequest(request)

	// Domain Logic Execution
	records, total, err := handler.service.ListHistory(request.Context(), userID, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Paginated(writer, records, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
