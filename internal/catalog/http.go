// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/shelfmark/internal/platform/apperr"
	"github.com/taibuivan/shelfmark/internal/platform/middleware"
	requestutil "github.com/taibuivan/shelfmark/internal/platform/request"
	"github.com/taibuivan/shelfmark/internal/platform/respond"
	"github.com/taibuivan/shelfmark/internal/platform/sec"
	"github.com/taibuivan/shelfmark/pkg/pagination"
	"github.com/taibuivan/shelfmark/pkg/uuid"
)

// # Definitions & Constructors

// Handler implements the shared catalog HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the catalog endpoints.
//
// # Routing Strategy
//
//   - Discovery (Authenticated): Browsing and searching the shared catalog.
//   - Management (Restricted): Requires [sec.RoleAdmin] for mutations, since
//     the catalog is shared state visible to every user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Discovery Endpoints
	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)

		member.Get("/", handler.listBooks)
		member.Get("/search", handler.searchBooks)
		member.Get("/{identifier}", handler.getBook)
	})

	// ## Catalog Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAuth)
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createBook)
		admin.Put("/{id}", handler.updateBook)
	})

	return router
}

// # Request Payloads

// bookRequest defines the inbound JSON schema for book creation and update.
type bookRequest struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	ISBN            *string `json:"isbn"`
	PublicationYear *int    `json:"publication_year"`
	Genre           *string `json:"genre"`
	Description     *string `json:"description"`
	PageCount       *int    `json:"page_count"`
}

func (payload bookRequest) toBook() *Book {
	return &Book{
		Title:           payload.Title,
		Author:          payload.Author,
		ISBN:            payload.ISBN,
		PublicationYear: payload.PublicationYear,
		Genre:           payload.Genre,
		Description:     payload.Description,
		PageCount:       payload.PageCount,
	}
}

// # Catalog Endpoints

/*
GET /api/v1/books.

Description: Retrieves a paginated list of the shared catalog ordered by
title.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Book: Paginated catalog page
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	// Pagination extraction using pkg/pagination
	paginationParams := pagination.FromRequest(request)

	// Domain Logic Execution
	books, total, err := handler.service.ListBooks(request.Context(), paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/books/search.

Description: Searches the whole catalog by title or author substring.

Request:
  - q: string (Required, non-blank)
  - limit: int
  - page: int

Response:
  - 200: []Book: Paginated matches
  - 400: ErrValidation: Blank query
*/
func (handler *Handler) searchBooks(writer http.ResponseWriter, request *http.Request) {
	// Pagination extraction using pkg/pagination
	paginationParams := pagination.FromRequest(request)

	// Domain Logic Execution
	books, total, err := handler.service.SearchBooks(request.Context(), request.URL.Query().Get(FieldQuery), paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/books/{identifier}.

Description: Retrieves one catalog book by UUID or unique slug. UUID lookups
take precedence and are served cache-aside.

Request:
  - identifier: string (UUID or slug)

Response:
  - 200: Book: Success
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	// Extract identifier from URL
	identifier := requestutil.Param(request, "identifier")

	// Domain Logic Execution
	book, err := handler.service.GetBook(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.OK(writer, book)
}

// # Management Endpoints

/*
POST /api/v1/books.

Description: Adds a new book to the shared catalog. Admin only.

Request:
  - Body: bookRequest (Title and Author required)

Response:
  - 201: Book: The created record
  - 400: ErrValidation: Missing or out-of-bounds metadata
  - 409: ErrConflict: Duplicate slug or ISBN
*/
func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	// Payload decoding
	var payload bookRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	book := payload.toBook()
	if err := handler.service.CreateBook(request.Context(), book); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Created(writer, book)
}

/*
PUT /api/v1/books/{id}.

Description: Replaces the mutable metadata of an existing book. Admin only.
The slug is never changed by this endpoint.

Request:
  - id: string (UUID)
  - Body: bookRequest

Response:
  - 200: Book: The updated record
  - 400: ErrValidation: Invalid identifier or metadata
  - 404: ErrNotFound: Book not found
  - 409: ErrConflict: Duplicate ISBN
*/
func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	// Extract identifier from URL
	bookID := requestutil.Param(request, "id")
	if !uuid.IsValid(bookID) {
		respond.Error(writer, request, apperr.ValidationError("Invalid book identifier"))
		return
	}

	// Payload decoding
	var payload bookRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	book := payload.toBook()
	book.ID = bookID
	if err := handler.service.UpdateBook(request.Context(), book); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Refetch to include immutable fields (slug, added_at) in the response.
	updated, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.OK(writer, updated)
}
