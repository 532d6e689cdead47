// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog implements the shared book catalog.

The catalog is the single source of truth for book identity and metadata.
Other packages reference books strictly by ID and never duplicate catalog
data; the library package in particular consumes it read-only.

Architecture:

  - Book: Canonical metadata record, addressable by UUID or unique slug.
  - Service: Validation, slug derivation, and cache-aside reads.
  - PostgresRepository / RedisCache: Durable store and detail-read cache.
*/
package catalog

import "time"

// # Domain Entities

// Book is one canonical catalog record.
//
// Title and Author are mandatory; everything else is optional metadata that
// may arrive later or never. The slug is derived from the title at creation
// and stays stable afterwards, so links never rot on a retitle.
type Book struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            *string   `json:"isbn,omitempty"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	Genre           *string   `json:"genre,omitempty"`
	Description     *string   `json:"description,omitempty"`
	PageCount       *int      `json:"page_count,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

// # Field Identifiers

// Global field names for validation in the catalog domain.
const (
	FieldQuery           = "q"
	FieldTitle           = "title"
	FieldAuthor          = "author"
	FieldISBN            = "isbn"
	FieldPublicationYear = "publication_year"
	FieldGenre           = "genre"
	FieldDescription     = "description"
	FieldPageCount       = "page_count"
)

// Bounds for catalog book fields.
const (
	TitleMaxLen       = 512
	AuthorMaxLen      = 255
	ISBNMaxLen        = 17
	GenreMaxLen       = 100
	DescriptionMaxLen = 8000

	// PublicationYearMin predates movable type by a wide margin so ancient
	// texts still fit.
	PublicationYearMin = -3000
	PublicationYearMax = 2100

	PageCountMin = 1
	PageCountMax = 50000
)
