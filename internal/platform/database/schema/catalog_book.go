// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema centralizes table and column names for every query in the
// storage layer, so a rename happens in exactly one place.
package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table           string
	ID              string
	Slug            string
	Title           string
	Author          string
	ISBN            string
	PublicationYear string
	Genre           string
	Description     string
	PageCount       string
	AddedAt         string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:           "catalog.book",
	ID:              "id",
	Slug:            "slug",
	Title:           "title",
	Author:          "author",
	ISBN:            "isbn",
	PublicationYear: "publicationyear",
	Genre:           "genre",
	Description:     "description",
	PageCount:       "pagecount",
	AddedAt:         "addedat",
}

func (t CatalogBookTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Author, t.ISBN, t.PublicationYear, t.Genre,
		t.Description, t.PageCount, t.AddedAt,
	}
}
