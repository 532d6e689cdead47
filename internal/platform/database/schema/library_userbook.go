// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LibraryUserBookTable represents the 'library.userbook' membership table.
// One row per (userid, bookid) pair, enforced by a unique constraint.
type LibraryUserBookTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	StatusID  string
	Rating    string
	StartDate string
	EndDate   string
	Review    string
	CreatedAt string
	UpdatedAt string
}

// LibraryUserBook is the schema definition for library.userbook
var LibraryUserBook = LibraryUserBookTable{
	Table:     "library.userbook",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	StatusID:  "statusid",
	Rating:    "rating",
	StartDate: "startdate",
	EndDate:   "enddate",
	Review:    "review",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t LibraryUserBookTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.BookID, t.StatusID, t.Rating, t.StartDate, t.EndDate,
		t.Review, t.CreatedAt, t.UpdatedAt,
	}
}
