// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library implements the personal collection core: membership entries,
the status transition engine, and the append-only status history ledger.

Architecture:

  - Entry: One user's relationship to one catalog book, keyed by (user, book).
  - Transition engine: Validates a status change, derives date stamps, and
    records the change — membership update and history append commit together.
  - Ledger: Write-once, read-many record of every transition per user.

Every operation is scoped by the caller's own user ID taken from verified
claims; no operation accepts a caller-supplied filter for another user.
*/
package library

import "time"

// # Domain Entities

// BookRef is the read-only catalog projection the library core works with.
// Book metadata is owned by the catalog package; the library only needs
// identity, title, and author for matching and display.
type BookRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Entry represents one user's relationship to one catalog book.
//
// # Date Semantics
//
// StartDate and EndDate are set exactly once by the transition engine and are
// never cleared or overwritten by it. A user flipping away from "reading" and
// back keeps the original StartDate; likewise for EndDate and "read". A nil
// pointer means the milestone has not been reached yet.
type Entry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	BookID    string     `json:"book_id"`
	Status    Status     `json:"status"`
	Rating    *int       `json:"rating,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Review    *string    `json:"review,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TransitionRecord is one immutable row of the status history ledger.
//
// OldStatus is nil only for a record describing the initial status assigned
// at creation; the engine does not write such records (creation is not a
// transition), but the schema and queries tolerate them.
type TransitionRecord struct {
	ID         string    `json:"id"`
	UserBookID string    `json:"user_book_id"`
	OldStatus  *Status   `json:"old_status"`
	NewStatus  Status    `json:"new_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// # Transition Engine (domain half)

// ApplyStatus moves the entry to newStatus and derives the date-stamp side
// effects, returning the ledger record describing the change.
//
// The policy is evaluated even when newStatus equals the current status:
// dates are idempotent, but a record is still produced. The caller supplies
// the single server timestamp shared by the date stamps and the record.
//
// The caller must persist the mutated entry and the returned record in one
// atomic unit.
func (entry *Entry) ApplyStatus(newStatus Status, now time.Time) TransitionRecord {
	previous := entry.Status
	entry.Status = newStatus
	entry.UpdatedAt = now

	// One-directional date stamps: a book never "un-starts" or "un-finishes"
	// just because its status was reverted later.
	switch newStatus {
	case StatusReading:
		if entry.StartDate == nil {
			entry.StartDate = &now
		}
	case StatusRead:
		if entry.EndDate == nil {
			entry.EndDate = &now
		}
	}

	return TransitionRecord{
		UserBookID: entry.ID,
		OldStatus:  &previous,
		NewStatus:  newStatus,
		ChangedAt:  now,
	}
}

// # Read Models

// EntryView is an Entry joined with its book and status display data,
// as returned by list endpoints.
type EntryView struct {
	Entry
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	StatusName string `json:"status_name"`
}

// HistoryView is a TransitionRecord joined with the book title and both
// status display names.
type HistoryView struct {
	TransitionRecord
	BookID        string  `json:"book_id"`
	BookTitle     string  `json:"book_title"`
	OldStatusName *string `json:"old_status_name"`
	NewStatusName string  `json:"new_status_name"`
}

// # Field Identifiers

// Global field names for validation in the library domain.
const (
	FieldQuery  = "q"
	FieldBookID = "book_id"
	FieldStatus = "status"
	FieldRating = "rating"
	FieldReview = "review"
)

// Bounds for membership entry fields.
const (
	// RatingMin and RatingMax bound the 1-5 star scale.
	RatingMin = 1
	RatingMax = 5

	// ReviewMaxLen bounds free-text reviews.
	ReviewMaxLen = 4000
)
