// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"encoding/json"
	"fmt"

	"github.com/taibuivan/shelfmark/internal/platform/apperr"
)

// # Status Vocabulary

// Status identifies one reading status from the closed vocabulary.
//
// The numeric identifiers are stable and match the library.status seed rows;
// they are never compared as raw literals outside this file. New statuses are
// added here and in the migration seed, nowhere else.
type Status int

const (
	// StatusRead means the user finished the book.
	StatusRead Status = 1

	// StatusWantToRead means the book is queued but not started.
	StatusWantToRead Status = 2

	// StatusReading means the user is currently reading the book.
	StatusReading Status = 3
)

// statusSlugs maps each status to its wire identifier.
var statusSlugs = map[Status]string{
	StatusRead:       "read",
	StatusWantToRead: "want_to_read",
	StatusReading:    "reading",
}

// statusNames maps each status to its human-readable display name.
var statusNames = map[Status]string{
	StatusRead:       "Read",
	StatusWantToRead: "Want to read",
	StatusReading:    "Currently reading",
}

// ErrUnknownStatus is returned whenever a status identifier outside the
// vocabulary reaches the service layer.
var ErrUnknownStatus = apperr.Unprocessable("Unknown reading status")

// ErrNotInCollection is returned when a (user, book) pair has no membership
// entry.
var ErrNotInCollection = apperr.NotFound("Collection entry")

// AllStatuses returns the vocabulary ordered by identifier.
func AllStatuses() []Status {
	return []Status{StatusRead, StatusWantToRead, StatusReading}
}

// Valid reports whether s belongs to the vocabulary.
func (s Status) Valid() bool {
	_, ok := statusSlugs[s]
	return ok
}

// Slug returns the stable wire identifier (e.g. "want_to_read").
func (s Status) Slug() string {
	return statusSlugs[s]
}

// DisplayName returns the human-readable name (e.g. "Want to read").
func (s Status) DisplayName() string {
	return statusNames[s]
}

// ParseStatus resolves a numeric identifier into a vocabulary member.
func ParseStatus(id int) (Status, error) {
	s := Status(id)
	if !s.Valid() {
		return 0, ErrUnknownStatus
	}
	return s, nil
}

// ParseStatusSlug resolves a wire identifier into a vocabulary member.
func ParseStatusSlug(slug string) (Status, error) {
	for status, candidate := range statusSlugs {
		if candidate == slug {
			return status, nil
		}
	}
	return 0, ErrUnknownStatus
}

// MarshalJSON emits the status slug so API clients never see raw identifiers.
func (s Status) MarshalJSON() ([]byte, error) {
	slug, ok := statusSlugs[s]
	if !ok {
		return nil, fmt.Errorf("library: cannot marshal unknown status %d", int(s))
	}
	return json.Marshal(slug)
}

// UnmarshalJSON accepts a status slug.
func (s *Status) UnmarshalJSON(data []byte) error {
	var slug string
	if err := json.Unmarshal(data, &slug); err != nil {
		return err
	}

	parsed, err := ParseStatusSlug(slug)
	if err != nil {
		return fmt.Errorf("library: unknown status slug %q", slug)
	}

	*s = parsed
	return nil
}
