// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelfmark/internal/library"
)

/*
TestEntry_ApplyStatus_DateStamps verifies that milestone dates are stamped on
first entry into the relevant status and only then.
*/
func TestEntry_ApplyStatus_DateStamps(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name       string
		initial    library.Status
		target     library.Status
		wantsStart bool
		wantsEnd   bool
	}{
		{"want_to_read_sets_no_dates", library.StatusReading, library.StatusWantToRead, false, false},
		{"reading_sets_start_date", library.StatusWantToRead, library.StatusReading, true, false},
		{"read_sets_end_date", library.StatusReading, library.StatusRead, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &library.Entry{ID: "entry-1", Status: tt.initial}

			record := entry.ApplyStatus(tt.target, now)

			assert.Equal(t, tt.target, entry.Status)
			assert.Equal(t, now, entry.UpdatedAt)

			if tt.wantsStart {
				require.NotNil(t, entry.StartDate)
				assert.Equal(t, now, *entry.StartDate)
			} else {
				assert.Nil(t, entry.StartDate)
			}

			if tt.wantsEnd {
				require.NotNil(t, entry.EndDate)
				assert.Equal(t, now, *entry.EndDate)
			} else {
				assert.Nil(t, entry.EndDate)
			}

			require.NotNil(t, record.OldStatus)
			assert.Equal(t, tt.initial, *record.OldStatus)
			assert.Equal(t, tt.target, record.NewStatus)
			assert.Equal(t, now, record.ChangedAt)
			assert.Equal(t, "entry-1", record.UserBookID)
		})
	}
}

/*
TestEntry_ApplyStatus_DatesAreWriteOnce verifies that an already-stamped
milestone survives later transitions, including re-entering the same status.
*/
func TestEntry_ApplyStatus_DatesAreWriteOnce(t *testing.T) {
	first := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	later := first.Add(72 * time.Hour)

	entry := &library.Entry{ID: "entry-2", Status: library.StatusWantToRead}

	// First pass through the lifecycle stamps both dates.
	entry.ApplyStatus(library.StatusReading, first)
	entry.ApplyStatus(library.StatusRead, first)

	require.NotNil(t, entry.StartDate)
	require.NotNil(t, entry.EndDate)

	// Bouncing back and forth must not move either milestone.
	entry.ApplyStatus(library.StatusReading, later)
	entry.ApplyStatus(library.StatusRead, later)

	assert.Equal(t, first, *entry.StartDate)
	assert.Equal(t, first, *entry.EndDate)
	assert.Equal(t, later, entry.UpdatedAt)
}

/*
TestEntry_ApplyStatus_SelfTransition verifies that re-applying the current
status still yields a ledger record with identical old and new values.
*/
func TestEntry_ApplyStatus_SelfTransition(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	entry := &library.Entry{ID: "entry-3", Status: library.StatusReading, StartDate: &now}

	record := entry.ApplyStatus(library.StatusReading, now.Add(time.Hour))

	require.NotNil(t, record.OldStatus)
	assert.Equal(t, library.StatusReading, *record.OldStatus)
	assert.Equal(t, library.StatusReading, record.NewStatus)
	assert.Equal(t, now, *entry.StartDate)
}
