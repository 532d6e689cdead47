// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelfmark/internal/library"
)

/*
TestParseStatus verifies numeric identifier resolution against the closed
vocabulary.
*/
func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		want    library.Status
		wantErr bool
	}{
		{"read", 1, library.StatusRead, false},
		{"want_to_read", 2, library.StatusWantToRead, false},
		{"reading", 3, library.StatusReading, false},
		{"zero", 0, 0, true},
		{"out_of_range", 4, 0, true},
		{"negative", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := library.ParseStatus(tt.id)

			if tt.wantErr {
				assert.ErrorIs(t, err, library.ErrUnknownStatus)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
			assert.True(t, status.Valid())
		})
	}
}

/*
TestParseStatusSlug verifies wire identifier resolution.
*/
func TestParseStatusSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		want    library.Status
		wantErr bool
	}{
		{"read", "read", library.StatusRead, false},
		{"want_to_read", "want_to_read", library.StatusWantToRead, false},
		{"reading", "reading", library.StatusReading, false},
		{"empty", "", 0, true},
		{"display_name_rejected", "Currently reading", 0, true},
		{"numeric_rejected", "3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := library.ParseStatusSlug(tt.slug)

			if tt.wantErr {
				assert.ErrorIs(t, err, library.ErrUnknownStatus)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.slug, status.Slug())
		})
	}
}

/*
TestStatus_JSON verifies that statuses travel as slugs on the wire in both
directions.
*/
func TestStatus_JSON(t *testing.T) {
	raw, err := json.Marshal(library.StatusWantToRead)
	require.NoError(t, err)
	assert.Equal(t, `"want_to_read"`, string(raw))

	var decoded library.Status
	require.NoError(t, json.Unmarshal([]byte(`"reading"`), &decoded))
	assert.Equal(t, library.StatusReading, decoded)

	// Unknown slugs and unknown numeric values must both fail loudly.
	assert.Error(t, json.Unmarshal([]byte(`"paused"`), &decoded))

	_, err = json.Marshal(library.Status(99))
	assert.Error(t, err)
}

/*
TestAllStatuses verifies the vocabulary is complete and carries display names.
*/
func TestAllStatuses(t *testing.T) {
	statuses := library.AllStatuses()
	require.Len(t, statuses, 3)

	for _, status := range statuses {
		assert.True(t, status.Valid())
		assert.NotEmpty(t, status.Slug())
		assert.NotEmpty(t, status.DisplayName())
	}
}
