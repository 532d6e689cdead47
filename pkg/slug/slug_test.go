// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shelfmark/pkg/slug"
)

/*
TestFrom verifies slug derivation across accents, punctuation, and spacing.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple_title", "The Great Gatsby", "the-great-gatsby"},
		{"accents_stripped", "Café Révolution", "cafe-revolution"},
		{"punctuation", "Solaris (Revised Translation)", "solaris-revised-translation"},
		{"multiple_spaces", "A    Wild   Sheep  Chase", "a-wild-sheep-chase"},
		{"leading_trailing", "  ...Dune...  ", "dune"},
		{"numbers_kept", "1984", "1984"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
