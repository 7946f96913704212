package ident

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IsValidAndPrefixed(t *testing.T) {
	id := New()

	require.True(t, Valid(id), "generated id %q should be valid", id)
	assert.Len(t, id, len(Prefix)+32)
	assert.False(t, unicode.IsDigit(rune(id[0])), "id must not start with a digit")
}

func TestNew_IsUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id generated: %s", id)
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	testCases := []struct {
		id   string
		want bool
	}{
		{"Greeting", true},
		{"M0123456789abcdef0123456789abcdef", true},
		{"", false},
		{"_hidden", false},
		{"9lives", false},
		{"lower", false},
		{"M../escape", false},
		{"M-dash", false},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			assert.Equal(t, tc.want, Valid(tc.id))
		})
	}
}
