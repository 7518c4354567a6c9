package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"data", "data", 0},
		{"kitten", "sitting", 3},
		{"data", "dat", 1},
		{"data", "datum", 2},
		{"data", "items", 5},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.s1, tt.s2))
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"label", "Date", "items", "dat"}

	assert.Equal(t, []string{"Date", "dat"}, FindSimilar("data", candidates, 2))
	assert.Empty(t, FindSimilar("data", []string{"values"}, 2))
	assert.Equal(t, []string{"Date", "dat"}, FindSimilar("data", candidates, 0))
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"IntBuffer":      "int_buffer",
		"HTTPRingBuffer": "http_ring_buffer",
		"events":         "events",
		"Ring2Buffer":    "ring2_buffer",
		"ring64Slots":    "ring64_slots",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToSnakeCase(in), in)
	}
}

func TestUpperFirst(t *testing.T) {
	assert.Equal(t, "IntBuffer", UpperFirst("intBuffer"))
	assert.Equal(t, "", UpperFirst(""))
	assert.Equal(t, "Événement", UpperFirst("événement"))
}
