package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase turns a Go type name into a file name stem: IntBuffer becomes
// int_buffer and HTTPRingBuffer becomes http_ring_buffer.
func ToSnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 && wordStart(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// wordStart reports whether the upper-case rune at i begins a new word: it
// follows a lower-case letter or digit, or it ends a run of capitals (the R in
// HTTPRing).
func wordStart(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
