package grading

import (
	"strings"
	"unicode"
)

// fold trims, collapses inner whitespace and lowercases.
func fold(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range []rune(strings.TrimSpace(s)) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && len(out) > 0 {
			out = append(out, ' ')
		}
		space = false
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}

// sameText is the blank comparison: trimmed and case-folded.
func sameText(got, want string) bool { return fold(got) == fold(want) }

// sameLabel compares matching labels exactly, ignoring outer whitespace.
func sameLabel(a, b string) bool { return strings.TrimSpace(a) == strings.TrimSpace(b) }

func hasText(s string) bool { return strings.TrimSpace(s) != "" }
