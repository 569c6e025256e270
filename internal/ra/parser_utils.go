package ra

import (
	"strings"
	"unicode"
)

// splitCommaSeparated splits a string by commas and trims each part.
// Empty parts are kept so callers can reject "A,,B".
func splitCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// cutKeyword reports whether s starts with kw (case-insensitive) followed by
// whitespace, and returns the trimmed remainder.
func cutKeyword(s, kw string) (string, bool) {
	if len(s) <= len(kw) || !strings.EqualFold(s[:len(kw)], kw) {
		return "", false
	}
	if !unicode.IsSpace(rune(s[len(kw)])) {
		return "", false
	}
	return strings.TrimSpace(s[len(kw):]), true
}

// isIdentifier accepts relation names made of letters, digits and '_'.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
