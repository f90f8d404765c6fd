package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts a string to snake_case (initialism-safe).
//
// Hyphens, dots and spaces are treated as word separators, so "user-name",
// "user.name" and "userName" all become "user_name".
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s) + 4)

	runes := []rune(s)
	lastSep := true

	for i, r := range runes {
		if isSeparator(r) {
			if !lastSep {
				b.WriteRune('_')
				lastSep = true
			}
			continue
		}

		// Add underscore at word boundaries:
		// 1) lower/digit -> upper  (e.g., userID -> user_ID)
		// 2) acronym -> word       (e.g., HTTPServer -> HTTP_Server)
		if i > 0 && !lastSep && unicode.IsUpper(r) {
			prev := runes[i-1]
			var next rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}

			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteRune('_')
			} else if unicode.IsUpper(prev) && next != 0 && unicode.IsLower(next) {
				b.WriteRune('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
		lastSep = false
	}

	return strings.TrimSuffix(b.String(), "_")
}

// Squash lower-cases s and drops every separator, leaving only letters and digits.
//
// It is the loosest comparable form of an identifier: "db.user-name",
// "DB_USER_NAME" and "dbUserName" all squash to "dbusername".
func Squash(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}
