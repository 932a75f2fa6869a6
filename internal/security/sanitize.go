package security

import (
	"regexp"
	"strings"
)

// maxFieldLength bounds every sanitized free-text field.
const maxFieldLength = 255

var (
	markupChars    = regexp.MustCompile(`[<>"'&]`)
	disallowedRune = regexp.MustCompile(`[^\w\s@.\-]`)
)

// Sanitize strips markup characters from a free-text field, drops anything
// outside word characters, whitespace, '@', '.' and '-', trims surrounding
// whitespace and truncates to 255 characters. It never fails.
func Sanitize(input string) string {
	s := markupChars.ReplaceAllString(input, "")
	s = disallowedRune.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > maxFieldLength {
		s = string(runes[:maxFieldLength])
	}
	return s
}
