package phone

import "strings"

// Normalize strips every non-digit rune from a phone number. SMS gateway APIs
// that take the number as a query parameter require the bare digits, with the
// country code passed separately.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
