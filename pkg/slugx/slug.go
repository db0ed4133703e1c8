// Package slugx turns free text, Vietnamese included, into URL slugs.
//
// Rules:
//  1. đ/Đ become d/D, every other diacritic is removed via NFD decomposition.
//  2. Lower-case everything.
//  3. Drop anything that is not a-z, 0-9, whitespace or "-".
//  4. Runs of whitespace become a single "-", runs of "-" collapse to one.
//  5. Trim leading and trailing "-".
//
// The result may be empty (e.g. "@@@"); callers pick a fallback.
package slugx

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// đ has no canonical decomposition, so NFD leaves it alone
var dReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// RemoveDiacritics strips combining marks, e.g. "Phần Mềm" → "Phan Mem"
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, dReplacer.Replace(s))
	if err != nil {
		return dReplacer.Replace(s)
	}
	return out
}

// Make converts title into a lower-kebab ASCII slug
func Make(title string) string {
	s := strings.ToLower(RemoveDiacritics(title))

	var b strings.Builder
	b.Grow(len(s))

	lastWasDash := false
	pendingSpace := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSpace && !lastWasDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSpace = false
			b.WriteRune(r)
			lastWasDash = false
		case r == '-':
			pendingSpace = false
			if !lastWasDash {
				b.WriteByte('-')
				lastWasDash = true
			}
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// WithSuffix appends -n to base, e.g. ("ky-su", 2) → "ky-su-2"
func WithSuffix(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// Valid reports whether s is a well formed slug
func Valid(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	prevDash := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			prevDash = false
		case c == '-':
			if prevDash {
				return false
			}
			prevDash = true
		default:
			return false
		}
	}
	return true
}
