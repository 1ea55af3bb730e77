// Package id normalizes and derives the natural keys used to deduplicate
// records during reconciliation.
package id

import (
	"strconv"
	"strings"
	"unicode"
)

// DerivedKeyLen is the number of name characters kept in a derived key.
const DerivedKeyLen = 8

// Normalize trims surrounding whitespace from a business key.
func Normalize(key string) string {
	return strings.TrimSpace(key)
}

// DeriveKey builds a key from the leading letters and digits of a name,
// uppercased: "Abebe Trading PLC" -> "ABEBETRA". It returns "" when the name
// has no letters or digits.
func DeriveKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() >= DerivedKeyLen {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// KeyOrDerive returns the normalized key, or a key derived from name when
// the key is blank.
func KeyOrDerive(key, name string) string {
	if k := Normalize(key); k != "" {
		return k
	}
	return DeriveKey(name)
}

// WithSuffix disambiguates a derived key: WithSuffix("ABEBETRA", 2) is
// "ABEBETRA-2".
func WithSuffix(key string, n int) string {
	return key + "-" + strconv.Itoa(n)
}

// SameName reports whether two names are equal ignoring case, spacing and
// punctuation.
func SameName(a, b string) bool {
	return foldName(a) == foldName(b)
}

func foldName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
