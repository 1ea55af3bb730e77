// Package scan extracts printable tokens and currency-shaped values from raw
// archive buffers. Nothing in this package mutates its input.
package scan

import "strings"

// Token is a trimmed run of printable bytes and the offset where the run began.
type Token struct {
	Text   string
	Offset int
}

// Printable reports whether b is in the printable ASCII range 0x20..0x7E.
func Printable(b byte) bool {
	return b >= 0x20 && b < 0x7F
}

// ExtractStrings returns the printable runs of buf whose length is within
// [minLen, maxLen], in offset order. Runs outside the bounds are dropped whole,
// never truncated. Runs that trim to nothing are dropped as well.
func ExtractStrings(buf []byte, minLen, maxLen int) []Token {
	var tokens []Token
	start := -1
	for i, b := range buf {
		if Printable(b) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendRun(tokens, buf, start, i, minLen, maxLen)
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendRun(tokens, buf, start, len(buf), minLen, maxLen)
	}
	return tokens
}

func appendRun(tokens []Token, buf []byte, start, end, minLen, maxLen int) []Token {
	n := end - start
	if n < minLen || n > maxLen {
		return tokens
	}
	text := strings.TrimSpace(string(buf[start:end]))
	if text == "" {
		return tokens
	}
	return append(tokens, Token{Text: text, Offset: start})
}
