// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits s into chunks no longer than limit runes, breaking on
// line boundaries. A single line longer than the limit becomes its own chunk,
// split mid-line as a last resort. Empty input yields no chunks.
func SplitMessage(s string, limit int) []string {
	if s == "" {
		return nil
	}
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}

	var (
		chunks []string
		buf    strings.Builder
		bufLen int
	)
	flush := func() {
		if buf.Len() > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
			bufLen = 0
		}
	}

	for _, line := range strings.SplitAfter(s, "\n") {
		n := utf8.RuneCountInString(line)
		if bufLen+n > limit {
			flush()
		}
		for n > limit {
			head, tail := cutRunes(line, limit)
			chunks = append(chunks, head)
			line, n = tail, utf8.RuneCountInString(tail)
		}
		buf.WriteString(line)
		bufLen += n
	}
	flush()
	return chunks
}

// cutRunes splits s after n runes.
func cutRunes(s string, n int) (head, tail string) {
	for i := range s {
		if n == 0 {
			return s[:i], s[i:]
		}
		n--
	}
	return s, ""
}

// PadRight pads s with spaces on the right to width runes. Longer strings are
// returned unchanged.
func PadRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// PadLeft pads s with spaces on the left to width runes. Longer strings are
// returned unchanged.
func PadLeft(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
