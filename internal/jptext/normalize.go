// Package jptext normalizes OCR output text the way the manga-ocr
// models were trained: whitespace stripped, dot runs canonicalized,
// halfwidth characters widened.
package jptext

import (
	"strings"
	"unicode"
)

// Normalize applies the post-OCR normalization pipeline. The steps are
// order-sensitive and each runs exactly once:
//
//  1. remove all whitespace
//  2. replace the ellipsis character with three periods
//  3. collapse runs of two or more middle-dot/period characters into
//     periods of the same run length
//  4. convert halfwidth characters to fullwidth
func Normalize(s string) string {
	s = stripWhitespace(s)
	s = strings.ReplaceAll(s, "…", "...")
	s = collapseDots(s)
	return ToFullwidth(s)
}

func stripWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// collapseDots rewrites every run of two or more characters from
// {middle-dot, period} as a run of periods of the same length. A lone
// middle-dot is kept as-is.
func collapseDots(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(runes); {
		if !isDotLike(runes[i]) {
			sb.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && isDotLike(runes[j]) {
			j++
		}
		if j-i >= 2 {
			sb.WriteString(strings.Repeat(".", j-i))
		} else {
			sb.WriteRune(runes[i])
		}
		i = j
	}
	return sb.String()
}

func isDotLike(r rune) bool {
	return r == '・' || r == '.'
}
