// Package textutil provides the light text normalisation applied to
// extracted page text before it is chunked and indexed.
package textutil

import "strings"

// Normalize collapses whitespace runs to single spaces, converts
// non-breaking spaces to regular spaces, and trims the result.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
