package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// JoinKey returns the form of s used when comparing comments with filenames.
// The text is only composed to NFC: whitespace and case are kept, so "A" and
// "A " stay distinct comments.
func JoinKey(s string) string {
	return norm.NFC.String(s)
}

// IsBlank reports whether s carries no annotation.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
