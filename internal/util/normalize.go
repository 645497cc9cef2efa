package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents strips combining marks so "São Paulo" and "Sao Paulo" compare
// equal. The SQL side applies unaccent() for the stored-data direction.
func FoldAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}

// FoldForSearch lowercases and accent-folds a free-text query term.
func FoldForSearch(s string) string {
	return strings.ToLower(FoldAccents(strings.TrimSpace(s)))
}
