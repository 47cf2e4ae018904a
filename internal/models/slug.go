package models

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Letters without a canonical decomposition.
var transliterate = runes.Map(func(r rune) rune {
	switch r {
	case 'ł':
		return 'l'
	case 'Ł':
		return 'L'
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	case 'ø':
		return 'o'
	case 'Ø':
		return 'O'
	}
	return r
})

// Slugify turns a product name into a URL-safe slug, e.g. "Złoty Pierścionek" -> "zloty-pierscionek".
func Slugify(name string) string {
	t := transform.Chain(transliterate, norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}
	s = nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
