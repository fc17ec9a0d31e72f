// Package slug builds URL-safe product slugs.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

var folds = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ä", "a", "ã", "a", "å", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i", "ı", "i",
	"ó", "o", "ò", "o", "ô", "o", "ö", "o", "õ", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ğ", "g", "ñ", "n", "ş", "s", "ß", "ss",
)

// Make lowercases s, folds common accents and joins words with '-'.
// An empty result becomes fallback.
func Make(s, fallback string) string {
	s = folds.Replace(strings.ToLower(strings.TrimSpace(s)))
	s = strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return fallback
	}
	return s
}
