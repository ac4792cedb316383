package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText folds text into the form used for cache keys: NFC, lower
// case, with every whitespace run collapsed to one space. Accents and
// punctuation are kept, so "résumé" and "resume" stay distinct.
func NormalizeText(text string) string {
	fields := strings.Fields(norm.NFC.String(text))
	return strings.ToLower(strings.Join(fields, " "))
}
