package lookup

import (
	"strings"

	goaway "github.com/TwiN/go-away"
)

// minDefinitionWords is the shortest definition worth showing.
const minDefinitionWords = 3

// appropriate reports whether a definition is long enough and clean.
func appropriate(text string) bool {
	if len(strings.Fields(text)) < minDefinitionWords {
		return false
	}
	return !goaway.IsProfane(text)
}

// cleanExample returns ex, or "" when it is profane.
func cleanExample(ex string) string {
	ex = strings.TrimSpace(ex)
	if ex == "" || goaway.IsProfane(ex) {
		return ""
	}
	return ex
}
