// Package langdetect guesses the language of a word or phrase offline. The
// lookup service uses it when the translator does not report a source language.
package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// codes maps registry codes to lingua languages. Registry languages without a
// lingua model are absent and never detected.
var codes = map[string]lingua.Language{
	"en":    lingua.English,
	"es":    lingua.Spanish,
	"fr":    lingua.French,
	"de":    lingua.German,
	"it":    lingua.Italian,
	"pt":    lingua.Portuguese,
	"ru":    lingua.Russian,
	"ja":    lingua.Japanese,
	"ko":    lingua.Korean,
	"zh-cn": lingua.Chinese,
	"hi":    lingua.Hindi,
	"bn":    lingua.Bengali,
	"te":    lingua.Telugu,
	"ta":    lingua.Tamil,
	"mr":    lingua.Marathi,
	"gu":    lingua.Gujarati,
	"pa":    lingua.Punjabi,
	"ur":    lingua.Urdu,
}

// Detector wraps a lingua detector restricted to a set of registry codes.
type Detector struct {
	detector lingua.LanguageDetector
	byLang   map[lingua.Language]string
}

// New builds a Detector for the given registry codes. Unknown codes are
// ignored; an empty list uses every mapped language. New returns nil when
// fewer than two codes are usable, since lingua needs a choice to make.
func New(registry []string) *Detector {
	if len(registry) == 0 {
		for code := range codes {
			registry = append(registry, code)
		}
	}

	byLang := make(map[lingua.Language]string)
	var langs []lingua.Language
	for _, code := range registry {
		code = strings.ToLower(strings.TrimSpace(code))
		l, ok := codes[code]
		if !ok {
			continue
		}
		if _, dup := byLang[l]; dup {
			continue
		}
		byLang[l] = code
		langs = append(langs, l)
	}
	if len(langs) < 2 {
		return nil
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(langs...).Build(),
		byLang:   byLang,
	}
}

// Detect returns the registry code of text's most likely language.
func (d *Detector) Detect(text string) (string, bool) {
	if d == nil || strings.TrimSpace(text) == "" {
		return "", false
	}
	l, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	code, ok := d.byLang[l]
	return code, ok
}

// Supported reports whether code has a detection model.
func Supported(code string) bool {
	_, ok := codes[strings.ToLower(code)]
	return ok
}
