package domain

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language pairs a language code with its display name.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DefaultLanguage is the interface language and the default search target.
var DefaultLanguage = Language{Code: "en", Name: "English"}

var supportedLanguages = []Language{
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
	{"it", "Italian"},
	{"pt", "Portuguese"},
	{"ru", "Russian"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"zh-cn", "Chinese (Simplified)"},
	{"hi", "Hindi"},
	{"bn", "Bengali"},
	{"te", "Telugu"},
	{"ta", "Tamil"},
	{"mr", "Marathi"},
	{"gu", "Gujarati"},
	{"kn", "Kannada"},
	{"ml", "Malayalam"},
	{"pa", "Punjabi"},
	{"ur", "Urdu"},
}

// SupportedLanguages returns the built-in language table in display order.
func SupportedLanguages() []Language {
	return slices.Clone(supportedLanguages)
}

// LanguageRegistry is an ordered, read-only code→name table.
type LanguageRegistry struct {
	langs []Language
	index map[string]int
}

// NewLanguageRegistry builds a registry from the given codes. An empty list
// yields the built-in table. Codes outside the built-in table must be valid
// BCP 47 tags; their names come from CLDR English display names.
func NewLanguageRegistry(codes []string) (*LanguageRegistry, error) {
	if len(codes) == 0 {
		return newRegistry(supportedLanguages), nil
	}

	builtin := make(map[string]string, len(supportedLanguages))
	for _, l := range supportedLanguages {
		builtin[l.Code] = l.Name
	}

	namer := display.English.Tags()
	langs := make([]Language, 0, len(codes))
	for _, raw := range codes {
		code := strings.ToLower(strings.TrimSpace(raw))
		if code == "" {
			continue
		}
		if name, ok := builtin[code]; ok {
			langs = append(langs, Language{Code: code, Name: name})
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", raw, err)
		}
		name := namer.Name(tag)
		if name == "" {
			name = code
		}
		langs = append(langs, Language{Code: code, Name: name})
	}

	return newRegistry(langs), nil
}

func newRegistry(langs []Language) *LanguageRegistry {
	r := &LanguageRegistry{
		langs: make([]Language, 0, len(langs)),
		index: make(map[string]int, len(langs)),
	}
	for _, l := range langs {
		if _, dup := r.index[l.Code]; dup {
			continue
		}
		r.index[l.Code] = len(r.langs)
		r.langs = append(r.langs, l)
	}
	return r
}

// Languages returns the registry contents in order.
func (r *LanguageRegistry) Languages() []Language {
	return slices.Clone(r.langs)
}

// Codes returns the registered codes in order.
func (r *LanguageRegistry) Codes() []string {
	codes := make([]string, len(r.langs))
	for i, l := range r.langs {
		codes[i] = l.Code
	}
	return codes
}

// Name returns the display name for code.
func (r *LanguageRegistry) Name(code string) (string, bool) {
	i, ok := r.index[code]
	if !ok {
		return "", false
	}
	return r.langs[i].Name, true
}

// Has reports whether code is registered.
func (r *LanguageRegistry) Has(code string) bool {
	_, ok := r.index[code]
	return ok
}
