package lookup

import (
	"strings"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// SearchInput holds the parameters for a word lookup.
type SearchInput struct {
	Word       string
	TargetLang string
}

// normalize trims the word and defaults the language to English.
func (i *SearchInput) normalize() {
	i.Word = strings.TrimSpace(i.Word)
	i.TargetLang = strings.ToLower(strings.TrimSpace(i.TargetLang))
	if i.TargetLang == "" {
		i.TargetLang = domain.DefaultLanguage.Code
	}
}

// Validate checks the word and language. Messages are user-facing.
func (i SearchInput) Validate(langs *domain.LanguageRegistry) error {
	if i.Word == "" {
		return domain.NewValidationError("word", "Word is required")
	}
	if len([]rune(i.Word)) > 100 {
		return domain.NewValidationError("word", "Word is too long")
	}
	if !langs.Has(i.TargetLang) {
		return domain.NewValidationError("target_lang", "Unsupported language: "+i.TargetLang)
	}
	return nil
}

// PronounceInput holds the parameters for a pronunciation request.
type PronounceInput struct {
	Text string
	Lang string
}

func (i *PronounceInput) normalize() {
	i.Text = strings.TrimSpace(i.Text)
	i.Lang = strings.ToLower(strings.TrimSpace(i.Lang))
	if i.Lang == "" {
		i.Lang = domain.DefaultLanguage.Code
	}
}

// Validate checks the text and language.
func (i PronounceInput) Validate(langs *domain.LanguageRegistry) error {
	if i.Text == "" {
		return domain.NewValidationError("text", "Text is required")
	}
	if len([]rune(i.Text)) > 500 {
		return domain.NewValidationError("text", "Text is too long")
	}
	if !langs.Has(i.Lang) {
		return domain.NewValidationError("lang", "Unsupported language: "+i.Lang)
	}
	return nil
}
