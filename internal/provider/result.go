package provider

// DictionaryResult is the structured result from a dictionary API provider.
type DictionaryResult struct {
	Word           string
	Senses         []SenseResult
	Pronunciations []PronunciationResult
	Synonyms       []string
	Antonyms       []string
}

// SenseResult represents a single word sense from an external dictionary.
type SenseResult struct {
	Definition   string
	PartOfSpeech *string
	Examples     []ExampleResult
}

// ExampleResult represents a usage example from an external dictionary.
type ExampleResult struct {
	Sentence string
}

// PronunciationResult represents pronunciation data from an external dictionary.
type PronunciationResult struct {
	Transcription *string
	AudioURL      *string
	Region        *string
}

// SlangResult is one crowd-sourced definition, ranked by votes.
type SlangResult struct {
	Definition string
	Example    string
	ThumbsUp   int
}

// TranslationResult is the output of a machine translation call.
// SourceLanguage is the language the provider detected, lowercased.
type TranslationResult struct {
	Text           string
	SourceLanguage string
}
