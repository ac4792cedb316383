package domain

// Phonetic is one phonetic transcription of a word.
type Phonetic struct {
	Text string `json:"text"`
}

// Definition is a single dictionary sense.
type Definition struct {
	PartOfSpeech string `json:"part_of_speech"`
	Definition   string `json:"definition"`
	Example      string `json:"example,omitempty"`
}

// SearchResult is the full payload returned for one word lookup.
// Pronunciation and TranslationPronunciation hold base64-encoded mp3 audio.
type SearchResult struct {
	Word                     string       `json:"word"`
	Pronunciation            string       `json:"pronunciation,omitempty"`
	Phonetics                []Phonetic   `json:"phonetics,omitempty"`
	Translation              string       `json:"translation,omitempty"`
	TranslationPronunciation string       `json:"translation_pronunciation,omitempty"`
	Definitions              []Definition `json:"definitions,omitempty"`
	TranslatedDefinitions    []Definition `json:"translated_definitions,omitempty"`
	TargetLanguage           string       `json:"target_language"`
	SourceLanguage           string       `json:"source_language,omitempty"`
	Synonyms                 []string     `json:"synonyms,omitempty"`
	Antonyms                 []string     `json:"antonyms,omitempty"`
	Examples                 []string     `json:"examples,omitempty"`
	Audio                    string       `json:"audio,omitempty"`
}

// IsEmpty reports whether the result carries nothing worth showing.
func (r *SearchResult) IsEmpty() bool {
	return len(r.Definitions) == 0 && r.Translation == "" && len(r.Phonetics) == 0
}

// RecordingState is the state of the microphone control.
type RecordingState int

const (
	Idle RecordingState = iota
	Recording
)

func (s RecordingState) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}
