package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/metrics"
	"github.com/heartmarshall/wordlookup/internal/provider"
)

// translateConcurrency bounds parallel definition translations.
const translateConcurrency = 4

// Search builds the card for one word.
//
// Dictionary and translation lookups run concurrently. Provider failures are
// logged and leave the matching fields empty. Search returns
// domain.ErrNotFound when no source produced anything, and a plain error when
// nothing was produced because sources failed.
func (s *Service) Search(ctx context.Context, in SearchInput) (*domain.SearchResult, error) {
	in.normalize()
	if err := in.Validate(s.deps.Languages); err != nil {
		metrics.LookupsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	result := &domain.SearchResult{
		Word:           in.Word,
		TargetLanguage: in.TargetLang,
	}

	var (
		dictErr, transErr error
		translation       *provider.TranslationResult
	)

	var g errgroup.Group
	g.Go(func() error {
		dictErr = s.fillDefinitions(ctx, result, in.Word)
		return nil
	})
	if in.TargetLang != domain.DefaultLanguage.Code {
		g.Go(func() error {
			translation, transErr = s.deps.Translator.Translate(ctx, in.Word, in.TargetLang)
			if transErr != nil {
				s.log.WarnContext(ctx, "translation failed",
					slog.String("word", in.Word),
					slog.String("target", in.TargetLang),
					slog.String("error", transErr.Error()),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	if translation != nil {
		result.Translation = translation.Text
	}
	result.SourceLanguage = s.sourceLanguage(in.Word, translation)

	if result.IsEmpty() {
		if err := errors.Join(dictErr, transErr); err != nil {
			metrics.LookupsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("lookup %q: %w", in.Word, err)
		}
		metrics.LookupsTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("lookup %q: %w", in.Word, domain.ErrNotFound)
	}

	s.fillAudio(ctx, result)

	if s.deps.History != nil {
		if err := s.deps.History.Record(ctx, in.Word, in.TargetLang); err != nil {
			s.log.ErrorContext(ctx, "history record failed",
				slog.String("word", in.Word),
				slog.String("error", err.Error()),
			)
		}
	}

	metrics.LookupsTotal.WithLabelValues("ok").Inc()
	s.log.InfoContext(ctx, "lookup finished",
		slog.String("word", in.Word),
		slog.String("target", in.TargetLang),
		slog.String("source", result.SourceLanguage),
		slog.Int("definitions", len(result.Definitions)),
		slog.Int("translated_definitions", len(result.TranslatedDefinitions)),
	)

	return result, nil
}

// fillDefinitions sets phonetics, definitions, examples and related words
// from the dictionary, falling back to slang definitions. The returned error
// is non-nil only when every source failed.
func (s *Service) fillDefinitions(ctx context.Context, result *domain.SearchResult, word string) error {
	entry, dictErr := s.deps.Dictionary.FetchEntry(ctx, word)
	if dictErr != nil {
		s.log.WarnContext(ctx, "dictionary lookup failed",
			slog.String("word", word),
			slog.String("error", dictErr.Error()),
		)
	}
	if entry != nil {
		applyDictionary(result, entry)
	}
	if len(result.Definitions) > 0 {
		return nil
	}
	if s.deps.Slang == nil {
		return dictErr
	}

	slang, err := s.deps.Slang.FetchSlang(ctx, word)
	if err != nil {
		s.log.WarnContext(ctx, "slang lookup failed",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return errors.Join(dictErr, err)
	}
	applySlang(result, slang, s.cfg.MaxSlangDefinitions)
	return nil
}

func applyDictionary(result *domain.SearchResult, entry *provider.DictionaryResult) {
	for _, p := range entry.Pronunciations {
		if p.Transcription != nil && strings.TrimSpace(*p.Transcription) != "" {
			result.Phonetics = append(result.Phonetics, domain.Phonetic{Text: *p.Transcription})
		}
		if result.Audio == "" && p.AudioURL != nil {
			result.Audio = *p.AudioURL
		}
	}

	for _, sense := range entry.Senses {
		if !appropriate(sense.Definition) {
			continue
		}
		def := domain.Definition{Definition: sense.Definition}
		if sense.PartOfSpeech != nil {
			def.PartOfSpeech = *sense.PartOfSpeech
		}
		if len(sense.Examples) > 0 {
			def.Example = cleanExample(sense.Examples[0].Sentence)
		}
		if def.Example != "" {
			result.Examples = append(result.Examples, def.Example)
		}
		result.Definitions = append(result.Definitions, def)
	}

	result.Synonyms = entry.Synonyms
	result.Antonyms = entry.Antonyms
}

func applySlang(result *domain.SearchResult, slang []provider.SlangResult, max int) {
	for _, item := range slang {
		if len(result.Definitions) >= max {
			break
		}
		if !appropriate(item.Definition) {
			continue
		}
		def := domain.Definition{
			PartOfSpeech: "slang",
			Definition:   item.Definition,
			Example:      cleanExample(item.Example),
		}
		if def.Example != "" {
			result.Examples = append(result.Examples, def.Example)
		}
		result.Definitions = append(result.Definitions, def)
	}
}

// sourceLanguage picks the language the word is spoken in: the translator's
// detection, then offline detection, then English.
func (s *Service) sourceLanguage(word string, tr *provider.TranslationResult) string {
	if tr != nil && s.deps.Languages.Has(tr.SourceLanguage) {
		return tr.SourceLanguage
	}
	if s.deps.Detector != nil {
		if code, ok := s.deps.Detector.Detect(word); ok && s.deps.Languages.Has(code) {
			return code
		}
	}
	return domain.DefaultLanguage.Code
}

// fillAudio synthesizes both pronunciations and translates definitions
// concurrently. Failures leave the field empty.
func (s *Service) fillAudio(ctx context.Context, result *domain.SearchResult) {
	var (
		g          errgroup.Group
		pron       string
		transPron  string
		translated []domain.Definition
	)

	g.Go(func() error {
		pron = s.speakOrLog(ctx, result.Word, result.SourceLanguage)
		return nil
	})

	if result.Translation != "" {
		g.Go(func() error {
			transPron = s.speakOrLog(ctx, result.Translation, result.TargetLanguage)
			return nil
		})
	}

	if result.TargetLanguage != domain.DefaultLanguage.Code && s.cfg.MaxTranslatedDefinitions > 0 && len(result.Definitions) > 0 {
		g.Go(func() error {
			translated = s.translateDefinitions(ctx, result.Definitions, result.TargetLanguage)
			return nil
		})
	}

	_ = g.Wait()

	result.Pronunciation = pron
	result.TranslationPronunciation = transPron
	result.TranslatedDefinitions = translated
}

func (s *Service) speakOrLog(ctx context.Context, text, lang string) string {
	audio, err := s.speak(ctx, text, lang)
	if err != nil {
		s.log.WarnContext(ctx, "pronunciation failed",
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return audio
}

// translateDefinitions translates up to MaxTranslatedDefinitions definitions
// into target, preserving order and dropping failures.
func (s *Service) translateDefinitions(ctx context.Context, defs []domain.Definition, target string) []domain.Definition {
	n := min(len(defs), s.cfg.MaxTranslatedDefinitions)
	out := make([]*domain.Definition, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(translateConcurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			tr, err := s.deps.Translator.Translate(gctx, defs[i].Definition, target)
			if err != nil {
				s.log.WarnContext(ctx, "definition translation failed",
					slog.Int("index", i),
					slog.String("error", err.Error()),
				)
				return nil
			}
			out[i] = &domain.Definition{
				PartOfSpeech: defs[i].PartOfSpeech,
				Definition:   tr.Text,
			}
			return nil
		})
	}
	_ = g.Wait()

	var result []domain.Definition
	for _, d := range out {
		if d != nil {
			result = append(result, *d)
		}
	}
	return result
}
