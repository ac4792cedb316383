// Package lookup assembles a word card from dictionary, slang, translation
// and speech providers.
package lookup

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/provider"
)

type dictionaryProvider interface {
	FetchEntry(ctx context.Context, word string) (*provider.DictionaryResult, error)
}

type slangProvider interface {
	FetchSlang(ctx context.Context, term string) ([]provider.SlangResult, error)
}

type translator interface {
	Translate(ctx context.Context, text, target string) (*provider.TranslationResult, error)
}

type speechSynthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

type transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type audioCache interface {
	Get(ctx context.Context, lang, text string) ([]byte, bool, error)
	Set(ctx context.Context, lang, text string, audio []byte) error
}

type languageDetector interface {
	Detect(text string) (string, bool)
}

type historyRecorder interface {
	Record(ctx context.Context, word, targetLang string) error
}

// Deps groups the collaborators of Service. Cache, Detector, Transcriber and
// History are optional.
type Deps struct {
	Languages   *domain.LanguageRegistry
	Dictionary  dictionaryProvider
	Slang       slangProvider
	Translator  translator
	Speech      speechSynthesizer
	Transcriber transcriber
	Cache       audioCache
	Detector    languageDetector
	History     historyRecorder
}

// Service implements word lookup, pronunciation and transcription.
type Service struct {
	log  *slog.Logger
	cfg  config.LookupConfig
	deps Deps
}

// NewService creates a new lookup service.
func NewService(logger *slog.Logger, cfg config.LookupConfig, deps Deps) *Service {
	if deps.Languages == nil {
		deps.Languages, _ = domain.NewLanguageRegistry(nil)
	}
	return &Service{
		log:  logger.With("service", "lookup"),
		cfg:  cfg,
		deps: deps,
	}
}

// Languages returns the supported target languages in display order.
func (s *Service) Languages() []domain.Language {
	return s.deps.Languages.Languages()
}

// speak returns base64 MP3 audio of text in lang, going through the cache
// when one is configured.
func (s *Service) speak(ctx context.Context, text, lang string) (string, error) {
	if s.deps.Cache != nil {
		audio, ok, err := s.deps.Cache.Get(ctx, lang, text)
		if err != nil {
			s.log.WarnContext(ctx, "audio cache read failed", slog.String("error", err.Error()))
		}
		if ok {
			return base64.StdEncoding.EncodeToString(audio), nil
		}
	}

	audio, err := s.deps.Speech.Synthesize(ctx, text, lang)
	if err != nil {
		return "", fmt.Errorf("synthesize %q: %w", lang, err)
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, lang, text, audio); err != nil {
			s.log.WarnContext(ctx, "audio cache write failed", slog.String("error", err.Error()))
		}
	}

	return base64.StdEncoding.EncodeToString(audio), nil
}
