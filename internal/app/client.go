package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/heartmarshall/wordlookup/internal/adapter/api"
	"github.com/heartmarshall/wordlookup/internal/adapter/audio"
	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/ui/orchestrator"
	"github.com/heartmarshall/wordlookup/internal/ui/search"
	"github.com/heartmarshall/wordlookup/internal/ui/terminal"
)

// ErrLookupFailed is returned by a one-shot lookup that did not produce a
// result. The message has already been printed.
var ErrLookupFailed = errors.New("lookup failed")

// ClientOptions configure a client run.
type ClientOptions struct {
	// Language overrides the configured default target language.
	Language string
	// Words, when set, run a single lookup and exit.
	Words []string
	In    io.Reader
	Out   io.Writer
}

// RunClient starts the terminal client, either interactive or one-shot.
func RunClient(ctx context.Context, opts ClientOptions) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	logger := NewLogger(cfg.Log)

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	term := terminal.New(opts.Out, cfg.UI.Color, logger)
	deps := orchestrator.Deps{
		API:             client,
		Player:          audio.NewPlayer(cfg.Audio.Player, logger),
		Clipboard:       terminal.WriteClipboard,
		View:            term,
		DefaultLanguage: defaultLanguage(cfg.UI.DefaultLanguage),
		TimeLayout:      cfg.UI.TimeFormat,
	}

	if len(opts.Words) > 0 {
		term.SetQuiet(true)
		return runOnce(ctx, orchestrator.New(deps, logger), opts.Language, strings.Join(opts.Words, " "))
	}

	recorder := audio.NewRecorder(cfg.Audio, client, logger)
	if err := recorder.Init(); err != nil {
		logger.Warn("speech input unavailable", slog.String("error", err.Error()))
	}
	defer recorder.Close()
	deps.Speech = recorder

	if opts.Language != "" {
		deps.DefaultLanguage = defaultLanguage(opts.Language)
	}
	o := orchestrator.New(deps, logger)

	logger.Debug("client started", slog.String("version", BuildVersion()), slog.String("api", cfg.API.BaseURL))
	return term.Run(ctx, o, opts.In)
}

func runOnce(ctx context.Context, o *orchestrator.Orchestrator, lang, word string) error {
	o.Init(ctx)
	if lang != "" {
		if err := o.SetLanguage(lang); err != nil {
			return err
		}
	}
	switch out := o.Submit(ctx, word); out {
	case search.OutcomeSuccess:
		return nil
	case search.OutcomeSkipped:
		return fmt.Errorf("empty word")
	default:
		return ErrLookupFailed
	}
}

// defaultLanguage resolves code against the built-in table, falling back to
// English for unknown codes.
func defaultLanguage(code string) domain.Language {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range domain.SupportedLanguages() {
		if l.Code == code {
			return l
		}
	}
	return domain.DefaultLanguage
}
