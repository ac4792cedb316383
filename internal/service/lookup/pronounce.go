package lookup

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// Pronounce returns base64 MP3 audio of text spoken in lang.
func (s *Service) Pronounce(ctx context.Context, in PronounceInput) (string, error) {
	in.normalize()
	if err := in.Validate(s.deps.Languages); err != nil {
		return "", err
	}

	audio, err := s.speak(ctx, in.Text, in.Lang)
	if err != nil {
		s.log.ErrorContext(ctx, "pronounce failed",
			slog.String("lang", in.Lang),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("pronounce: %w", err)
	}
	return audio, nil
}

// Transcribe converts a recorded clip to text. It returns
// domain.ErrUnavailable when no recognizer is configured.
func (s *Service) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if s.deps.Transcriber == nil {
		return "", fmt.Errorf("transcribe: %w", domain.ErrUnavailable)
	}

	text, err := s.deps.Transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		s.log.WarnContext(ctx, "transcription failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("transcribe: %w", err)
	}

	s.log.InfoContext(ctx, "transcribed speech", slog.String("text", text))
	return text, nil
}
