// Package audio plays pronunciations and captures speech from the microphone.
package audio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultPlayer is used when no player command is configured.
const DefaultPlayer = "ffplay -nodisp -autoexit -loglevel quiet"

// Player hands decoded audio to an external command.
type Player struct {
	command []string
	log     *slog.Logger
}

// NewPlayer creates a Player. command is split on whitespace; the audio file
// path is appended as the last argument.
func NewPlayer(command string, logger *slog.Logger) *Player {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultPlayer)
	}
	return &Player{
		command: fields,
		log:     logger.With("adapter", "audio_player"),
	}
}

// Play decodes base64 MP3 audio and blocks until the player exits.
func (p *Player) Play(ctx context.Context, b64 string) error {
	if b64 == "" {
		return errors.New("audio: play: empty audio")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("audio: play: decode: %w", err)
	}

	f, err := os.CreateTemp("", "wordlookup-*.mp3")
	if err != nil {
		return fmt.Errorf("audio: play: temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("audio: play: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("audio: play: write: %w", err)
	}

	args := append(p.command[1:len(p.command):len(p.command)], f.Name())
	cmd := exec.CommandContext(ctx, p.command[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		p.log.DebugContext(ctx, "player output", slog.String("output", string(out)))
		return fmt.Errorf("audio: play: %s: %w", p.command[0], err)
	}
	return nil
}
