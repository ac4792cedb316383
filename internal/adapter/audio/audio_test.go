package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"os/exec"
	"testing"
	"time"

	"github.com/youpy/go-wav"

	"github.com/heartmarshall/wordlookup/internal/config"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func frame(amplitude int16, n int) []int16 {
	f := make([]int16, n)
	for i := range f {
		if i%2 == 0 {
			f[i] = amplitude
		} else {
			f[i] = -amplitude
		}
	}
	return f
}

func TestRMS(t *testing.T) {
	t.Parallel()

	if got := rms(nil); got != 0 {
		t.Errorf("rms(nil) = %v", got)
	}
	if got := rms(frame(0, 10)); got != 0 {
		t.Errorf("rms(silence) = %v", got)
	}
	if got := rms(frame(32767, 10)); got < 0.999 {
		t.Errorf("rms(full scale) = %v, want ~1", got)
	}
}

func TestVAD_StopsAfterTrailingSilence(t *testing.T) {
	t.Parallel()

	v := newVAD(0.1, 50*time.Millisecond, 150*time.Millisecond, 10*time.Second)
	loud, quiet := frame(16000, 8), frame(10, 8)

	// Leading silence never ends the capture on its own.
	for i := 0; i < 10; i++ {
		if v.feed(quiet) {
			t.Fatalf("stopped on leading silence at frame %d", i)
		}
	}
	if v.feed(loud) || v.feed(loud) {
		t.Fatal("stopped during speech")
	}
	if v.feed(quiet) || v.feed(quiet) {
		t.Fatal("stopped before the silence window elapsed")
	}
	if !v.feed(quiet) {
		t.Error("expected stop after three quiet frames")
	}
	if !v.heard {
		t.Error("speech should be recorded as heard")
	}
}

func TestVAD_MaxDuration(t *testing.T) {
	t.Parallel()

	v := newVAD(0.1, 50*time.Millisecond, time.Second, 200*time.Millisecond)
	loud := frame(16000, 8)
	for i := 0; i < 3; i++ {
		if v.feed(loud) {
			t.Fatalf("stopped early at frame %d", i)
		}
	}
	if !v.feed(loud) {
		t.Error("expected stop at max duration")
	}
}

func TestEncodeWAV(t *testing.T) {
	t.Parallel()

	data, err := encodeWAV([]int16{0, 1000, -1000, 32767}, 16000)
	if err != nil {
		t.Fatalf("encodeWAV: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Fatalf("missing RIFF header: %q", data[:min(len(data), 12)])
	}

	r := wav.NewReader(bytes.NewReader(data))
	format, err := r.Format()
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if format.NumChannels != 1 || format.SampleRate != 16000 || format.BitsPerSample != 16 {
		t.Errorf("format = %+v", format)
	}
	samples, err := r.ReadSamples(4)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if len(samples) != 4 || samples[2].Values[0] != -1000 {
		t.Errorf("samples = %+v", samples)
	}
}

func TestPlayer_Play(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("test"); err != nil {
		t.Skip("test(1) not available")
	}

	// "test -s FILE" succeeds only when the decoded audio reached the file.
	p := NewPlayer("test -s", newTestLogger())
	audio := base64.StdEncoding.EncodeToString([]byte("ID3 fake mp3"))

	if err := p.Play(context.Background(), audio); err != nil {
		t.Errorf("Play: %v", err)
	}
}

func TestPlayer_Errors(t *testing.T) {
	t.Parallel()

	p := NewPlayer("definitely-not-a-player-binary", newTestLogger())
	ctx := context.Background()

	if err := p.Play(ctx, ""); err == nil {
		t.Error("expected error for empty audio")
	}
	if err := p.Play(ctx, "not base64!"); err == nil {
		t.Error("expected decode error")
	}
	if err := p.Play(ctx, base64.StdEncoding.EncodeToString([]byte("x"))); err == nil {
		t.Error("expected error for missing player binary")
	}
}

func TestNewPlayer_DefaultCommand(t *testing.T) {
	t.Parallel()

	p := NewPlayer("  ", newTestLogger())
	if p.command[0] != "ffplay" || p.command[len(p.command)-1] != "quiet" {
		t.Errorf("command = %v", p.command)
	}
}

type mockTranscriber struct {
	SpeechToTextFunc func(ctx context.Context, audio []byte, filename string) (string, error)
}

func (m *mockTranscriber) SpeechToText(ctx context.Context, audio []byte, filename string) (string, error) {
	return m.SpeechToTextFunc(ctx, audio, filename)
}

func TestRecorder_DisabledIsUnavailable(t *testing.T) {
	t.Parallel()

	r := NewRecorder(configWithMic(false), &mockTranscriber{}, newTestLogger())
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if r.Available() {
		t.Error("disabled microphone must be unavailable")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func configWithMic(enabled bool) config.AudioConfig {
	return config.AudioConfig{
		MicEnabled: enabled,
		SampleRate: 16000,
		MaxRecord:  8 * time.Second,
		Silence:    1200 * time.Millisecond,
		Threshold:  0.02,
	}
}
