package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/heartmarshall/wordlookup/internal/config"
)

// ErrNoSpeech is returned when a capture ends without detecting speech.
var ErrNoSpeech = errors.New("audio: no speech detected")

const frameDuration = 50 * time.Millisecond

type transcriber interface {
	SpeechToText(ctx context.Context, audio []byte, filename string) (string, error)
}

// Recorder captures one utterance from the default input device and sends it
// to the server for recognition.
type Recorder struct {
	cfg config.AudioConfig
	stt transcriber
	log *slog.Logger

	mu          sync.Mutex
	initialized bool
	device      *portaudio.DeviceInfo
}

// NewRecorder creates a Recorder. Call Init before Listen.
func NewRecorder(cfg config.AudioConfig, stt transcriber, logger *slog.Logger) *Recorder {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &Recorder{
		cfg: cfg,
		stt: stt,
		log: logger.With("adapter", "audio_recorder"),
	}
}

// Init starts PortAudio and looks up the default input device. A missing
// device leaves the Recorder unavailable but is not an error.
func (r *Recorder) Init() error {
	if !r.cfg.MicEnabled {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initialize portaudio: %w", err)
	}
	r.initialized = true

	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil || dev.MaxInputChannels == 0 {
		r.log.Warn("no input device, speech input disabled")
		return nil
	}
	r.device = dev
	r.log.Debug("input device ready",
		slog.String("device", dev.Name),
		slog.Float64("default_sample_rate", dev.DefaultSampleRate),
	)
	return nil
}

// Close releases PortAudio.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return nil
	}
	r.initialized = false
	r.device = nil
	return portaudio.Terminate()
}

// Available reports whether the microphone can be used.
func (r *Recorder) Available() bool {
	if !r.cfg.MicEnabled {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.device != nil
}

// Listen records until trailing silence or the maximum duration, then returns
// the recognised text. Cancelling ctx abandons the capture.
func (r *Recorder) Listen(ctx context.Context) (string, error) {
	samples, heard, err := r.capture(ctx)
	if err != nil {
		return "", err
	}
	if !heard {
		return "", ErrNoSpeech
	}

	wavData, err := encodeWAV(samples, r.cfg.SampleRate)
	if err != nil {
		return "", err
	}

	r.log.DebugContext(ctx, "captured utterance",
		slog.Int("samples", len(samples)),
		slog.Int("bytes", len(wavData)),
	)
	return r.stt.SpeechToText(ctx, wavData, "speech.wav")
}

func (r *Recorder) capture(ctx context.Context) ([]int16, bool, error) {
	frames := int(time.Duration(r.cfg.SampleRate) * frameDuration / time.Second)
	buf := make([]int16, frames)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(r.cfg.SampleRate), len(buf), buf)
	if err != nil {
		return nil, false, fmt.Errorf("audio: open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, false, fmt.Errorf("audio: start stream: %w", err)
	}

	detector := newVAD(r.cfg.Threshold, frameDuration, r.cfg.Silence, r.cfg.MaxRecord)
	var samples []int16
	for {
		if err := ctx.Err(); err != nil {
			_ = stream.Stop()
			return nil, false, err
		}
		if err := stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
			_ = stream.Stop()
			return nil, false, fmt.Errorf("audio: read stream: %w", err)
		}
		samples = append(samples, buf...)
		if detector.feed(buf) {
			break
		}
	}

	if err := stream.Stop(); err != nil {
		r.log.WarnContext(ctx, "stop stream failed", slog.String("error", err.Error()))
	}
	return samples, detector.heard, nil
}
