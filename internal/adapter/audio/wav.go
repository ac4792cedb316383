package audio

import (
	"bytes"
	"fmt"

	"github.com/youpy/go-wav"
)

// encodeWAV wraps mono 16-bit PCM in a WAV container.
func encodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer
	w := wav.NewWriter(&buf, uint32(len(samples)), 1, uint32(sampleRate), 16)

	out := make([]wav.Sample, len(samples))
	for i, s := range samples {
		out[i].Values[0] = int(s)
	}
	if err := w.WriteSamples(out); err != nil {
		return nil, fmt.Errorf("audio: encode wav: %w", err)
	}
	return buf.Bytes(), nil
}
