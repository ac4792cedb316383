package audio

import (
	"math"
	"time"
)

// vad ends a capture after trailing silence that follows speech, or when the
// maximum duration is reached.
type vad struct {
	threshold     float64
	silenceFrames int
	maxFrames     int

	heard bool
	quiet int
	total int
}

func newVAD(threshold float64, frame, silence, maxDuration time.Duration) *vad {
	return &vad{
		threshold:     threshold,
		silenceFrames: max(1, int(silence/frame)),
		maxFrames:     max(1, int(maxDuration/frame)),
	}
}

// feed consumes one frame and reports whether capture should stop.
func (v *vad) feed(frame []int16) bool {
	v.total++
	if rms(frame) >= v.threshold {
		v.heard = true
		v.quiet = 0
	} else if v.heard {
		v.quiet++
	}
	return (v.heard && v.quiet >= v.silenceFrames) || v.total >= v.maxFrames
}

// rms is the root mean square of frame, scaled to [0, 1].
func rms(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		f := float64(s) / math.MaxInt16
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(frame)))
}
