// Package trigger implements the percussion trigger engine: per-finger
// motion classification from a short position history, edge latching,
// cooldown arbitration, skill-level gating and mode-dependent
// sensitivity profiles.
package trigger

import "encoding/json"

// Motion classifies recent fingertip movement along the vertical axis.
type Motion int

const (
	// MotionNeutral means no clear vertical movement.
	MotionNeutral Motion = iota
	// MotionDown means the fingertip is striking downward.
	MotionDown
	// MotionUp means the fingertip is releasing upward.
	MotionUp
)

// String returns the string representation of the Motion.
func (m Motion) String() string {
	switch m {
	case MotionDown:
		return "down"
	case MotionUp:
		return "up"
	default:
		return "neutral"
	}
}

// MarshalJSON encodes the motion as its string form for API consumers.
func (m Motion) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// HistorySize is the number of recent position samples kept per channel.
// Four samples is roughly 130ms of movement at 15 FPS, short enough to
// stay responsive while smoothing single-frame tracker jitter.
const HistorySize = 4

// History is a fixed-capacity sliding window of wrist-relative vertical
// fingertip positions. Image coordinates grow downward, so a positive
// average delta means the fingertip is moving down toward a strike.
type History struct {
	samples []float64
}

// Push appends a new position sample, evicting the oldest one once the
// window is full.
func (h *History) Push(sample float64) {
	if len(h.samples) >= HistorySize {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:HistorySize-1]
	}
	h.samples = append(h.samples, sample)
}

// Classify averages the consecutive deltas across the window and
// compares the result to the active thresholds. It returns MotionDown
// when the average exceeds downThreshold, MotionUp when it is below the
// negated upThreshold, and MotionNeutral otherwise. Fewer than two
// samples always classify as neutral.
func (h *History) Classify(downThreshold, upThreshold float64) Motion {
	if len(h.samples) < 2 {
		return MotionNeutral
	}

	var sum float64
	for i := 1; i < len(h.samples); i++ {
		sum += h.samples[i] - h.samples[i-1]
	}
	avg := sum / float64(len(h.samples)-1)

	switch {
	case avg > downThreshold:
		return MotionDown
	case avg < -upThreshold:
		return MotionUp
	default:
		return MotionNeutral
	}
}

// Len returns the number of samples currently held.
func (h *History) Len() int {
	return len(h.samples)
}

// Reset discards all samples.
func (h *History) Reset() {
	h.samples = h.samples[:0]
}
