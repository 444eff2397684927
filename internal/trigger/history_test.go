package trigger

import "testing"

func TestHistory_TooFewSamplesIsNeutral(t *testing.T) {
	var h History

	if got := h.Classify(0.001, 0.001); got != MotionNeutral {
		t.Errorf("empty history: Classify() = %v, want neutral", got)
	}

	h.Push(0.5)
	if got := h.Classify(0.001, 0.001); got != MotionNeutral {
		t.Errorf("single sample: Classify() = %v, want neutral", got)
	}
}

func TestHistory_DownwardMotion(t *testing.T) {
	var h History

	// Monotonic increase (downward in image coordinates) with average
	// delta 0.003, above a 0.002 threshold.
	for _, s := range []float64{0.0, 0.003, 0.006, 0.009} {
		h.Push(s)
	}

	if got := h.Classify(0.002, 0.001); got != MotionDown {
		t.Errorf("Classify() = %v, want down", got)
	}
}

func TestHistory_FlatIsNeverDown(t *testing.T) {
	var h History
	for i := 0; i < 4; i++ {
		h.Push(0.25)
	}

	if got := h.Classify(0.0001, 0.0001); got != MotionNeutral {
		t.Errorf("flat sequence: Classify() = %v, want neutral", got)
	}
}

func TestHistory_DecreasingIsUpNotDown(t *testing.T) {
	var h History
	for _, s := range []float64{0.009, 0.006, 0.003, 0.0} {
		h.Push(s)
	}

	if got := h.Classify(0.002, 0.001); got != MotionUp {
		t.Errorf("decreasing sequence: Classify() = %v, want up", got)
	}
}

func TestHistory_BelowThresholdIsNeutral(t *testing.T) {
	var h History
	// Average delta 0.0015: under a 0.002 down threshold.
	for _, s := range []float64{0.0, 0.0015, 0.003} {
		h.Push(s)
	}

	if got := h.Classify(0.002, 0.001); got != MotionNeutral {
		t.Errorf("Classify() = %v, want neutral", got)
	}

	// The same samples exceed a tighter 0.0008 threshold.
	if got := h.Classify(0.0008, 0.0005); got != MotionDown {
		t.Errorf("tight threshold: Classify() = %v, want down", got)
	}
}

func TestHistory_EvictsOldestSample(t *testing.T) {
	var h History
	for i := 0; i < 10; i++ {
		h.Push(float64(i))
	}

	if h.Len() != HistorySize {
		t.Fatalf("Len() = %d, want %d", h.Len(), HistorySize)
	}

	// Window now holds 6..9; a flat push sequence would eventually
	// drain the old ascent out of the window.
	for i := 0; i < HistorySize; i++ {
		h.Push(9)
	}
	if got := h.Classify(0.001, 0.001); got != MotionNeutral {
		t.Errorf("after flattening: Classify() = %v, want neutral", got)
	}
}

func TestHistory_Reset(t *testing.T) {
	var h History
	h.Push(1)
	h.Push(2)
	h.Reset()

	if h.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", h.Len())
	}
	if got := h.Classify(0.001, 0.001); got != MotionNeutral {
		t.Errorf("Classify() after Reset = %v, want neutral", got)
	}
}
