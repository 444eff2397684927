package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, either as a fixed
// result or as a queued sequence of frames.
type MockDetector struct {
	hands []HandLandmarks
	queue [][]HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call
// once the queue is exhausted.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// QueueHands appends a frame's worth of hands to the detection queue.
// Each Detect call consumes one queued frame before falling back to the
// fixed result.
func (m *MockDetector) QueueHands(hands []HandLandmarks) {
	m.queue = append(m.queue, hands)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		hands := m.queue[0]
		m.queue = m.queue[1:]
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandAtOffsets returns a HandLandmarks with the wrist at a fixed
// position and each fingertip placed at the given vertical offset from
// the wrist, in thumb/index/middle/ring/pinky order. Intermediate
// joints are left at the zero value; only the wrist and tips matter for
// strike detection.
func HandAtOffsets(handedness string, tipOffsets [5]float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.5, Z: 0.0}
	for i, tip := range FingertipIndices {
		lm.Points[tip] = Point3D{
			X: 0.4 + 0.05*float64(i),
			Y: 0.5 + tipOffsets[i],
			Z: 0.0,
		}
	}

	return lm
}

// StrokeSequence builds a series of single-hand frames in which one
// finger descends by step each frame while the others hold still. The
// result can be queued on a MockDetector to simulate a drum stroke.
func StrokeSequence(finger int, frames int, step float64) [][]HandLandmarks {
	var seq [][]HandLandmarks
	var offsets [5]float64
	for i := 0; i < frames; i++ {
		offsets[finger] += step
		seq = append(seq, []HandLandmarks{HandAtOffsets("Left", offsets)})
	}
	return seq
}
