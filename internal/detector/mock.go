package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests and the demo mode to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetCount makes Detect return a single hand holding up n fingers.
// n outside 0-5 clears the hands, simulating no detection.
func (m *MockDetector) SetCount(n int) {
	if n < 0 || n > 5 {
		m.SetHands(nil)
		return
	}
	m.SetHands([]HandLandmarks{CountLandmarks(n)})
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// fingerColumns holds the X position of each digit's base for a hand whose
// thumb points toward +X. Index 0 is the thumb.
var fingerColumns = [5]float64{0.62, 0.55, 0.50, 0.45, 0.40}

// PoseLandmarks builds a hand with the given digits extended (thumb first).
// rightFacing places the thumb to the right of the little finger in image space;
// otherwise the hand is mirrored. Every joint has confidence 0.95.
func PoseLandmarks(extended [5]bool, rightFacing bool) HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}
	lm.SetConfidence(0.95)

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	// Thumb: base at the side of the palm; extended pushes the tip outward,
	// folded tucks it back across the palm.
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	lm.Points[ThumbMCP] = Point3D{X: fingerColumns[0], Y: 0.70}
	if extended[0] {
		lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65}
		lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60}
	} else {
		lm.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.66}
		lm.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.64}
	}

	bases := [4]int{IndexMCP, MiddleMCP, RingMCP, LittleMCP}
	for i, base := range bases {
		x := fingerColumns[i+1]
		lm.Points[base] = Point3D{X: x, Y: 0.68}
		if extended[i+1] {
			lm.Points[base+1] = Point3D{X: x, Y: 0.55}
			lm.Points[base+2] = Point3D{X: x, Y: 0.45}
			lm.Points[base+3] = Point3D{X: x, Y: 0.35}
		} else {
			lm.Points[base+1] = Point3D{X: x, Y: 0.66, Z: -0.05}
			lm.Points[base+2] = Point3D{X: x - 0.02, Y: 0.68, Z: -0.04}
			lm.Points[base+3] = Point3D{X: x - 0.03, Y: 0.72, Z: -0.02}
		}
	}

	if !rightFacing {
		lm.Mirror()
		lm.Handedness = "Left"
	}
	return lm
}

// CountLandmarks returns a right-facing hand with the first n digits extended,
// thumb first (1 = thumb, 2 = thumb+index, ...). n is clamped to 0-5.
func CountLandmarks(n int) HandLandmarks {
	var extended [5]bool
	for i := 0; i < n && i < 5; i++ {
		extended[i] = true
	}
	return PoseLandmarks(extended, true)
}

// OpenPalmLandmarks returns a hand with all five digits extended.
func OpenPalmLandmarks() HandLandmarks {
	return CountLandmarks(5)
}

// FistLandmarks returns a hand with every digit folded.
func FistLandmarks() HandLandmarks {
	return CountLandmarks(0)
}
