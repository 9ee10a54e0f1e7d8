// Package detector provides hand detection interfaces and the per-frame joint model
// consumed by the finger classifier.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	LittleMCP    = 17
	LittlePIP    = 18
	LittleDIP    = 19
	LittleTip    = 20
	NumLandmarks = 21
)

// jointNames maps landmark indices to their wire names.
var jointNames = [NumLandmarks]string{
	"wrist",
	"thumbCMC", "thumbMCP", "thumbIP", "thumbTip",
	"indexMCP", "indexPIP", "indexDIP", "indexTip",
	"middleMCP", "middlePIP", "middleDIP", "middleTip",
	"ringMCP", "ringPIP", "ringDIP", "ringTip",
	"littleMCP", "littlePIP", "littleDIP", "littleTip",
}

var jointIndex = func() map[string]int {
	m := make(map[string]int, NumLandmarks)
	for i, name := range jointNames {
		m[name] = i
	}
	return m
}()

// JointName returns the wire name of a landmark index, or "" if out of range.
func JointName(index int) string {
	if index < 0 || index >= NumLandmarks {
		return ""
	}
	return jointNames[index]
}

// JointIndex returns the landmark index for a wire name.
func JointIndex(name string) (int, bool) {
	i, ok := jointIndex[name]
	return i, ok
}

// Point3D represents a 3D point in space with x, y, z coordinates.
// X and Y are normalized image coordinates with Y growing downward.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected for one hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Confidence [NumLandmarks]float64 `json:"confidence"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// SetConfidence assigns the same confidence to every joint.
func (h *HandLandmarks) SetConfidence(c float64) {
	for i := range h.Confidence {
		h.Confidence[i] = c
	}
}

// Mirror flips the hand horizontally in normalized coordinates.
func (h *HandLandmarks) Mirror() {
	for i := range h.Points {
		h.Points[i].X = 1 - h.Points[i].X
	}
}
