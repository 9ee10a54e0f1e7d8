package detector

import "time"

// DefaultMinConfidence is the single joint inclusion threshold used everywhere.
const DefaultMinConfidence = 0.6

// Joint is one confidently detected landmark.
type Joint struct {
	X          float64
	Y          float64
	Confidence float64
}

// HandFrame holds the joints of one camera frame that passed the confidence
// threshold. Frames are independent: nothing is carried over from earlier frames.
type HandFrame struct {
	DetectedAt time.Time
	joints     [NumLandmarks]Joint
	present    [NumLandmarks]bool
}

// EmptyFrame returns a frame with no joints ("no hand").
func EmptyFrame(detectedAt time.Time) HandFrame {
	return HandFrame{DetectedAt: detectedAt}
}

// NewHandFrame builds a frame from a detected hand, dropping joints whose
// confidence is below minConfidence. A nil hand yields an empty frame.
func NewHandFrame(detectedAt time.Time, hand *HandLandmarks, minConfidence float64) HandFrame {
	f := HandFrame{DetectedAt: detectedAt}
	if hand == nil {
		return f
	}
	for i := 0; i < NumLandmarks; i++ {
		if hand.Confidence[i] < minConfidence {
			continue
		}
		f.Set(i, Joint{X: hand.Points[i].X, Y: hand.Points[i].Y, Confidence: hand.Confidence[i]})
	}
	return f
}

// Set stores a joint at the given index. Out of range indices are ignored.
func (f *HandFrame) Set(index int, j Joint) {
	if index < 0 || index >= NumLandmarks {
		return
	}
	f.joints[index] = j
	f.present[index] = true
}

// Joint returns the joint at index and whether it is present.
func (f HandFrame) Joint(index int) (Joint, bool) {
	if index < 0 || index >= NumLandmarks || !f.present[index] {
		return Joint{}, false
	}
	return f.joints[index], true
}

// Len returns the number of present joints.
func (f HandFrame) Len() int {
	n := 0
	for _, ok := range f.present {
		if ok {
			n++
		}
	}
	return n
}

// Empty reports whether the frame has no joints.
func (f HandFrame) Empty() bool {
	return f.Len() == 0
}

// JointRecord is the wire form of one joint.
type JointRecord struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// FrameRecord is the wire form of a HandFrame: a detection timestamp in unix
// milliseconds and the joints that were reported.
type FrameRecord struct {
	DetectedAt int64         `json:"detectedAt"`
	Joints     []JointRecord `json:"joints"`
}

// Record converts the frame to its wire form.
func (f HandFrame) Record() FrameRecord {
	rec := FrameRecord{
		DetectedAt: f.DetectedAt.UnixMilli(),
		Joints:     make([]JointRecord, 0, f.Len()),
	}
	for i := 0; i < NumLandmarks; i++ {
		if !f.present[i] {
			continue
		}
		j := f.joints[i]
		rec.Joints = append(rec.Joints, JointRecord{
			Name:       jointNames[i],
			X:          j.X,
			Y:          j.Y,
			Confidence: j.Confidence,
		})
	}
	return rec
}

// FrameFromRecord rebuilds a frame from its wire form. Unknown joint names are
// ignored and the confidence threshold is applied again, so records produced
// by external sources are held to the same rule as the local detector.
func FrameFromRecord(rec FrameRecord, minConfidence float64) HandFrame {
	f := HandFrame{DetectedAt: time.UnixMilli(rec.DetectedAt)}
	for _, jr := range rec.Joints {
		idx, ok := JointIndex(jr.Name)
		if !ok || jr.Confidence < minConfidence {
			continue
		}
		f.Set(idx, Joint{X: jr.X, Y: jr.Y, Confidence: jr.Confidence})
	}
	return f
}
