// Package fingers counts extended fingers in a single hand frame.
package fingers

import "github.com/ayusman/fingermath/internal/detector"

// Orientation is the screen-space laterality guessed from the thumb and
// little finger tips. It is a heuristic, not handedness detection: an occluded
// little finger can flip it.
type Orientation int

const (
	// OrientationUnknown means the frame was not classified.
	OrientationUnknown Orientation = iota
	// OrientationRight means the thumb tip is right of the little finger tip.
	OrientationRight
	// OrientationLeft means the thumb tip is at or left of the little finger tip.
	OrientationLeft
)

func (o Orientation) String() string {
	switch o {
	case OrientationRight:
		return "right"
	case OrientationLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Digit indices into Result.Extended.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Little
)

// tips and bases list the joints compared for each digit, thumb first.
var (
	tips  = [5]int{detector.ThumbTip, detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.LittleTip}
	bases = [5]int{detector.ThumbMCP, detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.LittleMCP}
)

// Result is the classifier verdict for one frame.
type Result struct {
	Count       int
	Valid       bool
	Extended    [5]bool
	Orientation Orientation
}

// Classify counts extended fingers. Unless all five tips and all five bases
// are present the result is 0 and invalid; a missing hand and a closed fist
// therefore both read as zero.
func Classify(f detector.HandFrame) Result {
	var tip, base [5]detector.Joint
	for i := 0; i < 5; i++ {
		t, okTip := f.Joint(tips[i])
		b, okBase := f.Joint(bases[i])
		if !okTip || !okBase {
			return Result{}
		}
		tip[i], base[i] = t, b
	}

	r := Result{Valid: true}

	// Screen Y grows downward, so "up" is a smaller Y.
	for i := Index; i <= Little; i++ {
		r.Extended[i] = tip[i].Y < base[i].Y
	}

	// Thumb extension is lateral. Which side counts as "out" depends on which
	// way the hand faces the camera.
	if tip[Thumb].X > tip[Little].X {
		r.Orientation = OrientationRight
		r.Extended[Thumb] = tip[Thumb].X > base[Thumb].X
	} else {
		r.Orientation = OrientationLeft
		r.Extended[Thumb] = tip[Thumb].X < base[Thumb].X
	}

	for _, up := range r.Extended {
		if up {
			r.Count++
		}
	}
	return r
}

// Count returns the number of extended fingers (0-5) and whether the frame
// had enough confident joints to be classified.
func Count(f detector.HandFrame) (int, bool) {
	r := Classify(f)
	return r.Count, r.Valid
}
