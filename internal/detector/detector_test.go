package detector

import (
	"errors"
	"math"
	"testing"
	"time"
)

const epsilon = 1e-9

func TestJointNames(t *testing.T) {
	t.Run("every index has a unique name", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < NumLandmarks; i++ {
			name := JointName(i)
			if name == "" {
				t.Fatalf("index %d has no name", i)
			}
			if seen[name] {
				t.Fatalf("duplicate joint name %q", name)
			}
			seen[name] = true

			idx, ok := JointIndex(name)
			if !ok || idx != i {
				t.Errorf("JointIndex(%q) = %d, %v; want %d, true", name, idx, ok, i)
			}
		}
	})

	t.Run("out of range index has no name", func(t *testing.T) {
		if JointName(-1) != "" || JointName(NumLandmarks) != "" {
			t.Error("expected empty name for out of range index")
		}
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		if _, ok := JointIndex("pinkyTip"); ok {
			t.Error("expected pinkyTip to be unknown")
		}
	})
}

func TestNewHandFrame(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("nil hand yields empty frame", func(t *testing.T) {
		f := NewHandFrame(now, nil, DefaultMinConfidence)
		if !f.Empty() {
			t.Errorf("expected empty frame, got %d joints", f.Len())
		}
		if !f.DetectedAt.Equal(now) {
			t.Errorf("DetectedAt = %v, want %v", f.DetectedAt, now)
		}
	})

	t.Run("confident joints are kept", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		f := NewHandFrame(now, &hand, DefaultMinConfidence)
		if f.Len() != NumLandmarks {
			t.Fatalf("Len() = %d, want %d", f.Len(), NumLandmarks)
		}
		j, ok := f.Joint(IndexTip)
		if !ok {
			t.Fatal("index tip missing")
		}
		if math.Abs(j.Y-hand.Points[IndexTip].Y) > epsilon {
			t.Errorf("index tip Y = %f, want %f", j.Y, hand.Points[IndexTip].Y)
		}
	})

	t.Run("joints below threshold are excluded", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		hand.Confidence[ThumbTip] = 0.59
		hand.Confidence[LittleMCP] = 0.1
		f := NewHandFrame(now, &hand, DefaultMinConfidence)

		if _, ok := f.Joint(ThumbTip); ok {
			t.Error("thumb tip should be excluded")
		}
		if _, ok := f.Joint(LittleMCP); ok {
			t.Error("little MCP should be excluded")
		}
		if f.Len() != NumLandmarks-2 {
			t.Errorf("Len() = %d, want %d", f.Len(), NumLandmarks-2)
		}
	})

	t.Run("joint exactly at threshold is kept", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		hand.Confidence[Wrist] = DefaultMinConfidence
		f := NewHandFrame(now, &hand, DefaultMinConfidence)
		if _, ok := f.Joint(Wrist); !ok {
			t.Error("wrist at threshold should be kept")
		}
	})
}

func TestFrameRecord(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)

	t.Run("record keeps only present joints with names", func(t *testing.T) {
		var f HandFrame
		f.DetectedAt = now
		f.Set(Wrist, Joint{X: 0.5, Y: 0.8, Confidence: 0.9})
		f.Set(IndexTip, Joint{X: 0.55, Y: 0.3, Confidence: 0.7})

		rec := f.Record()
		if rec.DetectedAt != now.UnixMilli() {
			t.Errorf("DetectedAt = %d, want %d", rec.DetectedAt, now.UnixMilli())
		}
		if len(rec.Joints) != 2 {
			t.Fatalf("expected 2 joints, got %d", len(rec.Joints))
		}
		if rec.Joints[0].Name != "wrist" || rec.Joints[1].Name != "indexTip" {
			t.Errorf("unexpected joint names %q, %q", rec.Joints[0].Name, rec.Joints[1].Name)
		}
	})

	t.Run("decoding reapplies threshold and skips unknown names", func(t *testing.T) {
		rec := FrameRecord{
			DetectedAt: now.UnixMilli(),
			Joints: []JointRecord{
				{Name: "wrist", X: 0.5, Y: 0.8, Confidence: 0.9},
				{Name: "thumbTip", X: 0.7, Y: 0.6, Confidence: 0.5},
				{Name: "sixthFinger", X: 0.1, Y: 0.1, Confidence: 1},
			},
		}
		f := FrameFromRecord(rec, DefaultMinConfidence)
		if f.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", f.Len())
		}
		if _, ok := f.Joint(Wrist); !ok {
			t.Error("wrist should be present")
		}
		if !f.DetectedAt.Equal(now) {
			t.Errorf("DetectedAt = %v, want %v", f.DetectedAt, now)
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{FistLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("SetCount out of range clears hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetCount(3)
		hands, _ := mock.Detect(nil)
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}

		mock.SetCount(-1)
		hands, _ = mock.Detect(nil)
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestPoseLandmarks(t *testing.T) {
	t.Run("extended fingers have tips above bases", func(t *testing.T) {
		lm := OpenPalmLandmarks()
		for _, base := range []int{IndexMCP, MiddleMCP, RingMCP, LittleMCP} {
			if lm.Points[base+3].Y >= lm.Points[base].Y {
				t.Errorf("%s should be above %s", JointName(base+3), JointName(base))
			}
		}
	})

	t.Run("folded fingers have tips below bases", func(t *testing.T) {
		lm := FistLandmarks()
		for _, base := range []int{IndexMCP, MiddleMCP, RingMCP, LittleMCP} {
			if lm.Points[base+3].Y <= lm.Points[base].Y {
				t.Errorf("%s should be below %s", JointName(base+3), JointName(base))
			}
		}
	})

	t.Run("left facing hand mirrors the thumb", func(t *testing.T) {
		right := PoseLandmarks([5]bool{true}, true)
		left := PoseLandmarks([5]bool{true}, false)

		if right.Points[ThumbTip].X <= right.Points[LittleTip].X {
			t.Error("right facing thumb should be right of little finger")
		}
		if left.Points[ThumbTip].X >= left.Points[LittleTip].X {
			t.Error("left facing thumb should be left of little finger")
		}
		if math.Abs(left.Points[ThumbTip].X-(1-right.Points[ThumbTip].X)) > epsilon {
			t.Error("left facing hand should be the mirror image")
		}
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("per point confidence is used when present", func(t *testing.T) {
		line := []byte(`{"hands":[{"handedness":"Right","score":0.8,"points":[{"x":0.1,"y":0.2,"z":0,"confidence":0.4},{"x":0.3,"y":0.4,"z":0}]}]}` + "\n")
		hands, err := parseResponse(line)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		h := hands[0]
		if h.Confidence[0] != 0.4 {
			t.Errorf("joint 0 confidence = %f, want 0.4", h.Confidence[0])
		}
		if h.Confidence[1] != 0.8 {
			t.Errorf("joint 1 confidence = %f, want hand score 0.8", h.Confidence[1])
		}
		if h.Confidence[2] != 0 {
			t.Errorf("unreported joint confidence = %f, want 0", h.Confidence[2])
		}
	})

	t.Run("malformed line is an error", func(t *testing.T) {
		if _, err := parseResponse([]byte("not json")); err == nil {
			t.Error("expected error for malformed response")
		}
	})
}
