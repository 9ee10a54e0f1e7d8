package fixtures

import (
	"testing"
	"time"

	"github.com/ayusman/fingermath/internal/detector"
	"github.com/ayusman/fingermath/internal/fingers"
)

func TestCasesClassify(t *testing.T) {
	for _, tc := range Cases {
		t.Run(tc.Name, func(t *testing.T) {
			rec, err := LoadRecord(tc.Name)
			if err != nil {
				t.Fatalf("LoadRecord() error = %v", err)
			}

			count, valid := fingers.Count(detector.FrameFromRecord(rec, detector.DefaultMinConfidence))
			if count != tc.Count || valid != tc.Valid {
				t.Errorf("Count() = (%d, %v), want (%d, %v)", count, valid, tc.Count, tc.Valid)
			}
		})
	}
}

func TestLoadRecord_Missing(t *testing.T) {
	if _, err := LoadRecord("six_fingers"); err == nil {
		t.Error("expected error for unknown fixture")
	}
}

func TestHold(t *testing.T) {
	start := time.UnixMilli(1_000)
	frames, err := Hold("two_right", start, time.Second, 100*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 11 {
		t.Fatalf("len(frames) = %d, want 11", len(frames))
	}
	if frames[0].DetectedAt != 1_000 || frames[10].DetectedAt != 2_000 {
		t.Errorf("timestamps = %d..%d", frames[0].DetectedAt, frames[10].DetectedAt)
	}
}
