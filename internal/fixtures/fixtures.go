// Package fixtures holds recorded landmark frames with their known finger
// counts, for tests that need realistic detector output.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayusman/fingermath/internal/detector"
)

//go:embed testdata/*.json
var framesFS embed.FS

// Case is a fixture with the verdict the classifier must reach.
type Case struct {
	Name  string
	Count int
	Valid bool
}

// Cases lists every fixture.
var Cases = []Case{
	{Name: "fist", Count: 0, Valid: true},
	{Name: "two_right", Count: 2, Valid: true},
	{Name: "three_left", Count: 3, Valid: true},
	{Name: "open_palm", Count: 5, Valid: true},
	{Name: "peace", Count: 2, Valid: true},
	{Name: "low_confidence_tip", Count: 0, Valid: false},
	{Name: "missing_little_tip", Count: 0, Valid: false},
	{Name: "no_hand", Count: 0, Valid: false},
}

// LoadRecord loads a fixture by name.
func LoadRecord(name string) (detector.FrameRecord, error) {
	data, err := framesFS.ReadFile("testdata/" + name + ".json")
	if err != nil {
		return detector.FrameRecord{}, fmt.Errorf("load fixture %s: %w", name, err)
	}

	var rec detector.FrameRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return detector.FrameRecord{}, fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return rec, nil
}

// Hold returns the fixture stamped every step from start through start+d, as
// a landmark source holding the same pose would report it.
func Hold(name string, start time.Time, d, step time.Duration) ([]detector.FrameRecord, error) {
	rec, err := LoadRecord(name)
	if err != nil {
		return nil, err
	}

	var frames []detector.FrameRecord
	for at := start; !at.After(start.Add(d)); at = at.Add(step) {
		r := rec
		r.DetectedAt = at.UnixMilli()
		frames = append(frames, r)
	}
	return frames, nil
}
