package app

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/fingermath/internal/detector"
	"github.com/ayusman/fingermath/internal/fingers"
	"github.com/ayusman/fingermath/internal/store"
)

// Recorder appends classified frames to a stored recording.
type Recorder struct {
	repo *store.RecordingRepository
	rec  *store.Recording
	mu   sync.Mutex
}

// NewRecorder creates a new recording and returns a Recorder writing to it.
func NewRecorder(st *store.Store, name string, source store.Source) (*Recorder, error) {
	rec := &store.Recording{
		ID:     uuid.New().String(),
		Name:   name,
		Source: source,
	}
	repo := st.Recordings()
	if err := repo.Create(rec); err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	return &Recorder{repo: repo, rec: rec}, nil
}

// ID returns the recording ID.
func (r *Recorder) ID() string {
	return r.rec.ID
}

// Frames returns how many frames were appended.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Frames
}

// Append stores one frame with its classification.
func (r *Recorder) Append(f detector.HandFrame, result fingers.Result) error {
	data, err := json.Marshal(f.Record())
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.repo.AppendFrame(&store.Frame{
		RecordingID: r.rec.ID,
		DetectedAt:  f.DetectedAt,
		Count:       result.Count,
		Valid:       result.Valid,
		Data:        data,
	})
	if err != nil {
		return err
	}
	r.rec.Frames++
	return nil
}
