package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Source says where the frames of a recording came from.
type Source string

const (
	// SourceCamera is a local webcam run through the detector.
	SourceCamera Source = "camera"
	// SourceAPI is frames posted by an external landmark source.
	SourceAPI Source = "api"
	// SourceDemo is the keyboard-driven mock detector.
	SourceDemo Source = "demo"
)

// Recording is a named sequence of landmark frames.
type Recording struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    Source    `json:"source"`
	Frames    int       `json:"frames"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Frame is one stored landmark frame with the count it was classified as.
type Frame struct {
	ID          int64           `json:"id"`
	RecordingID string          `json:"recording_id"`
	Sequence    int             `json:"sequence"`
	DetectedAt  time.Time       `json:"detected_at"`
	Count       int             `json:"count"`
	Valid       bool            `json:"valid"`
	Data        json.RawMessage `json:"data"`
}

// RecordingRepository provides CRUD operations for recordings and their frames.
type RecordingRepository struct {
	db *sql.DB
}

// Recordings returns the recording repository for this store.
func (s *Store) Recordings() *RecordingRepository {
	return &RecordingRepository{db: s.db}
}

// Create inserts a new, empty recording.
func (r *RecordingRepository) Create(rec *Recording) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Frames = 0

	_, err := r.db.Exec(
		`INSERT INTO recordings (id, name, source, frames, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, string(rec.Source), rec.Frames, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}

	return nil
}

// GetByID retrieves a recording by its ID.
func (r *RecordingRepository) GetByID(id string) (*Recording, error) {
	rec := &Recording{}
	var source string

	err := r.db.QueryRow(
		`SELECT id, name, source, frames, created_at, updated_at
		 FROM recordings WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Name, &source, &rec.Frames, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec.Source = Source(source)
	return rec, nil
}

// List retrieves all recordings, newest first.
func (r *RecordingRepository) List() ([]*Recording, error) {
	rows, err := r.db.Query(
		`SELECT id, name, source, frames, created_at, updated_at
		 FROM recordings ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []*Recording
	for rows.Next() {
		rec := &Recording{}
		var source string

		if err := rows.Scan(&rec.ID, &rec.Name, &source, &rec.Frames, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}

		rec.Source = Source(source)
		recordings = append(recordings, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recordings, nil
}

// Delete removes a recording and its frames.
func (r *RecordingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendFrame stores f as the next frame of its recording and fills in its
// ID and Sequence.
func (r *RecordingRepository) AppendFrame(f *Frame) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var frames int
	err = tx.QueryRow(`SELECT frames FROM recordings WHERE id = ?`, f.RecordingID).Scan(&frames)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	f.Sequence = frames
	result, err := tx.Exec(
		`INSERT INTO recording_frames (recording_id, sequence, detected_at_ms, finger_count, valid, data)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.RecordingID, f.Sequence, f.DetectedAt.UnixMilli(), f.Count, f.Valid, string(f.Data),
	)
	if err != nil {
		return fmt.Errorf("insert frame: %w", err)
	}
	if f.ID, err = result.LastInsertId(); err != nil {
		return err
	}

	_, err = tx.Exec(`UPDATE recordings SET frames = ?, updated_at = ? WHERE id = ?`,
		frames+1, time.Now(), f.RecordingID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Frames retrieves the frames of a recording in capture order.
func (r *RecordingRepository) Frames(recordingID string) ([]Frame, error) {
	if _, err := r.GetByID(recordingID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT id, recording_id, sequence, detected_at_ms, finger_count, valid, data
		 FROM recording_frames
		 WHERE recording_id = ?
		 ORDER BY sequence`,
		recordingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var f Frame
		var detectedAt int64
		var data string
		if err := rows.Scan(&f.ID, &f.RecordingID, &f.Sequence, &detectedAt, &f.Count, &f.Valid, &data); err != nil {
			return nil, err
		}
		f.DetectedAt = time.UnixMilli(detectedAt)
		f.Data = json.RawMessage(data)
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}
