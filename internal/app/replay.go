package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/fingermath/internal/detector"
	"github.com/ayusman/fingermath/internal/game"
	"github.com/ayusman/fingermath/internal/stability"
	"github.com/ayusman/fingermath/internal/store"
)

// ErrEmptyRecording is returned when a recording has no frames to play.
var ErrEmptyRecording = errors.New("recording has no frames")

// ReplaySource plays a stored recording in place of the camera. Time is
// synthetic: the game clock follows the recorded timestamps, so a replay gives
// the same result however fast it runs.
type ReplaySource struct {
	frames []detector.HandFrame

	// Interval is the game tick step. Defaults to the debouncer tick.
	Interval time.Duration
	// Tail keeps ticking after the last frame so a final hold can resolve.
	Tail time.Duration
	// Realtime sleeps one Interval per tick instead of running flat out.
	Realtime bool
}

// NewReplaySource plays frames in order. They must be sorted by DetectedAt.
func NewReplaySource(frames []detector.HandFrame) *ReplaySource {
	return &ReplaySource{
		frames:   frames,
		Interval: stability.DefaultTickInterval,
	}
}

// LoadReplay reads a recording from the store.
func LoadReplay(st *store.Store, recordingID string, minConfidence float64) (*ReplaySource, error) {
	stored, err := st.Recordings().Frames(recordingID)
	if err != nil {
		return nil, err
	}

	frames := make([]detector.HandFrame, 0, len(stored))
	for _, f := range stored {
		var rec detector.FrameRecord
		if err := json.Unmarshal(f.Data, &rec); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", f.Sequence, err)
		}
		frames = append(frames, detector.FrameFromRecord(rec, minConfidence))
	}
	return NewReplaySource(frames), nil
}

// Frames returns the frames that will be played.
func (s *ReplaySource) Frames() []detector.HandFrame {
	return s.frames
}

// Start returns the timestamp of the first frame.
func (s *ReplaySource) Start() time.Time {
	if len(s.frames) == 0 {
		return time.Time{}
	}
	return s.frames[0].DetectedAt
}

// Run steps the clock from the first frame to the last plus Tail. At each
// step every frame due by then goes to handle, then the step time is sent on
// ticks. clock, when set, is updated before each step.
func (s *ReplaySource) Run(ctx context.Context, handle func(detector.HandFrame), ticks chan<- time.Time, clock func(time.Time)) error {
	if len(s.frames) == 0 {
		return ErrEmptyRecording
	}
	interval := s.Interval
	if interval <= 0 {
		interval = stability.DefaultTickInterval
	}

	var pace <-chan time.Time
	if s.Realtime {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		pace = ticker.C
	}

	end := s.frames[len(s.frames)-1].DetectedAt.Add(s.Tail)
	next := 0
	for now := s.Start(); !now.After(end); now = now.Add(interval) {
		if clock != nil {
			clock(now)
		}
		for next < len(s.frames) && !s.frames[next].DetectedAt.After(now) {
			handle(s.frames[next])
			next++
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ticks <- now:
		}

		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		}
	}
	return nil
}

// Replay plays a whole game over src and returns the final snapshot. The
// loop's ticks and clock are driven by the replay; other LoopConfig fields are
// kept.
func Replay(ctx context.Context, src *ReplaySource, gameCfg game.Config, loopCfg game.LoopConfig) (game.Snapshot, error) {
	var (
		mu  sync.Mutex
		now = src.Start()
	)
	ticks := make(chan time.Time)
	loopCfg.Ticks = ticks
	loopCfg.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	if loopCfg.TickInterval <= 0 {
		loopCfg.TickInterval = src.Interval
	}

	loop := game.NewLoop(game.NewController(gameCfg), loopCfg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go loop.Run(ctx)

	a := New(Config{Sink: loop})
	err := src.Run(ctx, func(f detector.HandFrame) { a.HandleFrame(f) }, ticks, func(t time.Time) {
		mu.Lock()
		now = t
		mu.Unlock()
	})

	snap := loop.Snapshot()
	cancel()
	<-loop.Done()
	return snap, err
}
