// Package stability turns a noisy per-tick finger count into a single locked answer.
package stability

import "time"

// Timing defaults.
const (
	// DefaultLockDuration is how long a non-zero count must be held to lock.
	DefaultLockDuration = 2 * time.Second
	// DefaultTickInterval is the cadence the debouncer is designed to be ticked at.
	DefaultTickInterval = 100 * time.Millisecond
)

// Phase is the observable state of the debouncer.
type Phase int

const (
	// PhaseIdle means nothing is being tracked (count 0 or never seen).
	PhaseIdle Phase = iota
	// PhaseTrackingNew means the count just changed.
	PhaseTrackingNew
	// PhaseAccumulating means the same non-zero count is being held.
	PhaseAccumulating
	// PhaseLocked means the count was held long enough. Terminal until Reset.
	PhaseLocked
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTrackingNew:
		return "tracking"
	case PhaseAccumulating:
		return "accumulating"
	case PhaseLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// State is the debouncer's internal state. StableSince is zero when absent.
type State struct {
	LastCount   int
	StableSince time.Time
	Progress    float64
}

// Result is returned by every Tick.
type Result struct {
	Count    int
	Progress float64
	Phase    Phase
	// Locked is true only on the tick that crossed the lock duration.
	Locked bool
}

// Debouncer tracks how long the same finger count has been observed.
// It is not safe for concurrent use; the owner serializes ticks.
type Debouncer struct {
	lockDuration time.Duration
	state        State
	locked       bool
}

// New creates a Debouncer. A non-positive lockDuration uses DefaultLockDuration.
func New(lockDuration time.Duration) *Debouncer {
	if lockDuration <= 0 {
		lockDuration = DefaultLockDuration
	}
	return &Debouncer{lockDuration: lockDuration}
}

// LockDuration returns the configured hold time.
func (d *Debouncer) LockDuration() time.Duration {
	return d.lockDuration
}

// Tick feeds the count observed at now.
//
//  1. A count different from the last one restarts tracking at now, even when
//     moving to or from zero.
//  2. The same non-zero count with tracking started accumulates progress and
//     locks once the lock duration has elapsed. Locked is reported once.
//  3. Anything else (zero held, or no tracking start) clears progress.
//
// After a lock, ticks are ignored until Reset.
func (d *Debouncer) Tick(count int, now time.Time) Result {
	if d.locked {
		return Result{Count: d.state.LastCount, Progress: 1, Phase: PhaseLocked}
	}

	switch {
	case count != d.state.LastCount:
		d.state.LastCount = count
		d.state.StableSince = now
		d.state.Progress = 0
		return Result{Count: count, Phase: PhaseTrackingNew}

	case count > 0 && !d.state.StableSince.IsZero():
		elapsed := now.Sub(d.state.StableSince)
		d.state.Progress = min(1, float64(elapsed)/float64(d.lockDuration))
		if elapsed >= d.lockDuration {
			d.state.Progress = 1
			d.locked = true
			return Result{Count: count, Progress: 1, Phase: PhaseLocked, Locked: true}
		}
		return Result{Count: count, Progress: d.state.Progress, Phase: PhaseAccumulating}

	default:
		d.state.Progress = 0
		d.state.StableSince = time.Time{}
		return Result{Count: count, Phase: PhaseIdle}
	}
}

// Reset empties the state and re-arms locking.
func (d *Debouncer) Reset() {
	d.state = State{}
	d.locked = false
}

// State returns a copy of the current state.
func (d *Debouncer) State() State {
	return d.state
}

// IsLocked reports whether a lock has been emitted since the last Reset.
func (d *Debouncer) IsLocked() bool {
	return d.locked
}
