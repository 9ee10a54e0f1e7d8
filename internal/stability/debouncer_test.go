package stability

import (
	"math"
	"testing"
	"time"
)

var epoch = time.Date(2025, 5, 25, 12, 0, 0, 0, time.UTC)

// feed ticks the same count every interval for the given duration (inclusive
// of both ends) and returns how many ticks reported Locked.
func feed(d *Debouncer, count int, start time.Time, dur time.Duration) (locks int, last Result) {
	for at := time.Duration(0); at <= dur; at += DefaultTickInterval {
		last = d.Tick(count, start.Add(at))
		if last.Locked {
			locks++
		}
	}
	return locks, last
}

func TestNew_DefaultsLockDuration(t *testing.T) {
	if got := New(0).LockDuration(); got != DefaultLockDuration {
		t.Errorf("LockDuration() = %v, want %v", got, DefaultLockDuration)
	}
	if got := New(500 * time.Millisecond).LockDuration(); got != 500*time.Millisecond {
		t.Errorf("LockDuration() = %v, want 500ms", got)
	}
}

func TestDebouncer_LocksExactlyOnce(t *testing.T) {
	d := New(DefaultLockDuration)

	locks, last := feed(d, 3, epoch, 5*time.Second)

	if locks != 1 {
		t.Fatalf("locks = %d, want 1", locks)
	}
	if last.Phase != PhaseLocked {
		t.Errorf("final phase = %s, want locked", last.Phase)
	}
	if last.Locked {
		t.Error("Locked should not be reported again after the first lock")
	}
	if !d.IsLocked() {
		t.Error("IsLocked() should be true")
	}
}

func TestDebouncer_LockTiming(t *testing.T) {
	d := New(DefaultLockDuration)

	r := d.Tick(2, epoch)
	if r.Phase != PhaseTrackingNew || r.Progress != 0 {
		t.Fatalf("first tick = %+v, want tracking with zero progress", r)
	}

	r = d.Tick(2, epoch.Add(time.Second))
	if r.Phase != PhaseAccumulating {
		t.Fatalf("phase = %s, want accumulating", r.Phase)
	}
	if math.Abs(r.Progress-0.5) > 1e-9 {
		t.Errorf("progress = %f, want 0.5", r.Progress)
	}

	r = d.Tick(2, epoch.Add(1999*time.Millisecond))
	if r.Locked {
		t.Fatal("should not lock before the lock duration")
	}

	r = d.Tick(2, epoch.Add(2*time.Second))
	if !r.Locked || r.Count != 2 || r.Progress != 1 {
		t.Errorf("tick at lock duration = %+v, want locked count 2", r)
	}
}

func TestDebouncer_ChangeResetsProgress(t *testing.T) {
	d := New(DefaultLockDuration)
	now := epoch

	counts := []int{1, 1, 1, 2, 2, 3, 3, 3, 4}
	for i, c := range counts {
		prev := d.State().LastCount
		r := d.Tick(c, now)
		if c != prev {
			if r.Progress != 0 || r.Phase != PhaseTrackingNew {
				t.Errorf("tick %d: change %d->%d gave %+v, want reset", i, prev, c, r)
			}
			if !d.State().StableSince.Equal(now) {
				t.Errorf("tick %d: StableSince = %v, want %v", i, d.State().StableSince, now)
			}
		}
		if r.Locked {
			t.Fatalf("tick %d: unexpected lock", i)
		}
		now = now.Add(DefaultTickInterval * 5)
	}
}

func TestDebouncer_ZeroNeverLocks(t *testing.T) {
	d := New(DefaultLockDuration)

	for at := time.Duration(0); at <= 10*time.Second; at += DefaultTickInterval {
		r := d.Tick(0, epoch.Add(at))
		if r.Progress != 0 {
			t.Fatalf("progress at %v = %f, want 0", at, r.Progress)
		}
		if r.Locked {
			t.Fatalf("zero locked at %v", at)
		}
	}
	if !d.State().StableSince.IsZero() {
		t.Error("StableSince should be cleared while holding zero")
	}
}

func TestDebouncer_DropToZeroCancelsLocking(t *testing.T) {
	d := New(DefaultLockDuration)

	d.Tick(4, epoch)
	d.Tick(4, epoch.Add(1500*time.Millisecond))

	r := d.Tick(0, epoch.Add(1600*time.Millisecond))
	if r.Progress != 0 {
		t.Errorf("progress after drop = %f, want 0", r.Progress)
	}
	r = d.Tick(0, epoch.Add(1700*time.Millisecond))
	if r.Phase != PhaseIdle || !d.State().StableSince.IsZero() {
		t.Errorf("holding zero = %+v, want idle with cleared start", r)
	}

	// Coming back to 4 starts over; the earlier 1.5s does not count.
	d.Tick(4, epoch.Add(1800*time.Millisecond))
	r = d.Tick(4, epoch.Add(3*time.Second))
	if r.Locked {
		t.Error("lock should require a fresh full hold")
	}
	r = d.Tick(4, epoch.Add(3800*time.Millisecond))
	if !r.Locked {
		t.Error("expected lock after a full hold")
	}
}

func TestDebouncer_ResetRearms(t *testing.T) {
	d := New(time.Second)

	locks, _ := feed(d, 5, epoch, 2*time.Second)
	if locks != 1 {
		t.Fatalf("locks = %d, want 1", locks)
	}

	d.Reset()
	if d.IsLocked() {
		t.Fatal("Reset should clear the lock")
	}
	if s := d.State(); s.LastCount != 0 || !s.StableSince.IsZero() || s.Progress != 0 {
		t.Errorf("state after Reset = %+v, want empty", s)
	}

	locks, _ = feed(d, 5, epoch.Add(time.Minute), 2*time.Second)
	if locks != 1 {
		t.Errorf("locks after Reset = %d, want 1", locks)
	}
}

func TestPhase_String(t *testing.T) {
	tests := map[Phase]string{
		PhaseIdle:         "idle",
		PhaseTrackingNew:  "tracking",
		PhaseAccumulating: "accumulating",
		PhaseLocked:       "locked",
		Phase(42):         "unknown",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}
