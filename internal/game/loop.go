package game

import (
	"context"
	"time"

	"github.com/ayusman/fingermath/internal/stability"
)

// DefaultStaleAfter is how long a sample stays current. Older samples read as
// no hand.
const DefaultStaleAfter = time.Second

// Sample is one classified frame handed to the loop.
type Sample struct {
	Count      int
	Valid      bool
	DetectedAt time.Time
}

// LoopConfig configures a Loop. Zero values take the defaults.
type LoopConfig struct {
	TickInterval time.Duration
	StaleAfter   time.Duration
	// Ticks replaces the wall-clock ticker when set.
	Ticks <-chan time.Time
	// Now stamps commands. Defaults to time.Now.
	Now func() time.Time
}

// Loop owns a Controller on a single goroutine. Samples, ticks and commands
// are all serialized through Run.
type Loop struct {
	ctrl    *Controller
	cfg     LoopConfig
	samples chan Sample
	cmds    chan func(now time.Time)
	done    chan struct{}
}

// NewLoop wraps ctrl. The controller must not be used directly once Run has
// started.
func NewLoop(ctrl *Controller, cfg LoopConfig) *Loop {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = stability.DefaultTickInterval
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Loop{
		ctrl:    ctrl,
		cfg:     cfg,
		samples: make(chan Sample, 1),
		cmds:    make(chan func(time.Time)),
		done:    make(chan struct{}),
	}
}

// Submit hands a sample to the loop without blocking. An unread sample is
// replaced; only the latest one matters.
func (l *Loop) Submit(s Sample) {
	for {
		select {
		case l.samples <- s:
			return
		default:
		}
		select {
		case <-l.samples:
		default:
		}
	}
}

// Run starts the game and processes input until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticks := l.cfg.Ticks
	if ticks == nil {
		ticker := time.NewTicker(l.cfg.TickInterval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	l.ctrl.Start(l.cfg.Now())

	var (
		latest Sample
		have   bool
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-l.samples:
			latest, have = s, true
		case cmd := <-l.cmds:
			cmd(l.cfg.Now())
		case now := <-ticks:
			// A sample submitted before this tick belongs to it.
			select {
			case s := <-l.samples:
				latest, have = s, true
			default:
			}
			count := 0
			if have && latest.Valid && now.Sub(latest.DetectedAt) <= l.cfg.StaleAfter {
				count = latest.Count
			}
			l.ctrl.Advance(now)
			l.ctrl.Observe(count, now)
		}
	}
}

// do runs fn on the loop goroutine and waits for it. It returns false if the
// loop has stopped.
func (l *Loop) do(fn func(now time.Time)) bool {
	finished := make(chan struct{})
	select {
	case l.cmds <- func(now time.Time) {
		fn(now)
		close(finished)
	}:
	case <-l.done:
		return false
	}
	<-finished
	return true
}

// Restart resets the game to round 0. It waits until the reset is applied.
func (l *Loop) Restart() {
	l.do(l.ctrl.Restart)
}

// Snapshot returns the controller's current view.
func (l *Loop) Snapshot() Snapshot {
	var s Snapshot
	l.do(func(time.Time) { s = l.ctrl.Snapshot() })
	return s
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
