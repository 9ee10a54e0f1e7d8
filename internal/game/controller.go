// Package game runs the ten-question finger math session: it asks a problem,
// waits for a locked finger count, grades it, shows feedback and moves on.
package game

import (
	"time"

	"github.com/ayusman/fingermath/internal/sound"
	"github.com/ayusman/fingermath/internal/stability"
)

// Session defaults.
const (
	DefaultRounds           = 10
	DefaultFeedbackDuration = 2 * time.Second
)

// Phase is the controller state.
type Phase string

const (
	PhaseAwaitingAnswer  Phase = "awaiting_answer"
	PhaseShowingFeedback Phase = "showing_feedback"
	PhaseComplete        Phase = "complete"
)

// Round is the question currently being played.
type Round struct {
	Index     int     `json:"index"`
	Problem   Problem `json:"problem"`
	Locked    bool    `json:"locked"`
	Submitted int     `json:"submitted"`
	// Correct is only meaningful once Locked is set.
	Correct bool `json:"correct"`
}

// Session is the running score.
type Session struct {
	Score      int  `json:"score"`
	RoundIndex int  `json:"roundIndex"`
	Complete   bool `json:"complete"`
}

// Publisher receives a snapshot after every observable change.
type Publisher interface {
	Publish(Snapshot)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Snapshot)

// Publish calls f.
func (f PublisherFunc) Publish(s Snapshot) { f(s) }

// Config configures a Controller. Zero values take the defaults.
type Config struct {
	Rounds           int
	LockDuration     time.Duration
	FeedbackDuration time.Duration
	Generator        *Generator
	Sound            sound.Player
	Publisher        Publisher
}

// lockEvent is a lock tagged with the round it was produced in.
type lockEvent struct {
	round int
	count int
}

// Controller is the round state machine. It is not safe for concurrent use;
// Loop serializes access when input comes from other goroutines.
type Controller struct {
	rounds           int
	feedbackDuration time.Duration
	gen              *Generator
	sound            sound.Player
	pub              Publisher
	debouncer        *stability.Debouncer

	phase         Phase
	session       Session
	round         Round
	feedbackUntil time.Time
	live          stability.Result

	last      Snapshot
	published bool
}

// NewController creates a controller. No problem is drawn until Start.
func NewController(cfg Config) *Controller {
	if cfg.Rounds <= 0 {
		cfg.Rounds = DefaultRounds
	}
	if cfg.FeedbackDuration <= 0 {
		cfg.FeedbackDuration = DefaultFeedbackDuration
	}
	if cfg.Generator == nil {
		cfg.Generator = NewGenerator(nil)
	}
	if cfg.Sound == nil {
		cfg.Sound = sound.Nop{}
	}

	return &Controller{
		rounds:           cfg.Rounds,
		feedbackDuration: cfg.FeedbackDuration,
		gen:              cfg.Generator,
		sound:            cfg.Sound,
		pub:              cfg.Publisher,
		debouncer:        stability.New(cfg.LockDuration),
	}
}

// Start begins a game: round 0, score 0, awaiting an answer.
func (c *Controller) Start(now time.Time) {
	c.reset()
	c.notify()
}

// Restart returns to round 0 with a zero score. It is valid in any phase,
// including before Start.
func (c *Controller) Restart(now time.Time) {
	c.Start(now)
}

func (c *Controller) reset() {
	c.session = Session{}
	c.feedbackUntil = time.Time{}
	c.beginRound(0)
}

func (c *Controller) beginRound(index int) {
	c.session.RoundIndex = index
	c.round = Round{Index: index, Problem: c.gen.Next()}
	c.debouncer.Reset()
	c.live = stability.Result{}
	c.phase = PhaseAwaitingAnswer
}

// Observe feeds the finger count classified at now. Outside AwaitingAnswer the
// count is ignored.
func (c *Controller) Observe(count int, now time.Time) {
	if c.phase != PhaseAwaitingAnswer {
		return
	}

	r := c.debouncer.Tick(count, now)
	c.live = r
	if r.Locked {
		c.submit(lockEvent{round: c.round.Index, count: r.Count}, now)
	}
	c.notify()
}

// submit grades a lock. Locks from another round or arriving outside
// AwaitingAnswer are dropped.
func (c *Controller) submit(ev lockEvent, now time.Time) {
	if c.phase != PhaseAwaitingAnswer || ev.round != c.round.Index || c.round.Locked {
		return
	}

	c.round.Locked = true
	c.round.Submitted = ev.count
	c.round.Correct = ev.count == c.round.Problem.Answer

	if c.round.Correct {
		c.session.Score++
		c.sound.Play(sound.CueCorrect)
	} else {
		c.sound.Play(sound.CueIncorrect)
	}

	c.phase = PhaseShowingFeedback
	c.feedbackUntil = now.Add(c.feedbackDuration)
}

// Advance moves past the feedback window once it has elapsed.
func (c *Controller) Advance(now time.Time) {
	if c.phase != PhaseShowingFeedback || now.Before(c.feedbackUntil) {
		return
	}

	if c.session.RoundIndex < c.rounds-1 {
		c.beginRound(c.session.RoundIndex + 1)
	} else {
		c.phase = PhaseComplete
		c.session.Complete = true
		c.live = stability.Result{}
	}
	c.notify()
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Session returns the score state.
func (c *Controller) Session() Session {
	return c.session
}

// Round returns the current round.
func (c *Controller) Round() Round {
	return c.round
}

// FeedbackUntil returns when the current feedback window closes, or the zero
// time outside ShowingFeedback.
func (c *Controller) FeedbackUntil() time.Time {
	if c.phase != PhaseShowingFeedback {
		return time.Time{}
	}
	return c.feedbackUntil
}

// Snapshot returns the presentation view of the controller.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Phase:       c.phase,
		Round:       c.session.RoundIndex,
		TotalRounds: c.rounds,
		Score:       c.session.Score,
		Complete:    c.session.Complete,
	}
	if c.phase == PhaseComplete {
		return s
	}

	s.Problem = c.round.Problem
	s.Question = c.round.Problem.Question()
	s.Fingers = c.live.Count
	s.Progress = c.live.Progress
	s.Stability = c.live.Phase.String()

	if c.phase == PhaseShowingFeedback {
		s.Fingers = c.round.Submitted
		s.Progress = 1
		s.HasFeedback = true
		s.Feedback = Feedback{
			Correct:   c.round.Correct,
			Submitted: c.round.Submitted,
			Expected:  c.round.Problem.Answer,
		}
	}
	return s
}

func (c *Controller) notify() {
	if c.pub == nil {
		return
	}
	s := c.Snapshot()
	if c.published && s == c.last {
		return
	}
	c.last = s
	c.published = true
	c.pub.Publish(s)
}
