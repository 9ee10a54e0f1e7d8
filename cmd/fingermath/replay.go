package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingermath/internal/app"
	"github.com/ayusman/fingermath/internal/game"
	"github.com/ayusman/fingermath/internal/store"
)

var replayRealtime bool

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <id>",
		Short: "Play a game headless over a stored recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
	cmd.Flags().BoolVar(&replayRealtime, "realtime", false, "replay at the recorded pace")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}
	st, err := store.New(opts.database)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer st.Close()

	src, err := app.LoadReplay(st, args[0], opts.minConfidence)
	if err != nil {
		return fmt.Errorf("failed to load recording %s: %w", args[0], err)
	}
	src.Interval = opts.tickInterval
	src.Realtime = replayRealtime
	// Give a hold at the very end of the recording time to lock and grade.
	src.Tail = opts.lockDuration + opts.feedbackDuration

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Replaying %d frames from %s\n", len(src.Frames()), args[0])
	snap, err := app.Replay(ctx, src, gameConfig(opts, newSoundPlayer(opts), &eventPrinter{}), loopConfig(opts))
	if err != nil {
		return err
	}
	if !snap.Complete {
		fmt.Printf("Recording ended at question %s with score %s\n", snap.RoundLabel(), snap.ScoreLabel())
	}
	return nil
}

// eventPrinter prints round results as a replay progresses.
type eventPrinter struct {
	lastPhase game.Phase
	lastRound int
}

func (p *eventPrinter) Publish(s game.Snapshot) {
	if s.Phase == p.lastPhase && s.Round == p.lastRound {
		return
	}
	p.lastPhase, p.lastRound = s.Phase, s.Round
	switch {
	case s.Complete:
		fmt.Printf("Game over: %s\n", s.ScoreLabel())
	case s.HasFeedback:
		fmt.Printf("Question %s: %s answered %d, %s\n", s.RoundLabel(), s.Question, s.Feedback.Submitted, s.Feedback.Message())
	}
}
