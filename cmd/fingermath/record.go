package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ayusman/fingermath/internal/app"
	"github.com/ayusman/fingermath/internal/store"
)

var (
	recordName     string
	recordDuration time.Duration
	recordDemo     string
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record camera landmarks for later replay",
		Args:  cobra.NoArgs,
		RunE:  runRecordCmd,
	}
	cmd.Flags().StringVar(&recordName, "name", "", "recording name (default: timestamp)")
	cmd.Flags().DurationVar(&recordDuration, "duration", defaultRecordingTime, "how long to record")
	cmd.Flags().StringVar(&recordDemo, "demo", "", "no camera; hold these counts in turn, e.g. 3,3,0,5")
	return cmd
}

func runRecordCmd(cmd *cobra.Command, _ []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}
	if recordDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	demoCounts, err := parseCounts(recordDemo)
	if err != nil {
		return err
	}
	if recordName == "" {
		recordName = time.Now().Format("2006-01-02 15:04:05")
	}

	st, err := store.New(opts.database)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	src, err := newLandmarkSource(opts, len(demoCounts) > 0)
	if err != nil {
		return err
	}
	source := store.SourceCamera
	if src.demo != nil {
		source = store.SourceDemo
	}

	rec, err := app.NewRecorder(st, recordName, source)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, recordDuration)
	defer cancel()

	// The game runs alongside so the player gets the usual sounds while
	// recording.
	loop := newLoop(opts, nil)
	go loop.Run(ctx)

	pipeline := app.New(app.Config{
		Sink:          loop,
		Camera:        src.camera,
		Detector:      src.detector,
		MinConfidence: opts.minConfidence,
		Recorder:      rec,
	})
	if err := pipeline.Start(); err != nil {
		return fmt.Errorf("failed to start camera: %w", err)
	}

	fmt.Printf("Recording %q for %s (ctrl+c to stop early)\n", recordName, recordDuration)
	if src.demo != nil {
		go holdCounts(ctx, src.demo.SetCount, demoCounts, opts.lockDuration+opts.feedbackDuration)
	}
	<-ctx.Done()
	pipeline.Stop()
	<-loop.Done()

	fmt.Printf("Recorded %d frames to %s\n", rec.Frames(), rec.ID())
	return nil
}

// holdCounts shows each count for hold, then removes the hand.
func holdCounts(ctx context.Context, set func(int), counts []int, hold time.Duration) {
	for _, n := range counts {
		set(n)
		select {
		case <-ctx.Done():
			return
		case <-time.After(hold):
		}
	}
	set(-1)
}

func parseCounts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	counts := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 5 {
			return nil, fmt.Errorf("--demo: %q is not a finger count (0-5)", part)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func newRecordingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recordings",
		Short: "List stored recordings",
		Args:  cobra.NoArgs,
		RunE:  runRecordingsCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteRecordingCmd,
	})
	return cmd
}

func runRecordingsCmd(cmd *cobra.Command, _ []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}
	st, err := store.New(opts.database)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer st.Close()

	recordings, err := st.Recordings().List()
	if err != nil {
		return fmt.Errorf("failed to list recordings: %w", err)
	}
	if len(recordings) == 0 {
		fmt.Println("No recordings yet. Create one with: fingermath record")
		return nil
	}
	fmt.Println(recordingsTable(recordings))
	return nil
}

func recordingsTable(recordings []*store.Recording) string {
	rows := make([][]string, 0, len(recordings))
	for _, r := range recordings {
		rows = append(rows, []string{
			r.ID,
			r.Name,
			string(r.Source),
			strconv.Itoa(r.Frames),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "SOURCE", "FRAMES", "CREATED").
		Rows(rows...).
		String()
}

func runDeleteRecordingCmd(cmd *cobra.Command, args []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}
	st, err := store.New(opts.database)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer st.Close()

	if err := st.Recordings().Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete recording %s: %w", args[0], err)
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
