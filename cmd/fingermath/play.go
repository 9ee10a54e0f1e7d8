package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ayusman/fingermath/internal/app"
	"github.com/ayusman/fingermath/internal/config"
	"github.com/ayusman/fingermath/internal/game"
	"github.com/ayusman/fingermath/internal/realtime"
	"github.com/ayusman/fingermath/internal/tui"
)

var playDemo bool

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&playDemo, "demo", false, "no camera; keys 0-5 hold up fingers")
}

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal (default)",
		Args:  cobra.NoArgs,
		RunE:  runPlayCmd,
	}
	addPlayFlags(cmd)
	return cmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}

	// The terminal belongs to the UI; log lines go to a file instead.
	logPath := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := tea.LogToFile(logPath, "fingermath")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	src, err := newLandmarkSource(opts, playDemo)
	if err != nil {
		return err
	}

	snapshots := realtime.NewBroadcaster[game.Snapshot]()
	updates := snapshots.Subscribe()
	loop := newLoop(opts, game.PublisherFunc(snapshots.Publish))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go loop.Run(ctx)

	pipeline := app.New(app.Config{
		Sink:          loop,
		Camera:        src.camera,
		Detector:      src.detector,
		MinConfidence: opts.minConfidence,
	})
	if err := pipeline.Start(); err != nil {
		return fmt.Errorf("failed to start camera: %w", err)
	}
	defer pipeline.Stop()

	cfg := tui.Config{Game: loop, Updates: updates}
	if src.demo != nil {
		cfg.Demo = src.demo
	}
	program := tea.NewProgram(tui.NewModel(cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	cancel()
	<-loop.Done()
	snapshots.Close()
	return nil
}
