package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingermath/internal/app"
	"github.com/ayusman/fingermath/internal/detector"
	"github.com/ayusman/fingermath/internal/game"
	"github.com/ayusman/fingermath/internal/realtime"
	"github.com/ayusman/fingermath/internal/server"
	"github.com/ayusman/fingermath/internal/store"
	"github.com/ayusman/fingermath/internal/tray"
)

var (
	serveTray     bool
	serveNoCamera bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.staticDir, "static-dir", "", "serve this directory instead of the built-in page")
	cmd.Flags().BoolVar(&serveTray, "tray", false, "show a system tray menu")
	cmd.Flags().BoolVar(&serveNoCamera, "no-camera", false, "accept landmarks only through POST /api/frames")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}
	if opts.staticDir == "" {
		opts.staticDir = findWebDir()
	}
	if opts.staticDir != "" {
		log.Printf("Serving static files from: %s", opts.staticDir)
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

	snapshots := realtime.NewBroadcaster[game.Snapshot]()
	frames := realtime.NewBroadcaster[detector.FrameRecord]()
	loop := newLoop(opts, game.PublisherFunc(snapshots.Publish))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go loop.Run(ctx)

	appCfg := app.Config{
		Sink:          loop,
		MinConfidence: opts.minConfidence,
		Frames:        frames,
	}
	srvCfg := server.Config{
		Game:      loop,
		Snapshots: snapshots,
		Frames:    frames,
		Store:     st,
		StaticDir: opts.staticDir,
	}

	if !serveNoCamera {
		src, err := newLandmarkSource(opts, false)
		if err != nil {
			return err
		}
		previews := realtime.NewBroadcaster[[]byte]()
		appCfg.Camera = src.camera
		appCfg.Detector = src.detector
		appCfg.Previews = previews
		srvCfg.Previews = previews
	}

	pipeline := app.New(appCfg)
	srvCfg.Ingest = pipeline
	if !serveNoCamera {
		if err := pipeline.Start(); err != nil {
			return fmt.Errorf("failed to start camera: %w", err)
		}
		defer pipeline.Stop()
	}

	srv := server.New(srvCfg)
	log.Printf("Starting server on %s", opts.addr)

	if !serveTray {
		return srv.ListenAndServe(ctx, opts.addr)
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(ctx, opts.addr) }()
	runTray(ctx, stop, loop, pipeline, snapshots)
	stop()
	return <-errc
}

// runTray blocks on the tray menu until Quit is clicked or ctx ends.
func runTray(ctx context.Context, quit context.CancelFunc, loop *game.Loop, pipeline *app.App, snapshots *realtime.Broadcaster[game.Snapshot]) {
	tr := tray.New()
	tr.Update(loop.Snapshot())
	tr.OnRestart(loop.Restart)
	tr.OnToggle(pipeline.SetEnabled)
	tr.OnOpen(func() {
		if err := openBrowser(browserURL(opts.addr)); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	tr.OnQuit(quit)

	updates := snapshots.Subscribe()
	go tr.Follow(updates)
	go func() {
		<-ctx.Done()
		snapshots.Unsubscribe(updates)
		tr.Quit()
	}()

	tr.Run()
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	return exec.Command(name, url).Start()
}

// findWebDir searches for a web directory overriding the embedded page.
// It checks: "web", "../web", "../../web", and ~/.fingermath/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".fingermath", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
