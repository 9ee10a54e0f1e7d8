// Package app wires the landmark sources to the game: frames from the camera,
// from HTTP clients or from a stored recording are classified and handed to
// the game loop.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/fingermath/internal/capture"
	"github.com/ayusman/fingermath/internal/detector"
	"github.com/ayusman/fingermath/internal/fingers"
	"github.com/ayusman/fingermath/internal/game"
	"github.com/ayusman/fingermath/internal/realtime"
)

// Sink receives one sample per classified frame. *game.Loop implements it.
type Sink interface {
	Submit(game.Sample)
}

// Config holds the collaborators of an App. Only Sink is required.
type Config struct {
	Sink          Sink
	Camera        capture.Camera
	Detector      detector.Detector
	MinConfidence float64

	// Frames receives every classified frame for overlays.
	Frames *realtime.Broadcaster[detector.FrameRecord]
	// Previews receives JPEG encoded camera frames while anyone listens.
	Previews *realtime.Broadcaster[[]byte]
	// Recorder, when set, stores every frame.
	Recorder *Recorder

	// Now stamps camera frames. Defaults to time.Now.
	Now func() time.Time
}

// App funnels landmark frames into the game.
type App struct {
	config  Config
	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a new App with the given configuration.
func New(config Config) *App {
	if config.MinConfidence <= 0 {
		config.MinConfidence = detector.DefaultMinConfidence
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &App{
		config:  config,
		enabled: true,
	}
}

// SetEnabled pauses or resumes the camera pipeline. While paused the game
// sees no hand.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether the camera pipeline is running detection.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// MinConfidence returns the joint inclusion threshold.
func (a *App) MinConfidence() float64 {
	return a.config.MinConfidence
}

// HandleFrame classifies f, submits the count and fans the frame out.
func (a *App) HandleFrame(f detector.HandFrame) fingers.Result {
	result := fingers.Classify(f)

	a.config.Sink.Submit(game.Sample{
		Count:      result.Count,
		Valid:      result.Valid,
		DetectedAt: f.DetectedAt,
	})

	if a.config.Frames != nil {
		a.config.Frames.Publish(f.Record())
	}

	if a.config.Recorder != nil {
		if err := a.config.Recorder.Append(f, result); err != nil {
			log.Printf("Failed to record frame: %v", err)
		}
	}

	return result
}

// HandleRecord decodes a frame posted by an external landmark source.
func (a *App) HandleRecord(rec detector.FrameRecord) fingers.Result {
	return a.HandleFrame(detector.FrameFromRecord(rec, a.config.MinConfidence))
}

// Start opens the camera and begins the capture pipeline. It needs Camera and
// Detector.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}
	if a.config.Camera == nil || a.config.Detector == nil {
		return capture.ErrCameraNotOpen
	}

	if err := a.config.Camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer a.wg.Done()
		a.runPipeline(stop)
	}(a.stopCh)

	log.Println("Capture pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	a.mu.Unlock()

	a.wg.Wait()

	if err := a.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.config.Detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}

	log.Println("Capture pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.config.Camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.config.Detector
}
