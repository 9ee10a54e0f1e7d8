package app

import (
	"log"
	"time"

	"github.com/ayusman/fingermath/internal/capture"
	"github.com/ayusman/fingermath/internal/detector"
	"gocv.io/x/gocv"
)

// runPipeline reads the camera at its frame rate until stop is closed.
//
// Per frame:
//  1. Read and, if anyone is watching, publish a JPEG preview
//  2. Detect hands; only the first hand counts
//  3. Build a HandFrame and hand it to HandleFrame
//
// Detection failures and paused detection read as an empty frame so the game
// sees "no hand" instead of a frozen count.
func (a *App) runPipeline(stop <-chan struct{}) {
	fps := a.config.Camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			mat, err := a.config.Camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}
			a.processFrame(mat)
			mat.Close()
		}
	}
}

// processFrame runs one camera frame through preview, detection and the game.
func (a *App) processFrame(mat *gocv.Mat) detector.HandFrame {
	now := a.config.Now()

	if p := a.config.Previews; p != nil && p.Len() > 0 {
		if buf, err := gocv.IMEncode(".jpg", *mat); err == nil {
			jpeg := append([]byte(nil), buf.GetBytes()...)
			buf.Close()
			p.Publish(jpeg)
		} else {
			log.Printf("Error encoding preview: %v", err)
		}
	}

	frame := detector.EmptyFrame(now)
	if a.IsEnabled() {
		hands, err := a.config.Detector.Detect(mat)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
		} else if len(hands) > 0 {
			frame = detector.NewHandFrame(now, &hands[0], a.config.MinConfidence)
		}
	}

	a.HandleFrame(frame)
	return frame
}
