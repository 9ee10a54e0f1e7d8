package main

import (
	"fmt"
	"log"

	"github.com/ayusman/fingermath/internal/capture"
	"github.com/ayusman/fingermath/internal/config"
	"github.com/ayusman/fingermath/internal/detector"
	"github.com/ayusman/fingermath/internal/game"
	"github.com/ayusman/fingermath/internal/sound"
)

// landmarkSource is a camera with the detector reading it. demo is set when
// the detector is a MockDetector driven from the keyboard.
type landmarkSource struct {
	camera   capture.Camera
	detector detector.Detector
	demo     *detector.MockDetector
}

func newLandmarkSource(s settings, demo bool) (landmarkSource, error) {
	if demo {
		mock := detector.NewMockDetector()
		mock.SetCount(-1)
		cam := capture.NewBlankCamera(s.cameraWidth, s.cameraHeight)
		cam.SetFPS(s.cameraFPS)
		return landmarkSource{camera: cam, detector: mock, demo: mock}, nil
	}

	det, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        1,
		MinConfidence:   s.minConfidence,
		MinTrackingConf: defaultTrackingConf,
		Script:          s.script,
	})
	if err != nil {
		return landmarkSource{}, fmt.Errorf("failed to create hand detector: %w", err)
	}
	cam := capture.NewCamera(capture.Config{
		DeviceID: s.cameraID,
		FPS:      s.cameraFPS,
		Width:    s.cameraWidth,
		Height:   s.cameraHeight,
		Mirror:   s.cameraMirror,
	})
	return landmarkSource{camera: cam, detector: det}, nil
}

func newSoundPlayer(s settings) sound.Player {
	if s.soundDisabled {
		return sound.Nop{}
	}
	dir := s.soundDir
	if dir == "" {
		dir = sound.FindDir()
	}
	if dir == "" {
		dir = config.DefaultSoundDir()
	}
	log.Printf("Sound cues from %s", dir)
	return sound.NewCommandPlayer(sound.Config{
		Dir:     dir,
		Command: s.soundCommand,
		Timeout: s.soundTimeout,
	})
}

func gameConfig(s settings, player sound.Player, pub game.Publisher) game.Config {
	return game.Config{
		Rounds:           s.rounds,
		LockDuration:     s.lockDuration,
		FeedbackDuration: s.feedbackDuration,
		Sound:            player,
		Publisher:        pub,
	}
}

func loopConfig(s settings) game.LoopConfig {
	return game.LoopConfig{
		TickInterval: s.tickInterval,
		StaleAfter:   s.staleAfter,
	}
}

func newLoop(s settings, pub game.Publisher) *game.Loop {
	ctrl := game.NewController(gameConfig(s, newSoundPlayer(s), pub))
	return game.NewLoop(ctrl, loopConfig(s))
}
