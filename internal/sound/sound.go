// Package sound plays the short feedback cues of the game.
package sound

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/go-audio/wav"
)

// Cue names a feedback sound.
type Cue string

const (
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
)

// Errors returned while preparing playback. Play itself only logs them.
var (
	ErrAssetNotFound = errors.New("sound asset not found")
	ErrInvalidAsset  = errors.New("sound asset is not a valid WAV file")
	ErrNoCommand     = errors.New("no playback command configured")
)

// Player plays cues. Implementations must not block the caller and must never
// fail the game: problems are logged.
type Player interface {
	Play(cue Cue)
}

// Nop discards every cue.
type Nop struct{}

// Play does nothing.
func (Nop) Play(Cue) {}

// playbackSlack is added to an asset's length when no timeout is configured.
const playbackSlack = time.Second

// Config holds playback settings.
type Config struct {
	// Dir contains <cue>.wav files.
	Dir string
	// Command is an external player invoked as `Command <file>`.
	Command string
	// Timeout bounds one playback. Zero derives it from the asset length.
	Timeout time.Duration
}

// DefaultCommand returns the stock command-line player for the platform.
func DefaultCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "afplay"
	case "linux":
		return "aplay"
	default:
		return ""
	}
}

// CommandPlayer plays WAV assets by running an external command.
type CommandPlayer struct {
	config Config
	wg     sync.WaitGroup
}

// NewCommandPlayer creates a CommandPlayer. An empty Command uses DefaultCommand.
func NewCommandPlayer(config Config) *CommandPlayer {
	if config.Command == "" {
		config.Command = DefaultCommand()
	}
	return &CommandPlayer{config: config}
}

// Play starts playback in the background and returns immediately.
func (p *CommandPlayer) Play(cue Cue) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.play(cue); err != nil {
			log.Printf("Failed to play sound %s: %v", cue, err)
		}
	}()
}

// Wait blocks until every started playback has finished.
func (p *CommandPlayer) Wait() {
	p.wg.Wait()
}

// AssetPath returns the file played for a cue.
func (p *CommandPlayer) AssetPath(cue Cue) string {
	return filepath.Join(p.config.Dir, string(cue)+".wav")
}

func (p *CommandPlayer) play(cue Cue) error {
	if p.config.Command == "" {
		return ErrNoCommand
	}

	path := p.AssetPath(cue)
	length, err := inspect(path)
	if err != nil {
		return err
	}

	timeout := p.config.Timeout
	if timeout <= 0 {
		timeout = length + playbackSlack
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.config.Command, path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("playback timeout after %s", timeout)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("playback failed: %w, stderr: %s", err, s)
		}
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// inspect checks that path is a readable WAV file and returns its length.
func inspect(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		}
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAsset, path)
	}
	length, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("read duration of %s: %w", path, err)
	}
	return length, nil
}

// FindDir searches common locations for a directory holding the cue assets.
// Returns "" when none exists.
func FindDir() string {
	candidates := []string{"sounds", "../sounds", "../../sounds"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".fingermath", "sounds"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
