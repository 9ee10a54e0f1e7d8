// Package main provides the CLI entrypoint for fingermath.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingermath/internal/capture"
	"github.com/ayusman/fingermath/internal/config"
	"github.com/ayusman/fingermath/internal/detector"
	"github.com/ayusman/fingermath/internal/game"
	"github.com/ayusman/fingermath/internal/sound"
	"github.com/ayusman/fingermath/internal/stability"
)

const (
	defaultAddr          = ":8080"
	defaultSoundTimeout  = 5 * time.Second
	defaultTrackingConf  = 0.5
	defaultRecordingTime = 30 * time.Second
)

// settings is the merged result of flags and the config file.
type settings struct {
	configPath string

	rounds           int
	lockDuration     time.Duration
	feedbackDuration time.Duration
	tickInterval     time.Duration
	staleAfter       time.Duration

	cameraID     int
	cameraFPS    int
	cameraWidth  int
	cameraHeight int
	cameraMirror bool

	minConfidence float64
	script        string

	soundDir      string
	soundCommand  string
	soundDisabled bool
	soundTimeout  time.Duration

	addr      string
	staticDir string
	database  string
}

var opts settings

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fingermath",
		Short:         "Answer arithmetic questions by holding up fingers",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "config file path")

	pf.IntVar(&opts.rounds, "rounds", game.DefaultRounds, "questions per game")
	pf.DurationVar(&opts.lockDuration, "lock-duration", stability.DefaultLockDuration, "how long a count must be held to lock")
	pf.DurationVar(&opts.feedbackDuration, "feedback-duration", game.DefaultFeedbackDuration, "how long feedback stays on screen")
	pf.DurationVar(&opts.tickInterval, "tick-interval", stability.DefaultTickInterval, "game loop tick")
	pf.DurationVar(&opts.staleAfter, "stale-after", game.DefaultStaleAfter, "age after which a frame reads as no hand")

	pf.IntVar(&opts.cameraID, "camera", 0, "camera device id")
	pf.IntVar(&opts.cameraFPS, "fps", capture.DefaultFPS, "camera frames per second")
	pf.IntVar(&opts.cameraWidth, "width", capture.DefaultWidth, "camera frame width")
	pf.IntVar(&opts.cameraHeight, "height", capture.DefaultHeight, "camera frame height")
	pf.BoolVar(&opts.cameraMirror, "mirror", true, "mirror the camera image")

	pf.Float64Var(&opts.minConfidence, "min-confidence", detector.DefaultMinConfidence, "joint confidence threshold (0-1)")
	pf.StringVar(&opts.script, "detector-script", "", "path to mediapipe_service.py")

	pf.StringVar(&opts.soundDir, "sound-dir", "", "directory holding correct.wav and incorrect.wav")
	pf.StringVar(&opts.soundCommand, "sound-command", "", "audio player command")
	pf.BoolVar(&opts.soundDisabled, "mute", false, "disable feedback sounds")
	pf.DurationVar(&opts.soundTimeout, "sound-timeout", defaultSoundTimeout, "maximum playback time per cue")

	pf.StringVar(&opts.database, "db", config.DefaultDBPath(), "recordings database path")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newRecordingsCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadSettings applies the config file to every flag the user did not set.
func loadSettings(cmd *cobra.Command) error {
	fileCfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyIntConfig(cmd, "rounds", &opts.rounds, fileCfg.Game.Rounds)
	applyDurationConfig(cmd, "lock-duration", &opts.lockDuration, fileCfg.Game.LockDuration)
	applyDurationConfig(cmd, "feedback-duration", &opts.feedbackDuration, fileCfg.Game.FeedbackDuration)
	applyDurationConfig(cmd, "tick-interval", &opts.tickInterval, fileCfg.Game.TickInterval)
	applyDurationConfig(cmd, "stale-after", &opts.staleAfter, fileCfg.Game.StaleAfter)

	applyIntConfig(cmd, "camera", &opts.cameraID, fileCfg.Camera.ID)
	applyIntConfig(cmd, "fps", &opts.cameraFPS, fileCfg.Camera.FPS)
	applyIntConfig(cmd, "width", &opts.cameraWidth, fileCfg.Camera.Width)
	applyIntConfig(cmd, "height", &opts.cameraHeight, fileCfg.Camera.Height)
	applyBoolConfig(cmd, "mirror", &opts.cameraMirror, fileCfg.Camera.Mirror)

	applyFloatConfig(cmd, "min-confidence", &opts.minConfidence, fileCfg.Detector.MinConfidence)
	applyStringConfig(cmd, "detector-script", &opts.script, fileCfg.Detector.Script)

	applyStringConfig(cmd, "sound-dir", &opts.soundDir, fileCfg.Sound.Dir)
	applyStringConfig(cmd, "sound-command", &opts.soundCommand, fileCfg.Sound.Command)
	applyBoolConfig(cmd, "mute", &opts.soundDisabled, fileCfg.Sound.Disabled)
	applyDurationConfig(cmd, "sound-timeout", &opts.soundTimeout, fileCfg.Sound.Timeout)

	applyStringConfig(cmd, "db", &opts.database, fileCfg.Server.Database)
	applyStringConfig(cmd, "addr", &opts.addr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "static-dir", &opts.staticDir, fileCfg.Server.StaticDir)

	return validateSettings(opts)
}

func validateSettings(s settings) error {
	if s.rounds <= 0 {
		return fmt.Errorf("--rounds must be > 0")
	}
	if s.lockDuration <= 0 {
		return fmt.Errorf("--lock-duration must be > 0")
	}
	if s.tickInterval <= 0 {
		return fmt.Errorf("--tick-interval must be > 0")
	}
	if s.tickInterval > s.lockDuration {
		return fmt.Errorf("--tick-interval must not exceed --lock-duration")
	}
	if s.minConfidence < 0 || s.minConfidence > 1 {
		return fmt.Errorf("--min-confidence must be between 0 and 1")
	}
	if s.cameraFPS <= 0 {
		return fmt.Errorf("--fps must be > 0")
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := opts.configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = value.Duration
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# fingermath configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# rounds = %d                  # Questions per game
# lock-duration = %q          # How long a count must be held to lock
# feedback-duration = %q      # How long feedback stays on screen
# tick-interval = %q       # Game loop tick
# stale-after = %q            # Age after which a frame reads as no hand

[camera]
# id = 0                       # Camera device id
# fps = %d                     # Frames per second
# width = %d
# height = %d
# mirror = true                # Mirror the image for a selfie view

[detector]
# min-confidence = %.1f         # Joint confidence threshold (0-1)
# script = ""                  # Path to mediapipe_service.py

[sound]
# dir = %q
# command = %q
# disabled = false
# timeout = %q

[server]
# addr = %q
# static-dir = ""              # Serve this directory instead of the built-in page
# database = %q
`,
		game.DefaultRounds,
		stability.DefaultLockDuration.String(),
		game.DefaultFeedbackDuration.String(),
		stability.DefaultTickInterval.String(),
		game.DefaultStaleAfter.String(),
		capture.DefaultFPS,
		capture.DefaultWidth,
		capture.DefaultHeight,
		detector.DefaultMinConfidence,
		config.DefaultSoundDir(),
		sound.DefaultCommand(),
		defaultSoundTimeout.String(),
		defaultAddr,
		config.DefaultDBPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
