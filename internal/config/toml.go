// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Unset keys stay nil so
// callers can tell them apart from explicit zero values.
type FileConfig struct {
	Game     GameConfig     `toml:"game"`
	Camera   CameraConfig   `toml:"camera"`
	Detector DetectorConfig `toml:"detector"`
	Sound    SoundConfig    `toml:"sound"`
	Server   ServerConfig   `toml:"server"`
}

// GameConfig maps round and timing settings.
type GameConfig struct {
	LockDuration     *Duration `toml:"lock-duration"`
	FeedbackDuration *Duration `toml:"feedback-duration"`
	TickInterval     *Duration `toml:"tick-interval"`
	StaleAfter       *Duration `toml:"stale-after"`
	Rounds           *int      `toml:"rounds"`
}

// CameraConfig maps capture device settings.
type CameraConfig struct {
	ID     *int  `toml:"id"`
	FPS    *int  `toml:"fps"`
	Width  *int  `toml:"width"`
	Height *int  `toml:"height"`
	Mirror *bool `toml:"mirror"`
}

// DetectorConfig maps hand detector settings.
type DetectorConfig struct {
	MinConfidence *float64 `toml:"min-confidence"`
	Script        *string  `toml:"script"`
}

// SoundConfig maps feedback sound settings.
type SoundConfig struct {
	Dir      *string   `toml:"dir"`
	Command  *string   `toml:"command"`
	Disabled *bool     `toml:"disabled"`
	Timeout  *Duration `toml:"timeout"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr      *string `toml:"addr"`
	StaticDir *string `toml:"static-dir"`
	Database  *string `toml:"database"`
}

// Duration is a time.Duration written as a Go duration string ("2s", "150ms").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
