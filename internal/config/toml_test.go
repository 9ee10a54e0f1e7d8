package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Game.Rounds != nil || cfg.Server.Addr != nil {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestLoadConfig_Values(t *testing.T) {
	path := writeConfig(t, `
[game]
lock-duration = "1500ms"
feedback-duration = "3s"
rounds = 5

[camera]
id = 2
mirror = false

[detector]
min-confidence = 0.7

[sound]
disabled = true

[server]
addr = ":9000"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Game.LockDuration == nil || cfg.Game.LockDuration.Duration != 1500*time.Millisecond {
		t.Errorf("lock-duration = %v", cfg.Game.LockDuration)
	}
	if cfg.Game.FeedbackDuration == nil || cfg.Game.FeedbackDuration.Duration != 3*time.Second {
		t.Errorf("feedback-duration = %v", cfg.Game.FeedbackDuration)
	}
	if cfg.Game.TickInterval != nil {
		t.Errorf("tick-interval should be unset, got %v", cfg.Game.TickInterval)
	}
	if cfg.Game.Rounds == nil || *cfg.Game.Rounds != 5 {
		t.Errorf("rounds = %v", cfg.Game.Rounds)
	}
	if cfg.Camera.ID == nil || *cfg.Camera.ID != 2 {
		t.Errorf("camera id = %v", cfg.Camera.ID)
	}
	if cfg.Camera.Mirror == nil || *cfg.Camera.Mirror {
		t.Errorf("camera mirror = %v, want explicit false", cfg.Camera.Mirror)
	}
	if cfg.Detector.MinConfidence == nil || *cfg.Detector.MinConfidence != 0.7 {
		t.Errorf("min-confidence = %v", cfg.Detector.MinConfidence)
	}
	if cfg.Sound.Disabled == nil || !*cfg.Sound.Disabled {
		t.Errorf("sound disabled = %v", cfg.Sound.Disabled)
	}
	if cfg.Server.Addr == nil || *cfg.Server.Addr != ":9000" {
		t.Errorf("server addr = %v", cfg.Server.Addr)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad duration", "[game]\nlock-duration = \"soon\"\n", "invalid duration"},
		{"negative duration", "[game]\nlock-duration = \"-1s\"\n", "must not be negative"},
		{"unknown key", "[game]\nlives = 3\n", "unknown config key"},
		{"not toml", "[game\n", "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	tests := []struct {
		got  string
		want string
	}{
		{DefaultConfigPath(), "/tmp/cfg/fingermath/config.toml"},
		{DefaultDBPath(), "/tmp/data/fingermath/recordings.db"},
		{DefaultSoundDir(), "/tmp/data/fingermath/sounds"},
		{DefaultLogPath(), "/tmp/state/fingermath/fingermath.log"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("path = %q, want %q", tt.got, tt.want)
		}
	}
}
