package sound

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV writes a silent mono 16-bit WAV of the given length.
func writeWAV(t *testing.T, path string, length time.Duration) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const rate = 8000
	samples := int(length.Seconds() * rate)
	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, samples),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write samples: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file reports its length", func(t *testing.T) {
		path := filepath.Join(dir, "correct.wav")
		writeWAV(t, path, 500*time.Millisecond)

		length, err := inspect(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if length < 400*time.Millisecond || length > 600*time.Millisecond {
			t.Errorf("length = %v, want about 500ms", length)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := inspect(filepath.Join(dir, "nope.wav"))
		if !errors.Is(err, ErrAssetNotFound) {
			t.Errorf("error = %v, want ErrAssetNotFound", err)
		}
	})

	t.Run("not a wav", func(t *testing.T) {
		path := filepath.Join(dir, "text.wav")
		if err := os.WriteFile(path, []byte("definitely not riff data"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := inspect(path)
		if !errors.Is(err, ErrInvalidAsset) {
			t.Errorf("error = %v, want ErrInvalidAsset", err)
		}
	})
}

func TestCommandPlayer_Play(t *testing.T) {
	truePath, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true command not available")
	}

	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "correct.wav"), 100*time.Millisecond)

	p := NewCommandPlayer(Config{Dir: dir, Command: truePath})

	t.Run("existing asset plays", func(t *testing.T) {
		if err := p.play(CueCorrect); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing asset is reported", func(t *testing.T) {
		if err := p.play(CueIncorrect); !errors.Is(err, ErrAssetNotFound) {
			t.Errorf("error = %v, want ErrAssetNotFound", err)
		}
	})

	t.Run("Play never blocks or panics on failure", func(t *testing.T) {
		p.Play(CueIncorrect)
		p.Play(CueCorrect)
		p.Wait()
	})
}

func TestCommandPlayer_FailingCommand(t *testing.T) {
	falsePath, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false command not available")
	}

	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "incorrect.wav"), 100*time.Millisecond)

	p := NewCommandPlayer(Config{Dir: dir, Command: falsePath})
	if err := p.play(CueIncorrect); err == nil {
		t.Error("expected error from failing command")
	}
}

func TestCommandPlayer_NoCommand(t *testing.T) {
	p := &CommandPlayer{config: Config{Dir: t.TempDir()}}
	if err := p.play(CueCorrect); !errors.Is(err, ErrNoCommand) {
		t.Errorf("error = %v, want ErrNoCommand", err)
	}
}

func TestNop(t *testing.T) {
	var p Player = Nop{}
	p.Play(CueCorrect)
}
