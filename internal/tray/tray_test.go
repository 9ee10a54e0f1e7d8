package tray

import (
	"testing"

	"github.com/ayusman/fingermath/internal/game"
)

func TestLabels(t *testing.T) {
	tests := []struct {
		name         string
		snap         game.Snapshot
		wantQuestion string
		wantScore    string
	}{
		{"before the game", game.Snapshot{}, "Waiting for game", "Score 0"},
		{"first round", game.Snapshot{Phase: game.PhaseAwaitingAnswer, TotalRounds: 10}, "Question 1 of 10", "Score 0"},
		{"feedback", game.Snapshot{Phase: game.PhaseShowingFeedback, Round: 4, TotalRounds: 10, Score: 3}, "Question 5 of 10", "Score 3"},
		{"game over", game.Snapshot{Phase: game.PhaseComplete, Round: 9, TotalRounds: 10, Score: 7, Complete: true}, "Game over", "Score 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, s := Labels(tt.snap)
			if q != tt.wantQuestion || s != tt.wantScore {
				t.Errorf("Labels() = (%q, %q), want (%q, %q)", q, s, tt.wantQuestion, tt.wantScore)
			}
		})
	}
}

func TestTray_Toggle(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("new tray should start enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("tray should be enabled after two toggles")
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New()

	var restarts, opens int
	tr.OnRestart(func() { restarts++ })
	tr.OnOpen(func() { opens++ })

	tr.handleRestart()
	tr.handleOpen()
	tr.handleOpen()

	if restarts != 1 || opens != 2 {
		t.Errorf("restarts=%d opens=%d, want 1 and 2", restarts, opens)
	}
}

func TestTray_Follow(t *testing.T) {
	tr := New()
	updates := make(chan game.Snapshot, 2)
	updates <- game.Snapshot{Phase: game.PhaseAwaitingAnswer, Round: 0, TotalRounds: 10}
	updates <- game.Snapshot{Phase: game.PhaseShowingFeedback, Round: 0, TotalRounds: 10, Score: 1}
	close(updates)

	tr.Follow(updates)

	if s := tr.Snapshot(); s.Score != 1 || s.Phase != game.PhaseShowingFeedback {
		t.Errorf("Snapshot() = %+v", s)
	}
}
