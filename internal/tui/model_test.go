package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayusman/fingermath/internal/game"
)

type fakeGame struct {
	snap     game.Snapshot
	restarts int
}

func (g *fakeGame) Snapshot() game.Snapshot { return g.snap }

func (g *fakeGame) Restart() {
	g.restarts++
	g.snap = game.Snapshot{Phase: game.PhaseAwaitingAnswer, TotalRounds: 10, Question: "2 + 2 = ?"}
}

type fakeDemo struct {
	counts []int
}

func (d *fakeDemo) SetCount(n int) { d.counts = append(d.counts, n) }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func awaiting() game.Snapshot {
	return game.Snapshot{
		Phase:       game.PhaseAwaitingAnswer,
		Round:       2,
		TotalRounds: 10,
		Score:       1,
		Question:    "5 - 3 = ?",
		Fingers:     2,
		Progress:    0.5,
		Stability:   "accumulating",
	}
}

func TestViewAwaitingAnswer(t *testing.T) {
	m := NewModel(Config{Game: &fakeGame{snap: awaiting()}})

	out := m.View()
	if !containsAll(out, []string{"Question 3 out of 10", "Score 1/10", "5 - 3 = ?", "Fingers: 2", "Hold still"}) {
		t.Fatalf("view missing expected segments:\n%s", out)
	}
	if strings.Contains(out, "Correct!") {
		t.Errorf("feedback shown while awaiting an answer")
	}
}

func TestViewFeedback(t *testing.T) {
	tests := []struct {
		name     string
		feedback game.Feedback
		want     string
	}{
		{"correct", game.Feedback{Correct: true, Submitted: 2, Expected: 2}, "Correct!"},
		{"wrong", game.Feedback{Submitted: 4, Expected: 2}, "Wrong! It was 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := awaiting()
			snap.Phase = game.PhaseShowingFeedback
			snap.HasFeedback = true
			snap.Feedback = tt.feedback
			m := NewModel(Config{Game: &fakeGame{snap: snap}})

			if out := m.View(); !strings.Contains(out, tt.want) {
				t.Errorf("view missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestViewGameOver(t *testing.T) {
	m := NewModel(Config{Game: &fakeGame{snap: game.Snapshot{
		Phase:       game.PhaseComplete,
		Round:       9,
		TotalRounds: 10,
		Score:       7,
		Complete:    true,
	}}})

	out := m.View()
	if !containsAll(out, []string{"Game over", "Final score 7/10"}) {
		t.Fatalf("view missing game over:\n%s", out)
	}
	if strings.Contains(out, "Fingers") {
		t.Errorf("game over view should not show live fingers")
	}
}

func TestSnapshotMessages(t *testing.T) {
	updates := make(chan game.Snapshot, 1)
	m := NewModel(Config{Game: &fakeGame{}, Updates: updates})

	updates <- awaiting()
	msg := m.Init()()
	if _, cmd := m.Update(msg); cmd == nil {
		t.Error("expected a command waiting for the next snapshot")
	}
	if m.Snapshot() != awaiting() {
		t.Errorf("Snapshot() = %+v", m.Snapshot())
	}

	close(updates)
	if _, cmd := m.Update(m.waitForSnapshot()()); cmd == nil {
		t.Error("expected quit once updates close")
	}
}

func TestRestartKey(t *testing.T) {
	g := &fakeGame{snap: awaiting()}
	m := NewModel(Config{Game: g})

	m.Update(runes("r"))

	if g.restarts != 1 {
		t.Errorf("restarts = %d, want 1", g.restarts)
	}
	if m.Snapshot().Question != "2 + 2 = ?" {
		t.Errorf("view not refreshed after restart: %+v", m.Snapshot())
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		m := NewModel(Config{Game: &fakeGame{snap: awaiting()}})
		if _, cmd := m.Update(msg); cmd == nil {
			t.Errorf("%v: expected quit command", msg)
		}
	}
}

func TestDemoKeys(t *testing.T) {
	demo := &fakeDemo{}
	m := NewModel(Config{Game: &fakeGame{snap: awaiting()}, Demo: demo})

	m.Update(runes("3"))
	m.Update(runes("9"))
	m.Update(runes("x"))
	m.Update(runes("0"))

	want := []int{3, -1, 0}
	if len(demo.counts) != len(want) {
		t.Fatalf("counts = %v, want %v", demo.counts, want)
	}
	for i := range want {
		if demo.counts[i] != want[i] {
			t.Fatalf("counts = %v, want %v", demo.counts, want)
		}
	}
	if !strings.Contains(m.renderFooter(), "holding 0") {
		t.Errorf("footer = %q", m.renderFooter())
	}
}

func TestDigitsIgnoredWithoutDemo(t *testing.T) {
	m := NewModel(Config{Game: &fakeGame{snap: awaiting()}})

	if _, cmd := m.Update(runes("3")); cmd != nil {
		t.Error("digit key should do nothing outside demo mode")
	}
	if strings.Contains(m.renderFooter(), "fingers") {
		t.Errorf("footer advertises demo keys: %q", m.renderFooter())
	}
}
