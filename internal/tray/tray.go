// Package tray provides a system tray menu that follows the running game.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/fingermath/internal/game"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(enabled bool)
	onRestart func()
	onOpen    func()
	onQuit    func()
	enabled   bool
	snap      game.Snapshot
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuQuestion *systray.MenuItem
	menuScore    *systray.MenuItem
	menuToggle   *systray.MenuItem
}

// New creates a new Tray instance with detection enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback run when detection is paused or resumed.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRestart sets the callback run when Restart is clicked.
func (t *Tray) OnRestart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRestart = fn
}

// OnOpen sets the callback run when "Open in browser" is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback run when Quit is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Finger Math")
	systray.SetTooltip("Finger Math")

	t.mu.Lock()
	question, score := Labels(t.snap)
	t.menuQuestion = systray.AddMenuItem(question, "Current question")
	t.menuQuestion.Disable()
	t.menuScore = systray.AddMenuItem(score, "Current score")
	t.menuScore.Disable()
	systray.AddSeparator()

	menuRestart := systray.AddMenuItem("Restart", "Start a new game")
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume hand detection")
	menuOpen := systray.AddMenuItem("Open in browser", "Open the game page")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Finger Math")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-menuRestart.ClickedCh:
				t.handleRestart()
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// Labels returns the question and score menu titles for snap.
func Labels(snap game.Snapshot) (question, score string) {
	total := snap.TotalRounds
	if total == 0 {
		total = game.DefaultRounds
	}
	switch {
	case snap.Complete:
		question = "Game over"
	case snap.Phase == "":
		question = "Waiting for game"
	default:
		question = fmt.Sprintf("Question %d of %d", snap.Round+1, total)
	}
	return question, fmt.Sprintf("Score %d", snap.Score)
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Detecting"
	}
	return "○ Paused"
}

// Update shows snap in the menu. It is safe to call before Run.
func (t *Tray) Update(snap game.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap = snap
	if t.menuQuestion == nil {
		return
	}
	question, score := Labels(snap)
	t.menuQuestion.SetTitle(question)
	t.menuScore.SetTitle(score)
}

// Follow applies every snapshot from updates until the channel closes.
func (t *Tray) Follow(updates <-chan game.Snapshot) {
	for snap := range updates {
		t.Update(snap)
	}
}

// Snapshot returns the last snapshot shown.
func (t *Tray) Snapshot() game.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

// handleToggle handles the detection menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleRestart() {
	t.mu.RLock()
	callback := t.onRestart
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// IsEnabled returns whether detection is running.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
