// Package tui provides the Bubble Tea game interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayusman/fingermath/internal/game"
)

// Game is the running session. *game.Loop implements it.
type Game interface {
	Snapshot() game.Snapshot
	Restart()
}

// Demo stands in for a hand in front of the camera. *detector.MockDetector
// implements it; a count outside 0-5 removes the hand.
type Demo interface {
	SetCount(n int)
}

// Config holds the collaborators of a Model.
type Config struct {
	Game Game
	// Updates delivers snapshots as the game changes.
	Updates <-chan game.Snapshot
	// Demo, when set, maps the keys 0-5 to finger counts and x to no hand.
	Demo Demo
}

type snapshotMsg game.Snapshot

type updatesClosedMsg struct{}

// Model implements the Bubble Tea game UI.
type Model struct {
	config Config
	snap   game.Snapshot
	bar    progress.Model
	held   int

	width  int
	height int
}

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).Padding(1, 4).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C89A3A"))
	fingersStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	correctStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

const barWidth = 30

// NewModel constructs a game TUI model.
func NewModel(cfg Config) *Model {
	m := &Model{
		config: cfg,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(barWidth)),
		held:   -1,
	}
	if cfg.Game != nil {
		m.snap = cfg.Game.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m *Model) waitForSnapshot() tea.Cmd {
	updates := m.config.Updates
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case snapshotMsg:
		m.snap = game.Snapshot(msg)
		return m, m.waitForSnapshot()
	case updatesClosedMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyRunes:
	default:
		return m, nil
	}

	for _, r := range msg.Runes {
		switch {
		case r == 'q':
			return m, tea.Quit
		case r == 'r':
			if m.config.Game != nil {
				m.config.Game.Restart()
				m.snap = m.config.Game.Snapshot()
			}
		case r >= '0' && r <= '5' && m.config.Demo != nil:
			m.held = int(r - '0')
			m.config.Demo.SetCount(m.held)
		case r == 'x' && m.config.Demo != nil:
			m.held = -1
			m.config.Demo.SetCount(-1)
		}
	}
	return m, nil
}

// Snapshot returns the state currently shown.
func (m *Model) Snapshot() game.Snapshot {
	return m.snap
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderBody()
	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderBody() string {
	s := m.snap
	switch {
	case s.Phase == "":
		return headerStyle.Render("Starting…")
	case s.Complete:
		return lipgloss.JoinVertical(lipgloss.Center,
			questionStyle.Render("Game over"),
			"",
			fmt.Sprintf("Final score %s", s.ScoreLabel()),
		)
	}

	header := headerStyle.Render(fmt.Sprintf("Question %s    Score %s", s.RoundLabel(), s.ScoreLabel()))
	lines := []string{
		header,
		"",
		questionStyle.Render(s.Question),
		"",
		fingersStyle.Render(fmt.Sprintf("Fingers: %d", s.Fingers)),
		m.bar.ViewAs(s.Progress),
	}
	if s.HasFeedback {
		style := wrongStyle
		if s.Feedback.Correct {
			style = correctStyle
		}
		lines = append(lines, "", style.Render(s.Feedback.Message()))
	} else {
		lines = append(lines, "", headerStyle.Render(stabilityHint(s.Stability)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func stabilityHint(stability string) string {
	switch stability {
	case "accumulating":
		return "Hold still…"
	case "locked":
		return "Locked"
	default:
		return "Show your answer with your fingers"
	}
}

func (m *Model) renderFooter() string {
	parts := []string{"r restart", "q quit"}
	if m.config.Demo != nil {
		held := "no hand"
		if m.held >= 0 {
			held = fmt.Sprintf("holding %d", m.held)
		}
		parts = append(parts, "0-5 fingers", "x no hand", held)
	}
	return footerStyle.Render(strings.Join(parts, " · "))
}
