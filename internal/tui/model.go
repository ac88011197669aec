// Package tui provides the Bubble Tea status view for a running clicker.
package tui

import (
	"time"

	"autoclick/internal/config"
	"autoclick/internal/core/autoclicker"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	refreshInterval = 100 * time.Millisecond
	maxFeedLines    = 8
)

type Status interface {
	Snapshot() autoclicker.Snapshot
}

type Toggle interface {
	HandleKey(seq autoclicker.KeySequence) bool
	Binding() autoclicker.KeySequence
	HotkeyActive() bool
	Assign(value string) error
	Reset() error
}

type Settings interface {
	ClickConfig() autoclicker.ClickConfig
	Reload() (config.Settings, error)
	FlipButton() (autoclicker.Button, error)
}

type tickMsg time.Time

type lineMsg string

// Model implements the Bubble Tea status UI.
type Model struct {
	status   Status
	toggle   Toggle
	settings Settings
	feed     <-chan string

	keys     keyMap
	help     help.Model
	fullHelp bool

	snap  autoclicker.Snapshot
	lines []string

	width  int
	height int
}

// NewModel builds the status view. feed carries log and notice lines and may
// be nil.
func NewModel(status Status, toggle Toggle, settings Settings, feed <-chan string) *Model {
	m := &Model{
		status:   status,
		toggle:   toggle,
		settings: settings,
		feed:     feed,
		keys:     newKeyMap(toggle.Binding()),
		help:     help.New(),
	}
	m.snap = status.Snapshot()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForLine())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.snap = m.status.Snapshot()
		m.refreshToggle()
		return m, tick()
	case lineMsg:
		m.pushLine(string(msg))
		return m, m.waitForLine()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if seq, ok := autoclicker.ParseTermKey(msg.String()); ok && m.toggle.HandleKey(seq) {
		m.snap = m.status.Snapshot()
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.fullHelp = !m.fullHelp
	case key.Matches(msg, m.keys.Button):
		button, err := m.settings.FlipButton()
		if err != nil {
			m.pushLine("flip button: " + err.Error())
			break
		}
		m.pushLine("next session clicks " + button.String())
	case key.Matches(msg, m.keys.Reload):
		settings, err := m.settings.Reload()
		if err != nil {
			m.pushLine("reload failed: " + err.Error())
			break
		}
		if err := m.toggle.Assign(settings.Toggle); err != nil {
			m.pushLine("toggle key: " + err.Error())
		}
		m.refreshToggle()
		m.pushLine("config reloaded; toggle " + m.toggle.Binding().String() + ", click settings apply at next start")
	case key.Matches(msg, m.keys.ResetToggle):
		if err := m.toggle.Reset(); err != nil {
			m.pushLine("reset toggle: " + err.Error())
		}
		m.refreshToggle()
		m.pushLine("toggle key reset to " + m.toggle.Binding().String())
	}
	return nil
}

func (m *Model) refreshToggle() {
	m.keys.Toggle = toggleBinding(m.toggle.Binding())
}

func (m *Model) pushLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxFeedLines {
		m.lines = m.lines[len(m.lines)-maxFeedLines:]
	}
}

func (m *Model) waitForLine() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	feed := m.feed
	return func() tea.Msg {
		line, ok := <-feed
		if !ok {
			return nil
		}
		return lineMsg(line)
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
