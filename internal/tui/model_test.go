package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"autoclick/internal/config"
	"autoclick/internal/core/autoclicker"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeStatus struct {
	snap autoclicker.Snapshot
}

func (f *fakeStatus) Snapshot() autoclicker.Snapshot { return f.snap }

type fakeToggle struct {
	binding  autoclicker.KeySequence
	active   bool
	handled  []autoclicker.KeySequence
	assigned []string
}

func (f *fakeToggle) HandleKey(seq autoclicker.KeySequence) bool {
	if seq != f.binding {
		return false
	}
	f.handled = append(f.handled, seq)
	return true
}

func (f *fakeToggle) Binding() autoclicker.KeySequence { return f.binding }
func (f *fakeToggle) HotkeyActive() bool               { return f.active }

func (f *fakeToggle) Assign(value string) error {
	if value == "" {
		value = autoclicker.DefaultToggleKey
	}
	seq, err := autoclicker.ParseKeySequence(value)
	if err != nil {
		return err
	}
	f.assigned = append(f.assigned, value)
	f.binding = seq
	return nil
}

func (f *fakeToggle) Reset() error { return f.Assign("") }

type fakeSettings struct {
	cfg       autoclicker.ClickConfig
	toggle    string
	flips     int
	reloads   int
	reloadErr error
}

func (f *fakeSettings) ClickConfig() autoclicker.ClickConfig { return f.cfg }

func (f *fakeSettings) Reload() (config.Settings, error) {
	f.reloads++
	s := config.Defaults()
	if f.toggle != "" {
		s.Toggle = f.toggle
	}
	return s, f.reloadErr
}

func (f *fakeSettings) FlipButton() (autoclicker.Button, error) {
	f.flips++
	return autoclicker.ButtonRight, nil
}

func newTestModel() (*Model, *fakeStatus, *fakeToggle, *fakeSettings) {
	status := &fakeStatus{}
	toggle := &fakeToggle{binding: autoclicker.MustParseKeySequence("F1")}
	settings := &fakeSettings{cfg: autoclicker.ClickConfig{
		Delay: autoclicker.DelayConfig{Mode: autoclicker.DelayFixed, FixedMs: 100},
	}}
	return NewModel(status, toggle, settings, nil), status, toggle, settings
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestToggleKeyReachesController(t *testing.T) {
	m, _, toggle, _ := newTestModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyF1})
	if cmd != nil {
		t.Fatalf("toggle key should not return a command")
	}
	if len(toggle.handled) != 1 {
		t.Fatalf("handled = %v, want one F1", toggle.handled)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyF2})
	if len(toggle.handled) != 1 {
		t.Fatalf("F2 should not toggle")
	}
}

func TestToggleWithModifiers(t *testing.T) {
	m, _, toggle, _ := newTestModel()
	toggle.binding = autoclicker.MustParseKeySequence("Ctrl+T")

	m.Update(runes("t"))
	if len(toggle.handled) != 0 {
		t.Fatalf("plain t should not match Ctrl+T")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if len(toggle.handled) != 1 {
		t.Fatalf("ctrl+t did not toggle")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _, _, _ := newTestModel()
	if _, cmd := m.Update(runes("q")); !isQuit(cmd) {
		t.Fatalf("q should quit")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Fatalf("ctrl+c should quit")
	}
}

func TestBoundKeyWinsOverShortcut(t *testing.T) {
	m, _, toggle, settings := newTestModel()
	toggle.binding = autoclicker.MustParseKeySequence("B")

	m.Update(runes("b"))
	if len(toggle.handled) != 1 || settings.flips != 0 {
		t.Fatalf("handled = %d, flips = %d; want toggle only", len(toggle.handled), settings.flips)
	}
}

func TestButtonAndReload(t *testing.T) {
	m, _, _, settings := newTestModel()

	m.Update(runes("b"))
	if settings.flips != 1 || !strings.Contains(m.lines[len(m.lines)-1], "right") {
		t.Fatalf("flip: flips = %d, lines = %v", settings.flips, m.lines)
	}

	m.Update(runes("r"))
	if settings.reloads != 1 || !strings.Contains(m.lines[len(m.lines)-1], "reloaded") {
		t.Fatalf("reload: lines = %v", m.lines)
	}

	settings.reloadErr = errors.New("bad toml")
	m.Update(runes("r"))
	if !strings.Contains(m.lines[len(m.lines)-1], "bad toml") {
		t.Fatalf("reload error not shown: %v", m.lines)
	}
}

func TestReloadRebindsToggleKey(t *testing.T) {
	m, _, toggle, settings := newTestModel()
	settings.toggle = "Ctrl+Shift+F6"

	m.Update(runes("r"))
	if len(toggle.assigned) != 1 || toggle.assigned[0] != "Ctrl+Shift+F6" {
		t.Fatalf("assigned = %v, want Ctrl+Shift+F6", toggle.assigned)
	}
	if !strings.Contains(m.lines[len(m.lines)-1], "Ctrl+Shift+F6") {
		t.Fatalf("reload line = %q", m.lines[len(m.lines)-1])
	}

	m.Update(tea.KeyMsg{Type: tea.KeyF1})
	if len(toggle.handled) != 0 {
		t.Fatalf("old F1 binding still toggles")
	}

	settings.reloadErr = errors.New("bad toml")
	m.Update(runes("r"))
	if len(toggle.assigned) != 1 {
		t.Fatalf("failed reload reassigned the toggle: %v", toggle.assigned)
	}
}

func TestResetToggleKey(t *testing.T) {
	m, _, toggle, _ := newTestModel()
	toggle.binding = autoclicker.MustParseKeySequence("Ctrl+T")

	m.Update(runes("d"))
	if toggle.binding != autoclicker.MustParseKeySequence(autoclicker.DefaultToggleKey) {
		t.Fatalf("binding = %v, want %s", toggle.binding, autoclicker.DefaultToggleKey)
	}
	if !strings.Contains(m.lines[len(m.lines)-1], "reset to F1") {
		t.Fatalf("reset line = %q", m.lines[len(m.lines)-1])
	}
	if !strings.Contains(m.keys.Toggle.Help().Key, "F1") {
		t.Fatalf("toggle help = %q", m.keys.Toggle.Help().Key)
	}
}

func TestTickRefreshesSnapshot(t *testing.T) {
	m, status, _, _ := newTestModel()
	status.snap = autoclicker.Snapshot{State: autoclicker.StateRunning, Clicks: 1234}

	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("tick should schedule the next tick")
	}
	if m.snap.Clicks != 1234 {
		t.Fatalf("snapshot not refreshed: %+v", m.snap)
	}
	out := m.View()
	for _, want := range []string{"clicking", "1,234", "F1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestIdleViewShowsNextConfig(t *testing.T) {
	m, _, _, _ := newTestModel()
	out := m.View()
	for _, want := range []string{"idle", "every 100ms", "this terminal only"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestFeedLinesAreCapped(t *testing.T) {
	feed := make(chan string, 1)
	m, _, _, _ := newTestModel()
	m.feed = feed

	for i := 0; i < maxFeedLines+3; i++ {
		_, cmd := m.Update(lineMsg("line"))
		if cmd == nil {
			t.Fatalf("line should re-arm the feed reader")
		}
	}
	if len(m.lines) != maxFeedLines {
		t.Fatalf("len(lines) = %d, want %d", len(m.lines), maxFeedLines)
	}

	feed <- "hello"
	if msg := m.waitForLine()(); msg != lineMsg("hello") {
		t.Fatalf("waitForLine() = %v", msg)
	}
	close(feed)
	if msg := m.waitForLine()(); msg != nil {
		t.Fatalf("closed feed should yield nil, got %v", msg)
	}
}

func TestDescribeConfig(t *testing.T) {
	cfg := autoclicker.ClickConfig{
		Button:   autoclicker.ButtonRight,
		Stop:     autoclicker.StopConfig{Mode: autoclicker.StopDuration, Limit: 1500},
		Delay:    autoclicker.DelayConfig{Mode: autoclicker.DelayRandom, MinMs: 50, MaxMs: 150},
		Position: autoclicker.PositionConfig{Mode: autoclicker.PositionRectangle, X1: 1, Y1: 2, X2: 3, Y2: 4},
	}
	want := "right button · every 50-150ms · in (1,2)-(3,4) · stop after 1.5s"
	if got := describeConfig(cfg); got != want {
		t.Fatalf("describeConfig() = %q, want %q", got, want)
	}

	cfg.Stop = autoclicker.StopConfig{Mode: autoclicker.StopClickCount, Limit: 2000}
	if got := describeConfig(cfg); !strings.HasSuffix(got, "stop after 2,000 clicks") {
		t.Fatalf("describeConfig() = %q", got)
	}
}
