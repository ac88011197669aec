package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"autoclick/internal/config"
	"autoclick/internal/core/autoclicker"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := parseLogLevel(in)
		if err != nil || got != want {
			t.Fatalf("parseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseLogLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLineSinkWriterSplitsLines(t *testing.T) {
	var got []string
	w := &lineSinkWriter{sink: func(line string) { got = append(got, line) }}

	_, _ = w.Write([]byte("first\nsec"))
	_, _ = w.Write([]byte("ond\n\n  third  \n"))

	want := []string{"first", "second", "third"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("lines = %q, want %q", got, want)
	}
}

func TestFlagOverridesApplyOnlyChangedFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--button", "right", "--rect", "10,20,30,40", "--no-history"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	o := &options{button: "right", rect: "10,20,30,40", noHistory: true}

	s := config.Defaults()
	s.Delay.Value = 250
	if err := flagOverrides(cmd, o)(&s); err != nil {
		t.Fatalf("overrides error = %v", err)
	}
	if s.Button != "right" || s.Position.Mode != "rectangle" || s.Position.Rect != [4]int{10, 20, 30, 40} {
		t.Fatalf("settings = %+v", s)
	}
	if s.History {
		t.Fatalf("--no-history should disable history")
	}
	if s.Delay.Value != 250 {
		t.Fatalf("unset --delay-value overrode %v", s.Delay.Value)
	}
}

func TestFlagOverridesRectKeepsExplicitPosition(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--rect", "1,2,3,4", "--position", "cursor"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	o := &options{rect: "1,2,3,4", position: "cursor"}
	s := config.Defaults()
	if err := flagOverrides(cmd, o)(&s); err != nil {
		t.Fatalf("overrides error = %v", err)
	}
	if s.Position.Mode != "cursor" {
		t.Fatalf("position mode = %q, want cursor", s.Position.Mode)
	}
}

type fakeRecorder struct {
	mu       sync.Mutex
	sessions []string
	err      error
}

func (f *fakeRecorder) RecordSummary(_ context.Context, s autoclicker.SessionSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, s.ID)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNoticeRouterRecordsEndedSessions(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	ended := 0
	r := &noticeRouter{logger: discardLogger(), recorder: rec, ended: func() { ended++ }}

	r.handle(autoclicker.Notice{Kind: autoclicker.NoticeSessionStarted, Session: &autoclicker.SessionSummary{ID: "s1"}})
	r.handle(autoclicker.Notice{Kind: autoclicker.NoticeClickFailed, Message: "click failed", Err: errors.New("boom")})
	r.handle(autoclicker.Notice{Kind: autoclicker.NoticeSessionEnded, Session: &autoclicker.SessionSummary{ID: "s1"}})
	r.handle(autoclicker.Notice{Kind: autoclicker.NoticeSessionEnded})

	if len(rec.sessions) != 1 || rec.sessions[0] != "s1" {
		t.Fatalf("recorded = %v, want [s1]", rec.sessions)
	}
	if ended != 1 {
		t.Fatalf("ended called %d times, want 1", ended)
	}
}

func TestNoticeRouterDrainsAfterStop(t *testing.T) {
	rec := &fakeRecorder{}
	r := &noticeRouter{logger: discardLogger(), recorder: rec}

	notices := make(chan autoclicker.Notice, 4)
	stop := make(chan struct{})
	notices <- autoclicker.Notice{Kind: autoclicker.NoticeSessionEnded, Session: &autoclicker.SessionSummary{ID: "a"}}
	notices <- autoclicker.Notice{Kind: autoclicker.NoticeSessionEnded, Session: &autoclicker.SessionSummary{ID: "b"}}
	close(stop)

	done := make(chan struct{})
	go func() {
		r.run(notices, stop)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("router did not return after stop")
	}
	if len(rec.sessions) != 2 {
		t.Fatalf("recorded = %v, want both buffered sessions", rec.sessions)
	}
}

func TestRunUnknownFlagIsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--no-such-flag"}, &stdout, &stderr); code != 2 {
		t.Fatalf("exit code = %d, want 2 (stderr %q)", code, stderr.String())
	}
}

func TestRunInvalidSettingIsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"--config", filepath.Join(t.TempDir(), "none.toml"), "--tui=false", "--backend", "dry-run", "--delay-value=-1"}
	if code := run(args, &stdout, &stderr); code != 2 {
		t.Fatalf("exit code = %d, want 2 (stderr %q)", code, stderr.String())
	}
}

func TestConfigPathAndInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "autoclick.toml")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"config", "path", "--config", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("config path exit = %d", code)
	}
	if strings.TrimSpace(stdout.String()) != path {
		t.Fatalf("config path = %q, want %q", stdout.String(), path)
	}

	if code := run([]string{"config", "init", "--config", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("config init exit = %d (stderr %q)", code, stderr.String())
	}
	file, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	s := config.Defaults()
	if err := file.Apply(&s); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if s.Toggle != autoclicker.DefaultToggleKey {
		t.Fatalf("written toggle = %q", s.Toggle)
	}

	if code := run([]string{"config", "init", "--config", path}, &stdout, &stderr); code != 2 {
		t.Fatalf("second init exit = %d, want 2", code)
	}
	if code := run([]string{"config", "init", "--force", "--config", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("forced init exit = %d", code)
	}
}

func TestKeysListsNames(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"keys"}, &stdout, &stderr); code != 0 {
		t.Fatalf("keys exit = %d", code)
	}
	out := stdout.String()
	for _, want := range []string{"Ctrl", "F1", "PageUp", "Ctrl+Shift+F6"} {
		if !strings.Contains(out, want) {
			t.Fatalf("keys output missing %q:\n%s", want, out)
		}
	}
}

func TestDryRunSessionIsRecorded(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	args := []string{
		"--config", filepath.Join(dir, "none.toml"),
		"--tui=false",
		"--backend", "dry-run",
		"--start",
		"--once",
		"--stop", "count",
		"--stop-value", "3",
		"--delay-value", "1",
		"--delay-unit", "ms",
	}

	var stdout, stderr bytes.Buffer
	done := make(chan int, 1)
	go func() { done <- run(args, &stdout, &stderr) }()
	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("exit code = %d (stderr %q)", code, stderr.String())
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("--once run did not exit")
	}

	stdout.Reset()
	if code := run([]string{"history", "--db", config.DefaultHistoryPath()}, &stdout, &stderr); code != 0 {
		t.Fatalf("history exit = %d (stderr %q)", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "click-limit") || !strings.Contains(out, "left") {
		t.Fatalf("history output = %q", out)
	}
}

func TestUnitFlagsAdvertiseAcceptedUnits(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"stop-unit", "delay-unit"} {
		usage := cmd.Flags().Lookup(name).Usage
		list := usage[strings.LastIndex(usage, " ")+1:]
		for _, unit := range strings.Split(list, "|") {
			if _, err := autoclicker.ParseTimeUnit(unit); err != nil {
				t.Fatalf("--%s advertises %q: %v", name, unit, err)
			}
		}
	}
}

func TestLocalKeysSkipTerminalWithoutDevice(t *testing.T) {
	tests := []struct {
		useTUI bool
		device string
		want   bool
	}{
		{useTUI: true, device: "", want: false},
		{useTUI: true, device: "/dev/input/event3", want: true},
		{useTUI: false, device: "", want: true},
		{useTUI: false, device: "/dev/input/event3", want: true},
	}
	for _, tt := range tests {
		if got := watchLocalKeys(tt.useTUI, tt.device); got != tt.want {
			t.Fatalf("watchLocalKeys(%v, %q) = %v, want %v", tt.useTUI, tt.device, got, tt.want)
		}
	}
}

type countingToggler struct{ calls int }

func (c *countingToggler) Toggle() autoclicker.State {
	c.calls++
	return autoclicker.StateRunning
}

func TestWatchedToggleSwallowsBoundKey(t *testing.T) {
	toggler := &countingToggler{}
	ctrl, err := autoclicker.NewToggleController(toggler, nil, discardLogger())
	if err != nil {
		t.Fatalf("NewToggleController() error = %v", err)
	}
	if err := ctrl.Assign("F1"); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	view := watchedToggle{ctrl}

	if !view.HandleKey(autoclicker.MustParseKeySequence("F1")) {
		t.Fatalf("bound key should be consumed")
	}
	if view.HandleKey(autoclicker.MustParseKeySequence("F2")) {
		t.Fatalf("other keys should fall through")
	}
	if toggler.calls != 0 {
		t.Fatalf("terminal press toggled %d times while the watcher owns the key", toggler.calls)
	}

	ctrl.HandleKey(autoclicker.MustParseKeySequence("F1"))
	if toggler.calls != 1 {
		t.Fatalf("watcher press toggled %d times, want 1", toggler.calls)
	}
}
