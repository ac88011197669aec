//go:build linux

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"autoclick/internal/adapters/linuxinput"
	"autoclick/internal/adapters/x11input"
	"autoclick/internal/config"
	"autoclick/internal/core/autoclicker"
)

func openNativePlatform(backend string, logger *slog.Logger) (*platform, error) {
	switch resolveLinuxBackend(backend) {
	case config.BackendX11:
	case config.BackendWin:
		return nil, fmt.Errorf("%w: backend %q is only available on Windows", autoclicker.ErrUnsupported, backend)
	default:
		return nil, fmt.Errorf("no X11 display found (DISPLAY is unset); clicking needs X11 or XWayland, or use --backend dry-run")
	}

	rt, err := x11input.NewRuntime(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open X11 display: %w", err)
	}
	logger.Info("Backend", "name", "x11", "display", os.Getenv("DISPLAY"))
	return &platform{
		name:      config.BackendX11,
		effector:  rt,
		cursor:    rt,
		screen:    rt,
		registrar: rt,
		start:     rt.Start,
		closers:   []func() error{rt.Close},
	}, nil
}

// resolveLinuxBackend picks x11 for auto when a display is reachable.
// Pure Wayland sessions without XWayland resolve to "".
func resolveLinuxBackend(configured string) string {
	choice := strings.ToLower(strings.TrimSpace(configured))
	if choice != "" && choice != config.BackendAuto {
		return choice
	}
	if strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
		return config.BackendX11
	}
	return ""
}

// startLocalKeys watches keyboards through evdev so the toggle works where
// no global grab is possible. Presses are ignored while a global hotkey is
// active, which would otherwise toggle twice. A nil closer means no watcher
// was started.
func startLocalKeys(devicePath string, target localKeyTarget, logger *slog.Logger) (func() error, error) {
	if devicePath == "" && target.HotkeyActive() {
		return nil, nil
	}
	w, err := linuxinput.NewKeyWatcher(devicePath, func(seq autoclicker.KeySequence) {
		if target.HotkeyActive() {
			return
		}
		target.HandleKey(seq)
	}, logger)
	if err != nil {
		return nil, err
	}
	w.Start()
	return w.Close, nil
}

func listInputDevices(w io.Writer) error {
	devices, err := linuxinput.ListInputDevices()
	if err != nil {
		return err
	}
	for _, dev := range devices {
		virtualTag := "physical"
		if dev.IsVirtual {
			virtualTag = "virtual"
		}
		kind := "other"
		switch {
		case dev.IsKeyboard:
			kind = "keyboard"
		case dev.IsPointer:
			kind = "pointer"
		}
		if _, err := fmt.Fprintf(w, "%s: %s [%s, %s]\n", dev.Path, dev.Name, virtualTag, kind); err != nil {
			return err
		}
	}
	return nil
}

func captureKey(devicePath string, timeout time.Duration, logger *slog.Logger) (autoclicker.KeySequence, error) {
	return linuxinput.CaptureNext(devicePath, timeout, logger)
}

func permissionDeniedHint() string {
	return "Permission denied opening /dev/input. Add your user to the input group (or use a udev rule) to read keyboards directly."
}
