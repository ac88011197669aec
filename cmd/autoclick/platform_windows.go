//go:build windows

package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"autoclick/internal/adapters/wininput"
	"autoclick/internal/config"
	"autoclick/internal/core/autoclicker"
)

func openNativePlatform(backend string, logger *slog.Logger) (*platform, error) {
	switch backend {
	case config.BackendAuto, config.BackendWin:
	default:
		return nil, fmt.Errorf("%w: backend %q is not available on Windows (expected auto|windows|dry-run)", autoclicker.ErrUnsupported, backend)
	}

	rt, err := wininput.NewRuntime(logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Backend", "name", "windows")
	return &platform{
		name:      config.BackendWin,
		effector:  rt,
		cursor:    rt,
		screen:    rt,
		registrar: rt,
		closers:   []func() error{rt.Close},
	}, nil
}

// startLocalKeys has nothing to add on Windows: RegisterHotKey is global and
// the TUI covers the focused terminal.
func startLocalKeys(_ string, _ localKeyTarget, _ *slog.Logger) (func() error, error) {
	return nil, nil
}

func listInputDevices(_ io.Writer) error {
	return fmt.Errorf("%w: Windows uses global hotkeys, there are no devices to choose", autoclicker.ErrUnsupported)
}

func captureKey(_ string, _ time.Duration, _ *slog.Logger) (autoclicker.KeySequence, error) {
	return autoclicker.KeySequence{}, fmt.Errorf("%w: key capture needs evdev (Linux)", autoclicker.ErrUnsupported)
}

func permissionDeniedHint() string {
	return "Permission denied registering the global hotkey or injecting input. Input into elevated windows requires running as Administrator."
}
