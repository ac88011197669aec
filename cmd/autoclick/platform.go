package main

import (
	"errors"
	"log/slog"
	"os"
	"syscall"

	"autoclick/internal/adapters/dryrun"
	"autoclick/internal/config"
	"autoclick/internal/core/autoclicker"
)

// platform bundles the capabilities one backend provides. registrar is nil
// when the backend has no global hotkeys.
type platform struct {
	name      string
	effector  autoclicker.ClickEffector
	cursor    autoclicker.CursorProvider
	screen    autoclicker.ScreenBoundsProvider
	registrar autoclicker.HotkeyRegistrar
	start     func()
	closers   []func() error
}

// Start begins delivering hotkey activations.
func (p *platform) Start() {
	if p.start != nil {
		p.start()
	}
}

func (p *platform) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// localKeyTarget is the part of the toggle controller a local key source feeds.
type localKeyTarget interface {
	HotkeyActive() bool
	HandleKey(seq autoclicker.KeySequence) bool
}

// watchLocalKeys reports whether the evdev watcher should run. Without an
// explicit device the status view already receives the terminal's presses.
func watchLocalKeys(useTUI bool, device string) bool {
	return device != "" || !useTUI
}

// watchedToggle is handed to the status view while the keyboard watcher is
// live: the bound key is swallowed there so one press toggles once.
type watchedToggle struct {
	*autoclicker.ToggleController
}

func (t watchedToggle) HandleKey(seq autoclicker.KeySequence) bool {
	return !seq.IsZero() && seq == t.Binding()
}

func openPlatform(backend string, logger *slog.Logger) (*platform, error) {
	if backend == config.BackendDryRun {
		rt, err := dryrun.NewRuntime(0, 0, logger)
		if err != nil {
			return nil, err
		}
		return &platform{
			name:     config.BackendDryRun,
			effector: rt,
			cursor:   rt,
			screen:   rt,
			closers:  []func() error{rt.Close},
		}, nil
	}
	return openNativePlatform(backend, logger)
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}
